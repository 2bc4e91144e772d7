// Package auth authenticates the board owner and authorizes API calls.
//
// LocalProvider checks email and password against the users table and changes
// passwords. TokenService issues and verifies HS256 bearer tokens carrying the
// user id, email and role.
//
// Routes are protected by composing two fiber middlewares:
//
//	router.Post("/links", auth.RequireToken(tokens), auth.RequireOwner(), handler)
//
// RequireToken answers 401 for a missing or invalid token and stores the
// Identity in the request locals. RequireRole answers 403 when the identity's
// role is not in the allowed set.
package auth
