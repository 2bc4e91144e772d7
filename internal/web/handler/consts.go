package handler

const (
	// RootPath is the root path of a route group.
	RootPath = "/"

	// ErrNilDepsFatalLogMsg is used if router, cfg or a required dependency is nil.
	ErrNilDepsFatalLogMsg = "router, cfg, db or token service is nil"
)
