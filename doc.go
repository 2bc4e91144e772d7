// Package main provides the entry point of linkboard, a personal board for
// links, YouTube videos and PDF documents. It runs a Fiber web server with a
// REST API guarded by owner tokens, a websocket feed announcing every change
// and either S3 presigned URLs or a local store for the PDF bytes. Records
// are kept with gorm in SQLite, MySQL or PostgreSQL.
package main
