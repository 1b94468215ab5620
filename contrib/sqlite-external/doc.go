// Package sqliteexternal registers the CGO SQLite driver
// (github.com/mattn/go-sqlite3) under the name "sqlite3".
//
// core/sqlite imports it when built with the cgo_sqlite tag:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/versekit
//
// Without the tag the passage store uses the pure Go modernc.org/sqlite
// driver, which needs no C toolchain and cross-compiles cleanly.
package sqliteexternal
