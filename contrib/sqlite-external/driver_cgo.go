//go:build cgo_sqlite

package sqliteexternal

import (
	_ "github.com/mattn/go-sqlite3" // registers "sqlite3"
)

// DriverName is the database/sql name of the CGO driver.
const DriverName = "sqlite3"
