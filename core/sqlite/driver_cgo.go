//go:build cgo_sqlite

// CGO SQLite driver using mattn/go-sqlite3.
//
// Build with: CGO_ENABLED=1 go build -tags cgo_sqlite ./cmd/versekit
package sqlite

import (
	"time"

	sqliteexternal "github.com/FocuswithJustin/versekit/contrib/sqlite-external"
)

const (
	driverName    = sqliteexternal.DriverName
	driverPackage = "github.com/mattn/go-sqlite3"
	driverCGO     = true
)

func busyTimeoutParam(d time.Duration) string {
	return "_busy_timeout=" + millis(d)
}
