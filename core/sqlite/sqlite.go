// Package sqlite opens the database behind the passage store.
//
// The driver is fixed at build time. The default is the pure Go
// modernc.org/sqlite; building with -tags cgo_sqlite (and CGO_ENABLED=1)
// swaps in mattn/go-sqlite3 through contrib/sqlite-external. Callers go
// through Open so that the driver name and DSN options always match.
package sqlite

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/FocuswithJustin/versekit/core/errors"
)

// BusyTimeout is how long a statement waits on a database locked by another
// versekit process before failing.
const BusyTimeout = 5 * time.Second

// Driver describes the SQLite driver compiled into the binary.
type Driver struct {
	Name    string // database/sql driver name
	Package string
	CGO     bool
}

func (d Driver) String() string {
	kind := "pure Go"
	if d.CGO {
		kind = "cgo"
	}
	return d.Package + " (" + kind + ")"
}

// Current returns the compiled-in driver.
func Current() Driver {
	return Driver{Name: driverName, Package: driverPackage, CGO: driverCGO}
}

// DSN builds the data source name for the database file at path.
func DSN(path string) string {
	return "file:" + path + "?" + busyTimeoutParam(BusyTimeout)
}

func millis(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10)
}

// Open opens, creating if needed, the database file at path.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.NewArgument("path", path, "database path cannot be empty")
	}
	return sql.Open(driverName, DSN(path))
}

// OpenMemory opens a private in-memory database. Every connection to
// ":memory:" is a database of its own, so the pool is held to one.
func OpenMemory() (*sql.DB, error) {
	db, err := sql.Open(driverName, ":memory:")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
