//go:build !cgo_sqlite

package sqlite

import (
	"time"

	_ "modernc.org/sqlite" // registers "sqlite"
)

const (
	driverName    = "sqlite"
	driverPackage = "modernc.org/sqlite"
	driverCGO     = false
)

// modernc takes connection pragmas as _pragma=name(value).
func busyTimeoutParam(d time.Duration) string {
	return "_pragma=busy_timeout(" + millis(d) + ")"
}
