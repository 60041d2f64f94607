// Package version reports build metadata stamped in at link time.
package version

import "runtime"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the version line printed by `niriws version`.
func String() string {
	return "niriws " + Version + " (commit=" + Commit + ", date=" + Date + ", go=" + runtime.Version() + ")"
}
