// Package dispatch decides, per statement, whether execution must be routed
// through the external online-schema-change tool or may proceed directly
// against the database.
package dispatch

import "strings"

// Route indicates which execution path a statement takes.
type Route int

const (
	// DirectRoute executes the statement through the normal SQL path
	DirectRoute Route = iota

	// EngineRoute executes the statement through the external
	// online-schema-change tool
	EngineRoute
)

// String returns the string representation of the route.
func (r Route) String() string {
	switch r {
	case EngineRoute:
		return "engine"
	case DirectRoute:
		return "direct"
	default:
		return "unknown"
	}
}

// For returns the route for the given statement. Matching is a pure,
// case-insensitive check on the statement's leading keyword pair: statements
// beginning with ALTER TABLE take the engine route, everything else executes
// directly. Unmatched input is never an error, it simply routes direct.
//
// The boundary is intentionally narrow; other long-blocking DDL (e.g.
// OPTIMIZE TABLE) could be added here later.
func For(statement string) Route {
	fields := strings.Fields(statement)
	if len(fields) >= 2 && strings.EqualFold(fields[0], "ALTER") && strings.EqualFold(fields[1], "TABLE") {
		return EngineRoute
	}
	return DirectRoute
}
