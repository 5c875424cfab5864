// Package classify assigns a classification to each line of output emitted
// by the external online-schema-change tool.
//
// The tool's stdout/stderr is an unversioned, best-effort text contract; the
// patterns here are an ordered first-match rule set over that contract. The
// classifier's job is failure detection, not filtering: unrecognized lines
// are classified as info and still logged.
package classify
