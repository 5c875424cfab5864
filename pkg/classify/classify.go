package classify

import "regexp"

// Class is the classification assigned to a single line of tool output.
type Class int

const (
	// ClassInfo is the catch-all class for unrecognized output. Unrecognized
	// lines are never dropped, they are logged under this class.
	ClassInfo Class = iota

	// ClassProgress marks percent-complete progress lines
	ClassProgress

	// ClassCopyStat marks rows-copied statistics lines
	ClassCopyStat

	// ClassWarning marks recognized warning preambles
	ClassWarning

	// ClassError marks lines from the known error vocabulary. The first
	// error-class line determines failure independent of exit code.
	ClassError
)

// String returns the string representation of the class.
func (c Class) String() string {
	switch c {
	case ClassProgress:
		return "progress"
	case ClassCopyStat:
		return "copy-stat"
	case ClassWarning:
		return "warning"
	case ClassError:
		return "error"
	case ClassInfo:
		return "info"
	default:
		return "unknown"
	}
}

type rule struct {
	class   Class
	pattern *regexp.Regexp
}

// rules are evaluated top to bottom, first match wins. Error rules come
// first so that a line matching both an error and a progress shape is
// treated as an error.
var rules = []rule{
	// Explicit error vocabulary: leading ERROR, a MySQL error number
	// pattern (e.g. "ERROR 1062 (23000): ..."), an errno suffix, or the
	// tool's own failure preambles.
	{ClassError, regexp.MustCompile(`(?i)^\s*ERROR\b`)},
	{ClassError, regexp.MustCompile(`\bERROR\s+[1-9]\d{3}\s*\(`)},
	{ClassError, regexp.MustCompile(`\(errno\s*:?\s*[1-9]\d*\)`)},
	{ClassError, regexp.MustCompile(`(?i)^Error\s+(altering|creating|copying|updating|swapping|dropping)\b`)},
	{ClassError, regexp.MustCompile(`(?i)\bwas not altered\b`)},

	// Progress: "Copying `db`.`tbl`:  28% 01:15 remain" and bare
	// percent-complete lines.
	{ClassProgress, regexp.MustCompile(`(?i)^Copying\b.*\d+%.*remain`)},
	{ClassProgress, regexp.MustCompile(`^\s*\d{1,3}%\s`)},

	// Copy statistics: "Copied 10000 rows", "... rows copied".
	{ClassCopyStat, regexp.MustCompile(`(?i)^Copied\s+\d+\s+rows\b`)},
	{ClassCopyStat, regexp.MustCompile(`(?i)\b\d+\s+rows copied\b`)},

	// Warning preambles.
	{ClassWarning, regexp.MustCompile(`(?i)^\s*Warning\b`)},
	{ClassWarning, regexp.MustCompile(`(?i)^Skipping\b`)},
}

// Line classifies a single line of tool output. Classification detects
// failure, it never filters: lines that match nothing are ClassInfo.
func Line(text string) Class {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.class
		}
	}
	return ClassInfo
}
