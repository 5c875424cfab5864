// Package parser provides a minimal lexer-backed parser for the head of
// MySQL ALTER TABLE statements.
//
// The parser deliberately interprets only the leading ALTER TABLE keywords
// and the target table name (optionally schema-qualified, optionally
// backtick-quoted). The remainder of the statement is preserved verbatim as
// the alter clause and handed to the external online-schema-change tool
// untouched, since that tool owns the full grammar of what it accepts.
package parser
