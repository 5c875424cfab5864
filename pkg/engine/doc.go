// Package engine ties the dispatcher, the command generator, the runner,
// and the direct database path into a single Execute call.
//
// Statements beginning with ALTER TABLE are rewritten into an invocation of
// the external online-schema-change tool and supervised to completion;
// everything else executes directly against the database. The engine's
// execution route is explicit state passed to each call, never a hidden
// process-wide redirection of the connection layer.
package engine
