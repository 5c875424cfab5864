// Package command builds deterministic invocations of the external
// online-schema-change tool from connection details and a routed ALTER
// TABLE statement.
//
// Determinism is part of the contract: equal inputs produce byte-identical
// argument vectors, which keeps the output testable against golden files.
package command
