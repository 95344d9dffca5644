// Package errors provides the structured error type shared by the
// binding layer.
//
// Every error carries a Phase (where it happened) and a Kind (what went
// wrong), so callers can match with errors.Is against a prototype
// instead of parsing messages. Recoverable input problems are returned;
// contract violations are panicked via Violate so programmer error is
// caught at the misuse site.
package errors
