// Package errors defines the closed set of failures the jolt HTTP client
// can report. Every failure carries a machine-readable Code and enough
// context (status code, underlying cause) to render a readable message.
package errors
