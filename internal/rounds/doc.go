// Package rounds implements the sequential tool-calling engine: per-query
// conversation state, ordered tool dispatch with degrade-not-abort failure
// handling, and the round loop that decides when to stop.
//
// Everything here is synchronous and single-threaded: each round's model call
// and each tool execution block the caller in sequence. Timeouts, if wanted,
// belong on the caller's context.
package rounds
