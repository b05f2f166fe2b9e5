// Package scheduler provides the client for the delayed-job scheduling
// service that backs event coalescing.
//
// The service holds at most one live event per (slug, key) pair and
// invokes the event's HTTP callback when its deadline passes. Updates
// may only replace the callback body; the deadline is fixed when the
// event is created. HTTPClient talks to the hosted service, while
// MemoryClient implements the same contract in-process for development
// and tests.
package scheduler
