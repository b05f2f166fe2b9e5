// Package async provides lightweight future-based concurrency
// combinators for I/O-bound fan-out.
//
// Go starts a computation and returns a Future; WaitAll collects results
// and stops at the first error, while WaitAllSettled always awaits every
// branch and returns a per-branch result/error union. The settled form
// is what channel dispatch is built on: one failed delivery channel must
// not cancel or mask its siblings.
package async
