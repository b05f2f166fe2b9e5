// Package coalesce folds bursts of related application events into a
// single delayed, mergeable unit of work.
//
// The first Send for a (type, key) pair creates a scheduled event whose
// deadline is fixed for the whole coalescing window; later Sends for the
// same pair merge their payload into the pending event using declared
// merge operators (increment, decrement, append_unique, remove) without
// rescheduling it. When the scheduler fires the event it posts the last
// merged payload to the type's webhook handler and the pair is free to
// start a new window.
//
// The scheduler state is the only shared resource. Its get/add/update
// surface is not transactional, so Send serializes per key to avoid
// double-creates and lost updates between concurrent callers in the same
// process.
package coalesce
