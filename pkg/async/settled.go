package async

// Settled holds the outcome of one branch of a fan-out: either a value
// or the error that branch failed with. It is the per-branch result
// union used to keep sibling failures isolated from each other.
type Settled[U any] struct {
	Value U
	Err   error
}

// OK reports whether the branch completed without error.
func (s Settled[U]) OK() bool {
	return s.Err == nil
}

// WaitAllSettled waits for every future and returns one Settled per
// future, in argument order. Unlike WaitAll it never short-circuits: a
// failed branch is recorded in its own slot and all siblings are still
// awaited.
func WaitAllSettled[U any](futures ...*Future[U]) []Settled[U] {
	results := make([]Settled[U], len(futures))

	for i, future := range futures {
		results[i].Value, results[i].Err = future.Await()
	}

	return results
}
