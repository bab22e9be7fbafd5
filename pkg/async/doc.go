// Package async provides a small generic Future for handing work to a
// goroutine and collecting its result later.
//
// Go runs the supplied function on its own goroutine and returns at once.
// Resolved wraps a value that is already known, so callers can return the
// same *Future type from fast and slow paths alike.
//
//	f := async.Go(ctx, opts, send)
//	// ...
//	res, err := f.Await()
//
// Await blocks until completion; AwaitContext additionally gives up when a
// context ends, and AwaitWithTimeout after a duration. Done exposes the
// completion channel for select statements.
package async
