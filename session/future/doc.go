// Package future provides a single-assignment result for work running on
// its own goroutine, plus a [Group] that bounds how much of that work runs
// at once.
//
// A [Future] moves from [Pending] to exactly one of [Fulfilled] or
// [Rejected] and never changes again:
//
//	f := future.Go(ctx, func(ctx context.Context) (string, error) {
//		return fetch(ctx, "https://example.com")
//	})
//	body, err := f.Await(ctx)
//
// Sequencing is done with [Then] and fan-out with [All]:
//
//	titles := future.Then(f, parseTitle)
//	pages, err := future.All(a, b, c).Value()
package future
