/*
Package query provides asynchronous query operators over pluggable sequences.

A Queryable[T] is a lazy sequence backed by a StreamFunc, usually supplied by
the adapter package on top of a datastore provider. Operators build new
Queryables without running anything; terminal operators drain them under a
context.Context:

	diff, err := query.Except(first, second)
	if err != nil {
	    return err // ArgumentNilError for a nil input
	}
	items, err := query.ToSlice(ctx, diff)

Operators:
  - Cast, Select, Where
  - Except, ExceptWith, Intersect, IntersectWith
  - Zip, ZipWith
  - FirstOrDefault, FirstOrDefaultWhere, FirstOrDefaultAwait,
    FirstOrDefaultAwaitWithCancellation
  - Count, CountWhere, ToSlice

Every operator validates its arguments when called and returns an
ArgumentNilError before producing any element. Draining under a context that
is already done fails with a CanceledError and yields nothing.

Each source runs its producer in a goroutine feeding a channel. Terminal
operators cancel the producers they started before returning, so stopping
early never leaks goroutines.
*/
package query
