/*
Package errors provides semantic error types for the asyncquery library.

Query operators fail in a small number of well-defined ways, each with its own
type that can be checked using the standard errors.Is() function or the
provided helper functions.

Common Errors:

	var (
	    ErrArgumentNil = errors.New("argument is nil")
	    ErrCanceled    = errors.New("operation canceled")
	    ErrInvalidCast = errors.New("invalid cast")
	    ErrNotFound    = errors.New("sequence not found")
	    ErrNoCodec     = errors.New("no codec registered for type")
	)

Usage:

	q, err := query.Except(first, nil)
	if errors.IsArgumentNil(err) {
	    // second sequence was nil
	}

	items, err := query.ToSlice(ctx, q)
	if errors.IsCanceled(err) {
	    // ctx was done before or during the drain
	}

CanceledError unwraps to the context error, so errors.Is(err, context.Canceled)
holds as well.
*/
package errors
