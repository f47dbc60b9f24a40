/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/suparena/asyncquery/storagemodels"
)

// Retry runs fn until it succeeds, fails with an error isRetryable rejects, or
// options.MaxRetries retries are spent. The backoff grows linearly with each attempt.
func Retry[R any](
	ctx context.Context,
	options storagemodels.StreamOptions,
	isRetryable func(error) bool,
	fn func(ctx context.Context) (R, error),
) (R, error) {
	var zero R
	var lastErr error

	for attempt := 0; attempt <= options.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if isRetryable == nil || !isRetryable(err) {
			return zero, err
		}

		// Don't sleep after last attempt
		if attempt < options.MaxRetries {
			backoff := time.Duration(attempt+1) * options.RetryBackoff
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return zero, fmt.Errorf("failed after %d retries: %w", options.MaxRetries, lastErr)
}
