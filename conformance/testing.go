/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conformance

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

// RunAll runs the whole matrix against fixture as parallel subtests.
func RunAll(t *testing.T, fixture Fixture) {
	t.Helper()
	RunAllWith(t, fixture, RunOptions{})
}

// RunAllWith is RunAll with a filtered or configured matrix.
func RunAllWith(t *testing.T, fixture Fixture, opts RunOptions) {
	t.Helper()
	if opts.Keyspace == "" {
		opts.Keyspace = "test-" + uuid.NewString()
	}

	for _, c := range opts.cases() {
		t.Run(c.ID(), func(t *testing.T) {
			t.Parallel()
			res := RunCase(context.Background(), fixture, c, opts)
			if res.Outcome != Passed {
				t.Errorf("%s %s: %v", res.Outcome, res.ID, res.Err())
			}
		})
	}
}
