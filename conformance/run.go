/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conformance

import (
	"context"
	"fmt"
	"hash/fnv"
	"slices"
	"sync"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/suparena/asyncquery/adapter"
)

const (
	// DefaultParallelism is the number of cases run at once.
	DefaultParallelism = 8
	// DefaultSize is the length of the first input sequence.
	DefaultSize = 24
)

// RunOptions selects and configures the cases of a run.
type RunOptions struct {
	// Operators and Kinds restrict the matrix. Empty means all.
	Operators []Operator
	Kinds     []string
	// Policies keeps only the cases run under one of the listed policies.
	// Empty means all.
	Policies []adapter.Policy
	// Parallelism bounds concurrent cases. Zero means DefaultParallelism.
	Parallelism int
	// Seed makes reference data reproducible across runs.
	Seed uint64
	// Size is the first sequence length. Zero means DefaultSize.
	Size int
	// Keyspace prefixes every seeded key. Empty means a fresh UUID.
	Keyspace string
	// AdapterOptions are applied before the case policy.
	AdapterOptions []adapter.Option
	Logger         *zap.Logger
	Metrics        *Metrics
}

func (o RunOptions) withDefaults() RunOptions {
	if o.Parallelism <= 0 {
		o.Parallelism = DefaultParallelism
	}
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Keyspace == "" {
		o.Keyspace = uuid.NewString()
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

func (o RunOptions) cases() []Case {
	cases := Filter(Matrix(), o.Operators, o.Kinds)
	if len(o.Policies) == 0 {
		return cases
	}
	return slices.DeleteFunc(cases, func(c Case) bool {
		return !slices.Contains(o.Policies, c.Policy)
	})
}

// caseSeed derives the reference seed of c so every case sees different data.
func caseSeed(seed uint64, c Case) uint64 {
	h := fnv.New64a()
	h.Write([]byte(c.Kind))
	h.Write([]byte(c.Operator))
	h.Write([]byte(c.Overload))
	return seed ^ h.Sum64()
}

// RunCase runs a single case against fixture.
func RunCase(ctx context.Context, fixture Fixture, c Case, opts RunOptions) CaseResult {
	opts = opts.withDefaults()
	start := time.Now()

	err := runCase(ctx, fixture, c, opts)

	res := newCaseResult(c, err, strfmt.Duration(time.Since(start)))
	opts.Metrics.observe(fixture.Name(), res)
	return res
}

func runCase(ctx context.Context, fixture Fixture, c Case, opts RunOptions) error {
	logger := opts.Logger.With(zap.String("case", c.ID()))

	adapterOpts := append([]adapter.Option{adapter.WithLogger(logger)}, opts.AdapterOptions...)
	adapterOpts = append(adapterOpts, adapter.WithPolicy(c.Policy))
	a, err := fixture.QueryAdapter(ctx, adapterOpts...)
	if err != nil {
		return fmt.Errorf("failed to create query adapter: %w", err)
	}

	return dispatch(ctx, env{
		adapter:   a,
		keyPrefix: opts.Keyspace + "/" + c.ID(),
		seed:      caseSeed(opts.Seed, c),
		size:      opts.Size,
		logger:    logger,
	}, c)
}

// Run executes the selected cases against fixture and reports every outcome.
// Case failures are recorded in the report; the error is only set when the
// run itself was interrupted.
func Run(ctx context.Context, fixture Fixture, opts RunOptions) (*Report, error) {
	opts = opts.withDefaults()
	cases := opts.cases()

	logger := opts.Logger.With(
		zap.String("provider", fixture.Name()),
		zap.String("keyspace", opts.Keyspace))
	logger.Info("conformance run started",
		zap.Int("cases", len(cases)),
		zap.Int("parallelism", opts.Parallelism))

	started := time.Now()
	results := make([]CaseResult, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)

	var mu sync.Mutex
	var done int
	for i, c := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res := RunCase(gctx, fixture, c, opts)
			results[i] = res
			if res.Outcome != Passed {
				logger.Warn("case did not pass",
					zap.String("case", res.ID),
					zap.String("outcome", string(res.Outcome)),
					zap.String("message", res.Message))
			}

			mu.Lock()
			done++
			if done%100 == 0 {
				logger.Debug("conformance progress", zap.Int("done", done), zap.Int("total", len(cases)))
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("conformance run interrupted: %w", err)
	}

	report := &Report{
		Provider: fixture.Name(),
		Keyspace: opts.Keyspace,
		Started:  strfmt.DateTime(started),
		Duration: strfmt.Duration(time.Since(started)),
	}
	for _, res := range results {
		report.add(res)
	}

	logger.Info("conformance run finished",
		zap.Int("passed", report.Passed),
		zap.Int("failed", report.Failed),
		zap.Int("errored", report.Errored),
		zap.Duration("elapsed", time.Duration(report.Duration)))
	return report, nil
}
