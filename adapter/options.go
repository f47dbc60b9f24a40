/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package adapter

import (
	"go.uber.org/zap"

	"github.com/suparena/asyncquery/storagemodels"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithPolicy sets the provider shortcut policy. The default is AllowAll.
func WithPolicy(policy Policy) Option {
	return func(a *Adapter) {
		a.policy = policy
	}
}

// WithLogger sets the logger used for stream diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithStreamOptions passes paging and retry settings to every provider stream.
func WithStreamOptions(opts ...storagemodels.StreamOption) Option {
	return func(a *Adapter) {
		a.streamOpts = append(a.streamOpts, opts...)
	}
}
