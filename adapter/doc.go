/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package adapter binds a DataStore to the query operators.
//
// Sequences are written with Seed and read back with Queryable, which decodes
// provider items through the codec registered for the element type:
//
//	a := adapter.New(memory.New(), adapter.WithPolicy(adapter.DisallowAll))
//	if err := adapter.Seed(ctx, a, "left", []int64{1, 2, 3}); err != nil {
//		return err
//	}
//	left, err := adapter.Queryable[int64](a, "left")
//
// The Policy decides whether FirstOrDefault and Count may use the provider's
// own First and Count operations. DisallowAll forces them to stream.
package adapter
