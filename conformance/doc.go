/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package conformance checks that a provider-backed query adapter behaves
// like the synchronous reference operators in package enumerable.
//
// The matrix crosses every operator with every numeric element kind, every
// overload and a set of behaviors: equivalence with the reference, rejection
// of nil arguments and early failure on a canceled context. Each case seeds
// its inputs into the provider under a keyspace unique to the run, so runs
// against a shared database do not interfere.
//
// Provider packages hook in from their tests:
//
//	func TestConformance(t *testing.T) {
//		conformance.RunAll(t, conformance.StoreFixture(memory.New()))
//	}
//
// The conformance command runs the same matrix against a configured
// provider and writes a JSON or YAML report.
package conformance
