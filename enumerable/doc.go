/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package enumerable holds synchronous slice versions of the query operators.
//
// They are the reference results the conformance suite compares against. Set
// operators scan with an equality function only and never hash, so they share
// no code path with the query package.
package enumerable
