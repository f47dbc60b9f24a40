/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package conformance

import (
	"fmt"
	"slices"
	"strings"

	"github.com/suparena/asyncquery/adapter"
	qerrors "github.com/suparena/asyncquery/errors"
	"github.com/suparena/asyncquery/numeric"
)

// Operator is an adapter operator under test.
type Operator string

const (
	OpCast           Operator = "Cast"
	OpExcept         Operator = "Except"
	OpIntersect      Operator = "Intersect"
	OpFirstOrDefault Operator = "FirstOrDefault"
	OpZip            Operator = "Zip"
	OpCount          Operator = "Count"
)

// Operators returns every operator in matrix order.
func Operators() []Operator {
	return []Operator{OpCast, OpExcept, OpIntersect, OpFirstOrDefault, OpZip, OpCount}
}

// ParseOperator matches name case-insensitively against Operators.
func ParseOperator(name string) (Operator, error) {
	for _, op := range Operators() {
		if strings.EqualFold(string(op), name) {
			return op, nil
		}
	}
	return "", qerrors.NewValidationError("operators", fmt.Sprintf("unknown operator %q", name))
}

// Overload is one signature variant of an operator.
type Overload string

const (
	Plain                Overload = "plain"
	Comparer             Overload = "comparer"
	Predicate            Overload = "predicate"
	AsyncPredicate       Overload = "async-predicate"
	CancellablePredicate Overload = "cancellable-predicate"
	Pair                 Overload = "pair"
	Selector             Overload = "selector"
)

// Behavior is the property a case checks.
type Behavior string

const (
	// Equivalence compares the adapter result with the synchronous oracle.
	Equivalence Behavior = "equivalence"
	// NoMatch is equivalence with a predicate no element satisfies.
	NoMatch Behavior = "no-match"
	// EmptySource is equivalence over an empty first sequence.
	EmptySource Behavior = "empty-source"
	// Each Null behavior passes nil for one argument and expects ArgumentNilError.
	NullSource    Behavior = "null-source"
	NullFirst     Behavior = "null-first"
	NullSecond    Behavior = "null-second"
	NullPredicate Behavior = "null-predicate"
	NullSelector  Behavior = "null-selector"
	// Cancellation drains with a context that is already done.
	Cancellation Behavior = "cancellation"
	// InvalidCast casts to a type no element has.
	InvalidCast Behavior = "invalid-cast"
)

// Case is one cell of the conformance matrix.
type Case struct {
	Operator Operator
	Kind     string
	Overload Overload
	Behavior Behavior
	Policy   adapter.Policy
}

// ID names the case, e.g. "Except/int32?/comparer/null-second/allow-all".
func (c Case) ID() string {
	return fmt.Sprintf("%s/%s/%s/%s/%s", c.Operator, c.Kind, c.Overload, c.Behavior, c.Policy)
}

type variant struct {
	overload  Overload
	behaviors []Behavior
	// policies run the equivalence behaviors once per policy.
	policies []adapter.Policy
}

var predicateBehaviors = []Behavior{Equivalence, NoMatch, EmptySource, NullSource, NullPredicate, Cancellation}

var operatorVariants = map[Operator][]variant{
	OpCast: {
		{overload: Plain, behaviors: []Behavior{Equivalence, NullSource, Cancellation, InvalidCast}},
	},
	OpExcept: {
		{overload: Plain, behaviors: []Behavior{Equivalence, NullFirst, NullSecond, Cancellation}},
		{overload: Comparer, behaviors: []Behavior{Equivalence, NullFirst, NullSecond, Cancellation}},
	},
	OpIntersect: {
		{overload: Plain, behaviors: []Behavior{Equivalence, NullFirst, NullSecond, Cancellation}},
		{overload: Comparer, behaviors: []Behavior{Equivalence, NullFirst, NullSecond, Cancellation}},
	},
	OpFirstOrDefault: {
		{
			overload:  Plain,
			behaviors: []Behavior{Equivalence, EmptySource, NullSource, Cancellation},
			policies:  []adapter.Policy{adapter.AllowAll, adapter.DisallowAll},
		},
		{overload: Predicate, behaviors: predicateBehaviors},
		{overload: AsyncPredicate, behaviors: predicateBehaviors},
		{overload: CancellablePredicate, behaviors: predicateBehaviors},
	},
	OpZip: {
		{overload: Pair, behaviors: []Behavior{Equivalence, NullFirst, NullSecond, Cancellation}},
		{overload: Selector, behaviors: []Behavior{Equivalence, NullFirst, NullSecond, NullSelector, Cancellation}},
	},
	OpCount: {
		{
			overload:  Plain,
			behaviors: []Behavior{Equivalence, Cancellation},
			policies:  []adapter.Policy{adapter.AllowAll, adapter.DisallowAll},
		},
		{
			overload:  Predicate,
			behaviors: []Behavior{Equivalence, Cancellation},
			policies:  []adapter.Policy{adapter.AllowAll, adapter.DisallowAll},
		},
	},
}

func isEquivalence(b Behavior) bool {
	return b == Equivalence || b == NoMatch || b == EmptySource
}

// Matrix enumerates every case: operator, then element kind, then overload,
// then behavior.
func Matrix() []Case {
	var cases []Case
	for _, op := range Operators() {
		for _, kind := range numeric.Kinds() {
			for _, v := range operatorVariants[op] {
				for _, b := range v.behaviors {
					policies := []adapter.Policy{adapter.AllowAll}
					if isEquivalence(b) && len(v.policies) > 0 {
						policies = v.policies
					}
					for _, p := range policies {
						cases = append(cases, Case{Operator: op, Kind: kind, Overload: v.overload, Behavior: b, Policy: p})
					}
				}
			}
		}
	}
	return cases
}

// Filter keeps the cases whose operator and kind are listed. Empty lists match everything.
func Filter(cases []Case, operators []Operator, kinds []string) []Case {
	var out []Case
	for _, c := range cases {
		if len(operators) > 0 && !slices.Contains(operators, c.Operator) {
			continue
		}
		if len(kinds) > 0 && !slices.Contains(kinds, c.Kind) {
			continue
		}
		out = append(out, c)
	}
	return out
}
