/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package adapter

import (
	"fmt"
	"strings"

	qerrors "github.com/suparena/asyncquery/errors"
)

// Policy selects which operators may be answered by the provider directly
// instead of by streaming the sequence.
type Policy uint8

const (
	// AllowFirst lets FirstOrDefault read the first element from the provider.
	AllowFirst Policy = 1 << iota
	// AllowCount lets Count ask the provider for the sequence length.
	AllowCount
)

const (
	// DisallowAll forces every operator through the streaming path.
	DisallowAll Policy = 0
	// AllowAll enables every provider shortcut the store supports.
	AllowAll = AllowFirst | AllowCount
)

// Allows reports whether every capability in c is enabled.
func (p Policy) Allows(c Policy) bool {
	return p&c == c
}

func (p Policy) String() string {
	switch p {
	case DisallowAll:
		return "disallow-all"
	case AllowAll:
		return "allow-all"
	case AllowFirst:
		return "first"
	case AllowCount:
		return "count"
	default:
		return fmt.Sprintf("Policy(%d)", uint8(p))
	}
}

// ParsePolicy parses the names produced by String. "all" and "none" are
// accepted as short forms.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "allow-all", "all", "":
		return AllowAll, nil
	case "disallow-all", "none":
		return DisallowAll, nil
	case "first":
		return AllowFirst, nil
	case "count":
		return AllowCount, nil
	default:
		return DisallowAll, qerrors.NewValidationError("policy", fmt.Sprintf("unknown policy %q", s))
	}
}
