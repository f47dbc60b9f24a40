/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package numeric

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var three = decimal.NewFromInt(3)

type decimalCodec struct{}

func (decimalCodec) Encode(v decimal.Decimal) (string, bool) {
	return v.String(), false
}

func (decimalCodec) Decode(value string, null bool) (decimal.Decimal, error) {
	if null {
		return decimal.Zero, fmt.Errorf("decimal: unexpected null")
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimal: %w", err)
	}
	return d, nil
}

func decimalDescriptor() Descriptor[decimal.Decimal] {
	return Descriptor[decimal.Decimal]{
		Name:    "decimal",
		Codec:   decimalCodec{},
		FromInt: func(i int64) decimal.Decimal { return decimal.New(i*125, -2) },
		Add:     decimal.Decimal.Add,
		Compare: decimal.Decimal.Cmp,
		Equal:   decimal.Decimal.Equal,
		// String drops trailing zeros, so numerically equal values hash alike.
		Hash:   func(v decimal.Decimal) uint64 { return hashString(v.String()) },
		Bucket: func(v decimal.Decimal) int64 { return v.Div(three).Floor().IntPart() },
	}
}
