/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package numeric

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

const nullEvery = 5

var (
	Int32           = register(integerDescriptor[int32]("int32", 32))
	NullableInt32   = register(nullable(Int32, nullEvery))
	Int64           = register(integerDescriptor[int64]("int64", 64))
	NullableInt64   = register(nullable(Int64, nullEvery))
	Float32         = register(floatDescriptor[float32]("float32", 32, 0.5))
	NullableFloat32 = register(nullable(Float32, nullEvery))
	Float64         = register(floatDescriptor[float64]("float64", 64, 0.25))
	NullableFloat64 = register(nullable(Float64, nullEvery))
	Decimal         = register(decimalDescriptor())
	NullableDecimal = register(nullable(Decimal, nullEvery))
)

// Compile-time element types of the nullable kinds.
type (
	NullInt32   = sql.Null[int32]
	NullInt64   = sql.Null[int64]
	NullFloat32 = sql.Null[float32]
	NullFloat64 = sql.Null[float64]
	NullDecimal = sql.Null[decimal.Decimal]
)

// Kinds returns the element type names in axis order.
func Kinds() []string {
	return []string{
		Int32.Name, NullableInt32.Name,
		Int64.Name, NullableInt64.Name,
		Float32.Name, NullableFloat32.Name,
		Float64.Name, NullableFloat64.Name,
		Decimal.Name, NullableDecimal.Name,
	}
}
