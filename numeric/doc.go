/*
Package numeric defines the element types exercised by the asyncquery
conformance suite.

Ten kinds are supported:

	int32    int32?    int64    int64?
	float32  float32?  float64  float64?
	decimal  decimal?

Nullable kinds are sql.Null[T]. Decimal values use github.com/shopspring/decimal.

Every kind has a Descriptor with a storage codec, a sample generator (FromInt),
value equality, ordering, addition and a coarse bucket key. Importing the
package registers each codec with the registry and each default comparer
with the query package.
*/
package numeric
