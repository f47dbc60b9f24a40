/*
Package asyncquery is an asynchronous query adapter over pluggable storage
providers, with a conformance suite that proves the adapter's operators match
their synchronous reference semantics.

The library is organised in layers:
  - query: lazily evaluated asynchronous sequences and their operators
    (Cast, Except, Intersect, FirstOrDefault, Zip, Count and friends)
  - adapter: binds a DataStore to typed queryables and decides which
    operators the provider may answer directly
  - datastore: the provider interface with memory, SQLite, DynamoDB and
    Redis implementations
  - conformance: the operator by element type by overload matrix, compared
    against the slice operators in package enumerable

Basic Usage:

	a := adapter.New(memory.New())
	_ = adapter.Seed(ctx, a, "left", []int32{1, 2, 2, 3})
	_ = adapter.Seed(ctx, a, "right", []int32{2})

	left, _ := adapter.Queryable[int32](a, "left")
	right, _ := adapter.Queryable[int32](a, "right")
	diff, _ := query.Except(left, right)
	values, err := query.ToSlice(ctx, diff) // [1 3]

Running the conformance matrix against a configured provider:

	cfg, _ := config.Load("conformance.yaml")
	store, closeFn, _ := asyncquery.DefaultProviders().Open(ctx, cfg, logger)
	defer closeFn()
	opts, _ := cfg.RunOptions()
	report, err := conformance.Run(ctx, conformance.StoreFixture(store), opts)
*/
package asyncquery
