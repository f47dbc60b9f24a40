/*
Package ddb provides a DynamoDB implementation of the DataStore interface.

Sequences use a single-table layout. Every element is one item, one partition
per sequence:

	PK          SK                   EntityType    Seq   Idx  Val   IsNull
	SEQ#run/a   IDX#000000000000     SequenceItem  run/a 0    "12"
	SEQ#run/a   IDX#000000000001     SequenceItem  run/a 1          true

Keys come from an index map whose templates use the {Key} and {Index} macros.
The defaults are:

	indexMap := map[string]string{
	    "PK": "SEQ#{Key}",
	    "SK": "IDX#{Index}", // zero padded so sort keys order like indexes
	}

Features:
  - Batched writes with resubmission of unprocessed items
  - Paginated streaming with retry of throttled queries and progress reporting
  - First answered with a Limit=1 query, Count with Select=COUNT

The store takes any client implementing API, so tests can run against an
in-process fake:

	store := ddb.New(client, "sequences", ddb.WithLogger(logger))
	results := store.Stream(ctx, "run/a",
	    storagemodels.WithPageSize(25),
	    storagemodels.WithMaxRetries(3),
	)
*/
package ddb
