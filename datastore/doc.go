/*
Package datastore defines the provider interfaces behind asyncquery adapters.

A provider stores named sequences of encoded items and streams them back in
order:

	type DataStore interface {
	    Name() string
	    Put(ctx context.Context, key string, items []storagemodels.Item) error
	    Stream(ctx context.Context, key string, opts ...storagemodels.StreamOption) <-chan storagemodels.StreamResult
	    Delete(ctx context.Context, key string) error
	}

Providers may also implement FirstReader and Counter so that FirstOrDefault
and Count can be answered without streaming the sequence.

Implementations:
  - memory: in-memory provider with fault injection for tests
  - sqlstore: SQLite through database/sql and modernc.org/sqlite
  - ddb: DynamoDB single-table provider
  - redisstore: Redis lists through go-redis

StreamPages and Retry hold the paging, retry and progress logic the
providers share.
*/
package datastore
