/*
Package storagemodels defines the data structures shared by asyncquery providers.

Key Types:

Item:
One stored element of a sequence, in encoded form:

	item := Item{Index: 3, Value: "42"}
	null := Item{Index: 4, Null: true}

StreamResult:
Results from streaming operations with metadata:

	type StreamResult struct {
	    Item  Item       // The stored item
	    Error error      // Error that ended the stream, if any
	    Meta  StreamMeta // Metadata about this item
	}

StreamOptions:
Configuration for streaming behavior:

	opts := []StreamOption{
	    WithBufferSize(100),
	    WithPageSize(25),
	    WithMaxRetries(3),
	    WithProgressHandler(progressFunc),
	}

These types provide a consistent interface across different providers.
*/
package storagemodels
