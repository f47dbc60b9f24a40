/*
Package registry manages element type codecs for asyncquery providers.

Providers store sequence elements as strings so that one backing table, list or
map can hold sequences of any element type. A codec converts a Go value to
that stored form and back:

	registry.RegisterCodec[int64]("int64", int64Codec{})

	codec, err := registry.CodecFor[int64]()
	value, null := codec.Encode(42)

The numeric package registers codecs for every supported element type in its
init function. The registry is thread-safe and should be populated during
initialization.
*/
package registry
