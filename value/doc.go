// Package value materializes values of loosely known shape into bytes.
//
// A value is classified into one of a closed set of kinds (see Classify).
// Terminal kinds convert directly:
//
//	nil          -> empty slice
//	[]byte       -> returned as-is
//	string, Text -> encoded (utf8 by default, see Encode)
//	stream       -> drained with stream.Drain
//
// Deferred kinds (thunks, callbacks, awaitables) are invoked once and their
// result is resolved again. Every such step consumes one unit of a budget
// that starts at DefaultMaxDepth (63); running out fails with
// errors.KindMaxDepthExceeded instead of recursing without bound.
//
//	data, err := value.AsBuffer(ctx, func() (any, error) {
//	    return promise.Resolved("abc"), nil
//	})
//	// data == []byte("abc")
//
// Failures are *errors.Error values:
//
//	KindUnsupported          value of an unknown shape
//	KindMaxDepthExceeded     budget exhausted
//	KindInvocationFailure    thunk returned an error or panicked
//	KindRejectionPropagated  callback or awaitable reported an error
//
// There is no built-in timeout. A producer that never settles blocks until
// ctx is done.
package value
