package kvstore

import "errors"

// ErrClosed is returned by any operation attempted after Close.
var ErrClosed = errors.New("kvstore: store is closed")
