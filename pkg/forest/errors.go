package forest

import "errors"

// ErrKeyExists is returned by Insert when the key is already live.
var ErrKeyExists = errors.New("forest: key already exists")

// ErrKeyNotFound is returned by Get, Update and Delete when the key is
// absent or tombstoned.
var ErrKeyNotFound = errors.New("forest: key not found")
