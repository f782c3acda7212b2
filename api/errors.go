package api

import "errors"

// ErrorOutofMemory allocation of backing storage failed or exceeded
// the caller supplied budget.
var ErrorOutofMemory = errors.New("outofmemory")

// ErrorSizeMismatch set algebra attempted between bitmaps of unequal
// size.
var ErrorSizeMismatch = errors.New("sizeMismatch")

// ErrorIndexRange bit index or range falls outside the bitmap.
var ErrorIndexRange = errors.New("indexRange")
