// Package bitmap implements a resizable, word packed bit vector used
// to record liveness over heap granules, one bit per tracked granule.
//
// Sequential operations, Setrange, Clearrange, Resize and the set
// algebra, assume a single writer at a time. The Par* variants are
// atomic compare-and-swap retry loops and are safe for arbitrary
// concurrent callers, with per-word atomicity as the sole guarantee,
// callers needing cross-word ordering must add their own fence.
//
// Backing storage is obtained through an Allocator strategy selected
// at construction: Scratch for go-runtime allocation, Heap for
// budgeted allocation that can fail with api.ErrorOutofMemory, Arena
// for allocation from a malloc.Arena.
//
// The last word of a bitmap whose size is not a multiple of 64 is
// partially used, bits at and beyond the size never carry meaning and
// every whole-map operation masks them before deciding anything.
package bitmap
