// Package malloc supplies a word granular slab arena for bitmap
// backing storage. An arena is divided into pools of fixed sized
// blocks, each pool serving blocks of one power-of-two word count,
// with free blocks tracked by a packed bitmap per pool. Types and
// functions exported by this package are not thread safe, callers
// serialize access the same way they serialize the bitmaps allocated
// from it.
package malloc
