// Package api holds types, interfaces and error values shared between
// regiongc packages and the surrounding heap runtime. Regions are owned
// by the heap and referenced here by index; this library never retains
// a region past heap shutdown.
package api
