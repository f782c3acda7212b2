// Package lib supplies bit twiddling helpers and scalar statistics
// used by the bitmap and policy packages.
package lib
