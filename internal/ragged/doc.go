// Package ragged implements a flat, contiguous store for many independent,
// variable-length multivariate time series.
//
// Layout:
//
//	┌──────────────────────────────────────────────┐
//	│ temporal: rows × channels (row-major float32)│
//	└──────────────────────────────────────────────┘
//	  offsets: [0, n1, n1+n2, ...]   one entry per series boundary
//
// Series i owns rows [offsets[i], offsets[i+1]). The store is immutable
// after construction: reads need no coordination, and Merge produces a new
// store instance instead of mutating in place. Fixed-shape, right-padded
// window views with a synthesized availability mask are served by View.
package ragged
