// Package transform computes layer assignments for relationship graphs.
//
// # Rank Assignment
//
// [AssignRanks] gives every node its longest-path distance from a source:
//
//	rank(n) = 0                          if n has no predecessors
//	rank(n) = 1 + max(rank(p)) over p    otherwise
//
// Ranks are memoized and computed with an explicit stack, so deep chains do
// not grow the goroutine stack.
//
// # Cycles
//
// A predecessor that is still being computed when it is reached again closes
// a cycle. It contributes rank 0 and the edge is recorded in
// [Ranking.BackEdges]. Rank propagation through the cycle is therefore
// truncated rather than rejected, and a layout can always be produced. The
// caller decides whether to warn about, hint, or reject the back edges.
//
// # Layers
//
// [Layers] groups nodes by rank in insertion order and compacts the rank
// values so that layer indices are consecutive from zero.
package transform
