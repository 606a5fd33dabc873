// Package dlog recovers a scalar k from the point k*B by exhaustive search.
//
// The search walks k = 0, 1, 2, ... and compares k*B with the target,
// advancing k*B by one point addition per step. It costs O(n) group
// operations for a subgroup of order n, which is only practical when n is
// tiny or when the target scalar is known to be small (the search stops at
// the first match, so recovering 891 on secp256k1 takes 892 steps).
// [Config.MaxIterations] bounds the walk; running past it reports
// [ErrNotFound] exactly like exhausting the whole subgroup.
//
// Because the discrete log is unique modulo the order, every [Strategy]
// returns the same scalar for the same target and bound:
//
//   - [Linear] is the single-threaded walk.
//   - [Parallel] partitions the range across goroutines; the first worker to
//     hit the target cancels the others.
//   - [BabyStepGiantStep] trades O(sqrt(m)) memory for O(sqrt(m)) time over
//     the same bounded range m. It is never chosen implicitly.
package dlog
