// Package benford computes Benford's Law conformance statistics for sets of
// integers: the observed distribution of the first, second and third
// significant digits and the absolute deviation of that distribution from
// the expected Benford percentages.
//
// All functions are pure and safe for concurrent use.
package benford
