// Package factorial computes n! by splitting [1, n] across concurrent workers
// and merging their partial products into a shared total.
//
// The reference protocol (Compute, MutexAccumulator) keeps the result in a
// signed 64-bit integer guarded by a mutex. Multiplication wraps modulo 2^64,
// which is associative and commutative, so the bit pattern of the result is
// the same for every worker count and every merge order.
//
// Alternative strategies are registered in DefaultFactory:
//
//	mutex    mutex-guarded int64 total
//	atomic   compare-and-swap int64 total
//	channel  partial products folded by the caller
//	big      exact result with math/big (or GMP with -tags gmp)
//
// WrapInt64 projects an exact result onto the 64-bit one so every strategy
// can be compared.
package factorial
