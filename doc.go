// Package bloomviz provides a small, inspectable bloom filter.
//
// A bloom filter is a space-efficient probabilistic data structure that tests
// whether an element is a member of a set. False positive matches are possible,
// but false negatives are not – if the filter says an element is not present,
// it definitely is not. If it says an element might be present, it could be a
// false positive.
//
// # Sizing
//
// [New] sizes the bit vector from the expected number of items n and the
// desired false positive probability p:
//
//	m = max(1, ceil(-n * ln(p) / ln(2)²))
//
// The number of probes per item is fixed at [HashArity] (7) regardless of m.
// Invalid parameters (n = 0, p outside (0,1), or m beyond [MaxCapacity]) are
// rejected with [ErrInvalidConfiguration].
//
// # Probe Positions
//
// Each item is reduced to a 32-bit digest d (xxh3 by default, see [Digest]).
// Two families of seven affine transforms are applied to d and combined
// pairwise:
//
//	h1 = d*mulA[i] + addA[i]
//	h2 = d*mulB[i] + addB[i]
//	index[i] = |(h1 + h2) mod m|
//
// Arithmetic is int32 with wraparound and the modulo truncates toward zero.
// This is a fixed double-hashing scheme: the seven positions are not
// independent hash functions, only affine variations of one digest.
//
// Probe positions are part of the public API ([Filter.Probes]) so callers
// can display where an item lands without reaching into the filter.
//
// # Inspecting Bit State
//
// [Filter.Bit], [Filter.SetBits] and [Filter.Snapshot] expose the bit vector
// read-only. A snapshot is an independent copy.
//
// # False Positive Rate
//
// [Filter.CurrentFalsePositiveRate] returns the analytic estimate, as a
// percentage, for a given number of insertions:
//
//	(1 - e^(-7n/m))^7 * 100
//
// It does not inspect the bit vector.
//
// # Thread Safety
//
// [Filter] is NOT thread-safe. Use external synchronization or choose
// [AtomicFilter], which sets bits with [sync/atomic.Uint64.Or] and may be
// used from many goroutines at once.
package bloomviz
