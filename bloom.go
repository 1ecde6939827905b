package bloomviz

import (
	"fmt"
	"math/bits"
	"sync/atomic"

	"github.com/bits-and-blooms/bitset"
)

// Filter is a non-thread-safe bloom filter that combines two affine hash
// families over a single 32-bit digest to derive HashArity probe positions.
//
// Bits are only ever set, never cleared. An item that was inserted is
// reported present for the lifetime of the filter.
type Filter struct {
	bits   *bitset.BitSet // capacityBits positions, all initially unset
	m      uint32         // capacityBits, fixed at construction
	digest Digest
	count  uint64 // Number of Insert calls, duplicates included
}

// New creates a filter sized for expectedItems at the desired false
// positive probability, using the XXH3 digest.
func New(expectedItems uint64, fpRate float64) (*Filter, error) {
	return NewWithDigest(expectedItems, fpRate, XXH3)
}

// NewWithDigest is like New but derives probes from the given digest.
func NewWithDigest(expectedItems uint64, fpRate float64, d Digest) (*Filter, error) {
	m, err := OptimalCapacity(expectedItems, fpRate)
	if err != nil {
		return nil, err
	}
	return NewWithCapacity(m, d)
}

// NewWithCapacity creates a filter with an explicit size in bits.
func NewWithCapacity(capacityBits uint32, d Digest) (*Filter, error) {
	if err := checkCapacity(capacityBits); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: nil digest", ErrInvalidConfiguration)
	}

	return &Filter{
		bits:   bitset.New(uint(capacityBits)),
		m:      capacityBits,
		digest: d,
	}, nil
}

// Probes returns the bit positions data maps to. It does not modify the filter.
func (f *Filter) Probes(data []byte) Probes {
	return probesFor(int32(f.digest.Sum32(data)), int32(f.m))
}

// ProbesString is like Probes for a string key.
func (f *Filter) ProbesString(s string) Probes {
	return probesFor(int32(f.digest.Sum32String(s)), int32(f.m))
}

// Insert adds data to the filter.
func (f *Filter) Insert(data []byte) {
	f.insertProbes(f.Probes(data))
}

// InsertString adds a string to the filter.
func (f *Filter) InsertString(s string) {
	f.insertProbes(f.ProbesString(s))
}

func (f *Filter) insertProbes(p Probes) {
	for _, idx := range p {
		f.bits.Set(uint(idx))
	}
	f.count++
}

// Lookup checks if data might be in the filter.
// Returns true if the data might be present (with false positive probability),
// or false if the data is definitely not present.
func (f *Filter) Lookup(data []byte) bool {
	return f.lookupProbes(f.Probes(data))
}

// LookupString is like Lookup for a string key.
func (f *Filter) LookupString(s string) bool {
	return f.lookupProbes(f.ProbesString(s))
}

func (f *Filter) lookupProbes(p Probes) bool {
	for _, idx := range p {
		if !f.bits.Test(uint(idx)) {
			return false
		}
	}
	return true
}

// TestAndInsert reports whether data might already have been present and
// then inserts it.
func (f *Filter) TestAndInsert(data []byte) bool {
	p := f.Probes(data)
	present := f.lookupProbes(p)
	f.insertProbes(p)
	return present
}

// TestAndInsertString is like TestAndInsert for a string key.
func (f *Filter) TestAndInsertString(s string) bool {
	p := f.ProbesString(s)
	present := f.lookupProbes(p)
	f.insertProbes(p)
	return present
}

// Size returns the capacity of the filter in bits.
func (f *Filter) Size() uint32 {
	return f.m
}

// K returns the number of probes per item.
func (f *Filter) K() uint32 {
	return HashArity
}

// Count returns the number of Insert calls, including repeated items.
func (f *Filter) Count() uint64 {
	return f.count
}

// Digest returns the digest the filter derives probes from.
func (f *Filter) Digest() Digest {
	return f.digest
}

// Bit reports whether bit i is set. Positions past Size are never set.
func (f *Filter) Bit(i uint32) bool {
	return i < f.m && f.bits.Test(uint(i))
}

// SetBits returns the positions of all set bits in ascending order.
func (f *Filter) SetBits() []uint32 {
	out := make([]uint32, 0, f.bits.Count())
	for i, ok := f.bits.NextSet(0); ok; i, ok = f.bits.NextSet(i + 1) {
		out = append(out, uint32(i))
	}
	return out
}

// OnesCount returns the number of set bits.
func (f *Filter) OnesCount() uint32 {
	return uint32(f.bits.Count())
}

// EstimatedFillRatio returns the proportion of bits that are set.
func (f *Filter) EstimatedFillRatio() float64 {
	return float64(f.bits.Count()) / float64(f.m)
}

// Snapshot returns a copy of the bit vector. Changes to the copy do not
// affect the filter.
func (f *Filter) Snapshot() *bitset.BitSet {
	return f.bits.Clone()
}

// CurrentFalsePositiveRate estimates the false positive rate, as a
// percentage, after n insertions of distinct items.
func (f *Filter) CurrentFalsePositiveRate(n uint64) float64 {
	return EstimateFalsePositiveRate(f.m, HashArity, n) * 100
}

// EstimatedFalsePositiveRate estimates the current false positive rate as
// a fraction, based on the number of items inserted.
func (f *Filter) EstimatedFalsePositiveRate() float64 {
	return EstimateFalsePositiveRate(f.m, HashArity, f.count)
}

// AtomicFilter is a thread-safe bloom filter using atomic operations.
// It derives the same probe positions as a Filter of the same size and
// digest, but stores bits in atomic.Uint64 words for concurrent access.
type AtomicFilter struct {
	words  []atomic.Uint64 // ceil(m/64) words, bit i lives in words[i/64]
	m      uint32
	digest Digest
	count  atomic.Uint64
}

// NewAtomic creates a thread-safe filter sized for expectedItems at the
// desired false positive probability, using the XXH3 digest.
func NewAtomic(expectedItems uint64, fpRate float64) (*AtomicFilter, error) {
	return NewAtomicWithDigest(expectedItems, fpRate, XXH3)
}

// NewAtomicWithDigest is like NewAtomic but derives probes from the given digest.
func NewAtomicWithDigest(expectedItems uint64, fpRate float64, d Digest) (*AtomicFilter, error) {
	m, err := OptimalCapacity(expectedItems, fpRate)
	if err != nil {
		return nil, err
	}
	return NewAtomicWithCapacity(m, d)
}

// NewAtomicWithCapacity creates a thread-safe filter with an explicit size in bits.
func NewAtomicWithCapacity(capacityBits uint32, d Digest) (*AtomicFilter, error) {
	if err := checkCapacity(capacityBits); err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: nil digest", ErrInvalidConfiguration)
	}

	return &AtomicFilter{
		words:  make([]atomic.Uint64, (uint64(capacityBits)+63)/64),
		m:      capacityBits,
		digest: d,
	}, nil
}

// Probes returns the bit positions data maps to.
func (f *AtomicFilter) Probes(data []byte) Probes {
	return probesFor(int32(f.digest.Sum32(data)), int32(f.m))
}

// ProbesString is like Probes for a string key.
func (f *AtomicFilter) ProbesString(s string) Probes {
	return probesFor(int32(f.digest.Sum32String(s)), int32(f.m))
}

// Insert adds data to the filter atomically.
func (f *AtomicFilter) Insert(data []byte) {
	f.insertProbes(f.Probes(data))
}

// InsertString adds a string to the filter atomically.
func (f *AtomicFilter) InsertString(s string) {
	f.insertProbes(f.ProbesString(s))
}

func (f *AtomicFilter) insertProbes(p Probes) {
	for _, idx := range p {
		f.words[idx/64].Or(1 << (idx % 64))
	}
	f.count.Add(1)
}

// Lookup checks if data might be in the filter.
// This operation is safe to call concurrently with Insert.
func (f *AtomicFilter) Lookup(data []byte) bool {
	return f.lookupProbes(f.Probes(data))
}

// LookupString is like Lookup for a string key.
func (f *AtomicFilter) LookupString(s string) bool {
	return f.lookupProbes(f.ProbesString(s))
}

func (f *AtomicFilter) lookupProbes(p Probes) bool {
	for _, idx := range p {
		if f.words[idx/64].Load()&(1<<(idx%64)) == 0 {
			return false
		}
	}
	return true
}

// TestAndInsert reports whether data might already have been present and
// then inserts it. The test and the insert are not one atomic step: two
// goroutines inserting the same new item may both observe false.
func (f *AtomicFilter) TestAndInsert(data []byte) bool {
	p := f.Probes(data)
	present := f.lookupProbes(p)
	f.insertProbes(p)
	return present
}

// TestAndInsertString is like TestAndInsert for a string key.
func (f *AtomicFilter) TestAndInsertString(s string) bool {
	p := f.ProbesString(s)
	present := f.lookupProbes(p)
	f.insertProbes(p)
	return present
}

// Size returns the capacity of the filter in bits.
func (f *AtomicFilter) Size() uint32 {
	return f.m
}

// K returns the number of probes per item.
func (f *AtomicFilter) K() uint32 {
	return HashArity
}

// Count returns the number of Insert calls, including repeated items.
func (f *AtomicFilter) Count() uint64 {
	return f.count.Load()
}

// Digest returns the digest the filter derives probes from.
func (f *AtomicFilter) Digest() Digest {
	return f.digest
}

// Bit reports whether bit i is set.
func (f *AtomicFilter) Bit(i uint32) bool {
	return i < f.m && f.words[i/64].Load()&(1<<(i%64)) != 0
}

// OnesCount returns the number of set bits.
func (f *AtomicFilter) OnesCount() uint32 {
	var n int
	for i := range f.words {
		n += bits.OnesCount64(f.words[i].Load())
	}
	return uint32(n)
}

// EstimatedFillRatio returns the proportion of bits that are set.
func (f *AtomicFilter) EstimatedFillRatio() float64 {
	return float64(f.OnesCount()) / float64(f.m)
}

// Snapshot copies the current bit vector into a bitset. Concurrent inserts
// may or may not be reflected in the copy.
func (f *AtomicFilter) Snapshot() *bitset.BitSet {
	b := bitset.New(uint(f.m))
	for w := range f.words {
		word := f.words[w].Load()
		for word != 0 {
			b.Set(uint(w*64 + bits.TrailingZeros64(word)))
			word &= word - 1
		}
	}
	return b
}

// CurrentFalsePositiveRate estimates the false positive rate, as a
// percentage, after n insertions of distinct items.
func (f *AtomicFilter) CurrentFalsePositiveRate(n uint64) float64 {
	return EstimateFalsePositiveRate(f.m, HashArity, n) * 100
}

// EstimatedFalsePositiveRate estimates the current false positive rate as
// a fraction, based on the number of items inserted.
func (f *AtomicFilter) EstimatedFalsePositiveRate() float64 {
	return EstimateFalsePositiveRate(f.m, HashArity, f.count.Load())
}
