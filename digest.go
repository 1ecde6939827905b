package bloomviz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Digest maps an item's bytes to the 32-bit value that seeds probe
// computation. Implementations must be deterministic across processes and
// platforms.
type Digest interface {
	Sum32(data []byte) uint32
	Sum32String(s string) uint32
	Name() string
}

var (
	// XXH3 digests with xxh3 folded to 32 bits. It is the default.
	XXH3 Digest = xxh3Digest{}
	// XXHash digests with xxhash64 folded to 32 bits.
	XXHash Digest = xxhashDigest{}
	// Murmur3 digests with the 32-bit murmur3 hash.
	Murmur3 Digest = murmur3Digest{}
)

var digests = map[string]Digest{
	XXH3.Name():    XXH3,
	XXHash.Name():  XXHash,
	Murmur3.Name(): Murmur3,
}

// DigestByName returns the digest registered under name (case-insensitive).
func DigestByName(name string) (Digest, error) {
	d, ok := digests[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownDigest, name, strings.Join(DigestNames(), ", "))
	}
	return d, nil
}

// DigestNames returns the supported digest names in sorted order.
func DigestNames() []string {
	names := make([]string, 0, len(digests))
	for name := range digests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fold64 mixes both halves of a 64-bit hash into 32 bits.
func fold64(h uint64) uint32 {
	return uint32(h) ^ uint32(h>>32)
}

type xxh3Digest struct{}

func (xxh3Digest) Sum32(data []byte) uint32    { return fold64(xxh3.Hash(data)) }
func (xxh3Digest) Sum32String(s string) uint32 { return fold64(xxh3.HashString(s)) }
func (xxh3Digest) Name() string                { return "xxh3" }

type xxhashDigest struct{}

func (xxhashDigest) Sum32(data []byte) uint32    { return fold64(xxhash.Sum64(data)) }
func (xxhashDigest) Sum32String(s string) uint32 { return fold64(xxhash.Sum64String(s)) }
func (xxhashDigest) Name() string                { return "xxhash" }

type murmur3Digest struct{}

func (murmur3Digest) Sum32(data []byte) uint32    { return murmur3.Sum32(data) }
func (murmur3Digest) Sum32String(s string) uint32 { return murmur3.Sum32([]byte(s)) }
func (murmur3Digest) Name() string                { return "murmur3" }
