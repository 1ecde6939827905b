package bloomviz

import (
	"strconv"
	"strings"
)

// affine is one member of a hash family: digest*mul + add.
type affine struct {
	mul, add int32
}

// familyA and familyB are combined pairwise to derive each probe position.
// The constants are part of the filter's identity: changing any of them
// moves every probe.
var (
	familyA = [HashArity]affine{{3, 7}, {5, 11}, {7, 13}, {11, 17}, {13, 19}, {17, 23}, {19, 29}}
	familyB = [HashArity]affine{{2, 3}, {3, 5}, {5, 7}, {7, 11}, {11, 13}, {13, 17}, {17, 19}}
)

// Probes holds the bit positions an item maps to, in family order.
type Probes [HashArity]uint32

// String renders the probes as "[a, b, c, ...]".
func (p Probes) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, idx := range p {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatUint(uint64(idx), 10))
	}
	sb.WriteByte(']')
	return sb.String()
}

// probesFor derives the probe positions for digest d in a filter of m bits.
// All arithmetic wraps at 32 bits and the modulo truncates toward zero, so
// a negative remainder is folded back into range by negation.
func probesFor(d int32, m int32) Probes {
	var p Probes
	for i := range HashArity {
		h1 := d*familyA[i].mul + familyA[i].add
		h2 := d*familyB[i].mul + familyB[i].add
		idx := (h1 + h2) % m
		if idx < 0 {
			idx = -idx
		}
		p[i] = uint32(idx)
	}
	return p
}
