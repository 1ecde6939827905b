package bloomviz

import (
	"errors"
	"fmt"
	"math"
)

const (
	// HashArity is the number of probe positions computed per item.
	HashArity = 7
	// MaxCapacity is the largest supported filter size in bits. Probe
	// arithmetic is 32-bit signed, so the modulus must fit in an int32.
	MaxCapacity = math.MaxInt32
	// ln2Squared is ln(2)^2.
	ln2Squared = math.Ln2 * math.Ln2
)

var (
	// ErrInvalidConfiguration is returned when a filter is constructed with
	// parameters that cannot produce a usable filter.
	ErrInvalidConfiguration = errors.New("bloomviz: invalid configuration")

	// ErrUnknownDigest is returned by DigestByName for unsupported names.
	ErrUnknownDigest = errors.New("bloomviz: unknown digest")
)

// OptimalCapacity returns the number of bits needed to hold expectedItems
// at the given false positive probability:
//
//	m = max(1, ceil(-n * ln(p) / ln(2)^2))
func OptimalCapacity(expectedItems uint64, fpRate float64) (uint32, error) {
	if expectedItems == 0 {
		return 0, fmt.Errorf("%w: expected items must be positive", ErrInvalidConfiguration)
	}
	if math.IsNaN(fpRate) || fpRate <= 0 || fpRate >= 1 {
		return 0, fmt.Errorf("%w: false positive probability %v not in (0,1)", ErrInvalidConfiguration, fpRate)
	}

	bits := math.Ceil(-float64(expectedItems) * math.Log(fpRate) / ln2Squared)
	bits = max(bits, 1)
	if bits > MaxCapacity {
		return 0, fmt.Errorf("%w: %d items at p=%v needs %.0f bits (max %d)",
			ErrInvalidConfiguration, expectedItems, fpRate, bits, MaxCapacity)
	}

	return uint32(bits), nil
}

// EstimateFalsePositiveRate estimates the false positive probability of a
// filter of capacityBits bits with k probes after itemsAdded insertions.
// Formula: (1 - e^(-kn/m))^k
func EstimateFalsePositiveRate(capacityBits uint32, k uint32, itemsAdded uint64) float64 {
	m := float64(capacityBits)
	n := float64(itemsAdded)
	kf := float64(k)

	if m == 0 || n == 0 {
		return 0
	}

	return math.Pow(1-math.Exp(-kf*n/m), kf)
}

func checkCapacity(capacityBits uint32) error {
	if capacityBits == 0 {
		return fmt.Errorf("%w: capacity must be at least 1 bit", ErrInvalidConfiguration)
	}
	if capacityBits > MaxCapacity {
		return fmt.Errorf("%w: capacity %d exceeds %d bits", ErrInvalidConfiguration, capacityBits, MaxCapacity)
	}
	return nil
}
