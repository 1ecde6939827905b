package bloomviz

import (
	"errors"
	"math"
	"testing"
)

func TestOptimalCapacity(t *testing.T) {
	tests := []struct {
		items  uint64
		fpRate float64
		want   uint32
	}{
		{56, 0.5, 81},
		{1, 0.5, 2},
		{1, 0.999, 1},
		{1000, 0.01, 9586},
		{10000, 0.01, 95851},
	}

	for _, tt := range tests {
		got, err := OptimalCapacity(tt.items, tt.fpRate)
		if err != nil {
			t.Errorf("OptimalCapacity(%d, %v): %v", tt.items, tt.fpRate, err)
			continue
		}
		if got != tt.want {
			t.Errorf("OptimalCapacity(%d, %v) = %d, want %d", tt.items, tt.fpRate, got, tt.want)
		}
	}
}

func TestOptimalCapacityOverflow(t *testing.T) {
	_, err := OptimalCapacity(math.MaxUint64, 0.01)
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestEstimateFalsePositiveRate(t *testing.T) {
	capacity := uint32(81)
	k := uint32(HashArity)
	items := uint64(20)

	estimated := EstimateFalsePositiveRate(capacity, k, items)

	// Manual calculation: (1 - e^(-kn/m))^k
	expected := math.Pow(1-math.Exp(-7.0*20.0/81.0), 7)

	if math.Abs(estimated-expected) > 1e-12 {
		t.Errorf("estimated=%f, expected=%f", estimated, expected)
	}
}

func TestEstimateFalsePositiveRateEdgeCases(t *testing.T) {
	if rate := EstimateFalsePositiveRate(100, 7, 0); rate != 0 {
		t.Errorf("expected 0 FP rate for 0 items, got %f", rate)
	}
	if rate := EstimateFalsePositiveRate(0, 7, 1000); rate != 0 {
		t.Errorf("expected 0 FP rate for 0 bits, got %f", rate)
	}
	if rate := EstimateFalsePositiveRate(81, 7, 1_000_000); rate > 1 || rate < 0.99 {
		t.Errorf("expected saturated FP rate near 1, got %f", rate)
	}
}
