package bloomviz_test

import (
	"fmt"
	"sync"

	"github.com/jcalabro/bloomviz"
)

// This example demonstrates basic bloom filter usage for membership testing.
func Example() {
	// Create a filter for 10,000 items with 1% false positive rate
	f, err := bloomviz.New(10_000, 0.01)
	if err != nil {
		panic(err)
	}

	f.Insert([]byte("apple"))
	f.Insert([]byte("banana"))
	f.Insert([]byte("cherry"))

	fmt.Println("apple:", f.Lookup([]byte("apple")))   // true (inserted)
	fmt.Println("banana:", f.Lookup([]byte("banana"))) // true (inserted)
	fmt.Println("grape:", f.Lookup([]byte("grape")))   // false (not inserted)

	// Output:
	// apple: true
	// banana: true
	// grape: false
}

// This example shows the default visualizer configuration.
func Example_defaults() {
	f, err := bloomviz.New(56, 0.5)
	if err != nil {
		panic(err)
	}

	f.InsertString("apple")

	fmt.Println("Size:", f.Size())
	fmt.Println("Probes per item:", f.K())
	fmt.Println("apple:", f.LookupString("apple"))
	fmt.Printf("Estimated FP rate after 1 insert: %.2f%%\n", f.CurrentFalsePositiveRate(1))

	// Output:
	// Size: 81
	// Probes per item: 7
	// apple: true
	// Estimated FP rate after 1 insert: 0.00%
}

// This example shows how to inspect where an item lands without inserting it.
func Example_probes() {
	f, err := bloomviz.New(56, 0.5)
	if err != nil {
		panic(err)
	}

	p := f.ProbesString("apple")
	fmt.Println("probes:", len(p))
	fmt.Println("set before insert:", f.OnesCount())

	f.InsertString("apple")
	allSet := true
	for _, idx := range p {
		allSet = allSet && f.Bit(idx)
	}
	fmt.Println("all probes set:", allSet)

	// Output:
	// probes: 7
	// set before insert: 0
	// all probes set: true
}

// This example demonstrates using AtomicFilter for concurrent access.
func Example_concurrent() {
	// AtomicFilter is safe for concurrent Insert and Lookup
	f, err := bloomviz.NewAtomic(100_000, 0.01)
	if err != nil {
		panic(err)
	}

	var wg sync.WaitGroup

	for i := range 4 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := range 1000 {
				f.InsertString(fmt.Sprintf("worker-%d-item-%d", id, j))
			}
		}(i)
	}

	wg.Wait()
	fmt.Println("Items inserted:", f.Count())

	// Output:
	// Items inserted: 4000
}

// This example shows how to pick a digest by name, as a command line flag would.
func Example_digest() {
	d, err := bloomviz.DigestByName("murmur3")
	if err != nil {
		panic(err)
	}

	f, err := bloomviz.NewWithDigest(1000, 0.01, d)
	if err != nil {
		panic(err)
	}
	f.InsertString("user:12345")

	fmt.Println("digest:", f.Digest().Name())
	fmt.Println("user:12345 exists:", f.LookupString("user:12345"))

	// Output:
	// digest: murmur3
	// user:12345 exists: true
}

func ExampleOptimalCapacity() {
	bits, err := bloomviz.OptimalCapacity(1_000_000, 0.01)
	if err != nil {
		panic(err)
	}

	fmt.Printf("For 1M items at 1%% FP rate: %d bits\n", bits)

	// Output:
	// For 1M items at 1% FP rate: 9585059 bits
}

func ExampleEstimateFalsePositiveRate() {
	rate := bloomviz.EstimateFalsePositiveRate(81, bloomviz.HashArity, 56)
	fmt.Printf("Estimated FP rate: %.2f%%\n", rate*100)

	// Output:
	// Estimated FP rate: 94.59%
}
