// Package session tracks an interactive run against a single filter: the
// running insertion count, the history of inserted items with their probe
// positions, and the formatted results shown to the user.
package session

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jcalabro/bloomviz"
)

const (
	// DefaultExpected and DefaultFalsePositive size the filter to 81 bits,
	// which fills a 9x9 grid exactly.
	DefaultExpected      = 56
	DefaultFalsePositive = 0.5
)

// ErrEmptyItem is returned when an item is empty after trimming whitespace.
var ErrEmptyItem = errors.New("session: empty item")

// Config sizes the session's filter.
type Config struct {
	Expected      uint64
	FalsePositive float64
	Digest        bloomviz.Digest
}

// DefaultConfig returns the configuration the visualizer starts with.
func DefaultConfig() Config {
	return Config{
		Expected:      DefaultExpected,
		FalsePositive: DefaultFalsePositive,
		Digest:        bloomviz.XXH3,
	}
}

// Entry is one recorded insertion.
type Entry struct {
	Seq    int
	Item   string
	Probes bloomviz.Probes
}

func (e Entry) String() string {
	return fmt.Sprintf("%d. %s → Indexes: %s", e.Seq, e.Item, e.Probes)
}

// InsertResult describes a completed insertion.
type InsertResult struct {
	Entry
	// Inserted is the running insertion count including this one.
	Inserted int
}

// LookupResult describes a membership query.
type LookupResult struct {
	Item   string
	Found  bool
	Probes bloomviz.Probes
}

// Verdict returns the user-facing reading of Found.
func (r LookupResult) Verdict() string {
	if r.Found {
		return "Possibly present"
	}
	return "Definitely not present"
}

func (r LookupResult) String() string {
	return fmt.Sprintf("%s\nChecked indexes: %s", r.Verdict(), r.Probes)
}

// Stats summarizes the filter after the insertions seen so far.
type Stats struct {
	Inserted             int
	Capacity             uint32
	SetBits              uint32
	FalsePositivePercent float64
}

func (s Stats) String() string {
	return fmt.Sprintf("Inserted elements: %d\nEstimated false positive rate: %.2f%%",
		s.Inserted, s.FalsePositivePercent)
}

// Session owns one filter for its whole lifetime. It is not safe for
// concurrent use.
type Session struct {
	log     *zap.Logger
	filter  *bloomviz.Filter
	history []Entry
}

// New creates a session with a freshly sized filter.
func New(cfg Config, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	d := cfg.Digest
	if d == nil {
		d = bloomviz.XXH3
	}

	f, err := bloomviz.NewWithDigest(cfg.Expected, cfg.FalsePositive, d)
	if err != nil {
		return nil, fmt.Errorf("create filter: %w", err)
	}

	log.Debug("filter created",
		zap.Uint64("expected", cfg.Expected),
		zap.Float64("fp_rate", cfg.FalsePositive),
		zap.Uint32("bits", f.Size()),
		zap.String("digest", d.Name()),
	)

	return &Session{log: log, filter: f}, nil
}

// Insert adds item to the filter and records it in the history.
func (s *Session) Insert(item string) (InsertResult, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return InsertResult{}, ErrEmptyItem
	}

	p := s.filter.ProbesString(item)
	s.filter.InsertString(item)

	e := Entry{Seq: len(s.history) + 1, Item: item, Probes: p}
	s.history = append(s.history, e)

	s.log.Debug("inserted",
		zap.String("item", item),
		zap.Stringer("probes", p),
		zap.Int("count", e.Seq),
	)

	return InsertResult{Entry: e, Inserted: e.Seq}, nil
}

// Lookup queries the filter for item. It never changes the filter.
func (s *Session) Lookup(item string) (LookupResult, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return LookupResult{}, ErrEmptyItem
	}

	r := LookupResult{
		Item:   item,
		Found:  s.filter.LookupString(item),
		Probes: s.filter.ProbesString(item),
	}

	s.log.Debug("lookup",
		zap.String("item", item),
		zap.Bool("found", r.Found),
		zap.Stringer("probes", r.Probes),
	)

	return r, nil
}

// Stats reports the running count and the estimated false positive rate
// for that many insertions.
func (s *Session) Stats() Stats {
	n := len(s.history)
	return Stats{
		Inserted:             n,
		Capacity:             s.filter.Size(),
		SetBits:              s.filter.OnesCount(),
		FalsePositivePercent: s.filter.CurrentFalsePositiveRate(uint64(n)),
	}
}

// History returns a copy of the recorded insertions, oldest first.
func (s *Session) History() []Entry {
	out := make([]Entry, len(s.history))
	copy(out, s.history)
	return out
}

// Filter returns the session's filter for read-only inspection.
func (s *Session) Filter() *bloomviz.Filter {
	return s.filter
}
