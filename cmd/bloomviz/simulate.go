package main

import (
	"fmt"
	"sync/atomic"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jcalabro/bloomviz"
)

type simResult struct {
	Bits           uint32
	Inserted       int
	Queries        int
	FalsePositives int64
	FillRatio      float64
	EstimatedPct   float64
}

func (r simResult) MeasuredPct() float64 {
	if r.Queries == 0 {
		return 0
	}
	return float64(r.FalsePositives) / float64(r.Queries) * 100
}

func (a *app) simulate(c *cli.Context) error {
	inserts := c.Int("inserts")
	if inserts == 0 {
		inserts = int(a.cfg.Expected)
	}
	queries := c.Int("queries")
	workers := c.Int("workers")
	if inserts < 0 || queries < 0 || workers < 1 {
		return fmt.Errorf("simulate: inserts and queries must be >= 0 and workers >= 1")
	}

	f, err := bloomviz.NewAtomicWithDigest(a.cfg.Expected, a.cfg.FPRate, a.cfg.Digest)
	if err != nil {
		return err
	}

	res, err := runSimulation(f, inserts, queries, workers)
	if err != nil {
		return err
	}

	a.log.Debug("simulation finished",
		zap.Int("inserted", res.Inserted),
		zap.Int("queries", res.Queries),
		zap.Int64("false_positives", res.FalsePositives),
	)

	fmt.Fprintf(c.App.Writer, "bits: %d, digest: %s, inserted: %d, queries: %d\n",
		res.Bits, a.cfg.Digest.Name(), res.Inserted, res.Queries)
	fmt.Fprintf(c.App.Writer, "fill ratio: %.2f%%\n", res.FillRatio*100)
	fmt.Fprintf(c.App.Writer, "measured false positive rate: %.2f%% (%d/%d)\n",
		res.MeasuredPct(), res.FalsePositives, res.Queries)
	fmt.Fprintf(c.App.Writer, "estimated false positive rate: %.2f%%\n", res.EstimatedPct)
	return nil
}

// runSimulation inserts keys sim-insert-0..inserts-1, verifies none of them
// reads back absent, then counts positives among sim-query-0..queries-1.
func runSimulation(f *bloomviz.AtomicFilter, inserts, queries, workers int) (simResult, error) {
	var ig errgroup.Group
	for w := range workers {
		ig.Go(func() error {
			for i := w; i < inserts; i += workers {
				f.InsertString(fmt.Sprintf("sim-insert-%d", i))
			}
			return nil
		})
	}
	if err := ig.Wait(); err != nil {
		return simResult{}, err
	}

	var qg errgroup.Group
	var fp atomic.Int64
	for w := range workers {
		qg.Go(func() error {
			for i := w; i < inserts; i += workers {
				key := fmt.Sprintf("sim-insert-%d", i)
				if !f.LookupString(key) {
					return fmt.Errorf("false negative for %q", key)
				}
			}
			for i := w; i < queries; i += workers {
				if f.LookupString(fmt.Sprintf("sim-query-%d", i)) {
					fp.Add(1)
				}
			}
			return nil
		})
	}
	if err := qg.Wait(); err != nil {
		return simResult{}, err
	}

	return simResult{
		Bits:           f.Size(),
		Inserted:       inserts,
		Queries:        queries,
		FalsePositives: fp.Load(),
		FillRatio:      f.EstimatedFillRatio(),
		EstimatedPct:   f.CurrentFalsePositiveRate(uint64(inserts)),
	}, nil
}
