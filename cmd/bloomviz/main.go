// Command bloomviz drives a bloom filter from the terminal: insert and look
// up items, watch their probe positions, and view the bit vector as a grid.
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

type app struct {
	cfg config
	log *zap.Logger
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	a := &app{log: zap.NewNop()}

	return &cli.App{
		Name:      "bloomviz",
		Usage:     "insert and look up items in a bloom filter and watch its bits",
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     globalFlags(),
		Before: func(c *cli.Context) error {
			cfg, err := configFromContext(c)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = newLogger(cfg, c.App.ErrWriter)
			return nil
		},
		After: func(c *cli.Context) error {
			_ = a.log.Sync()
			return nil
		},
		Action: a.repl,
		Commands: []*cli.Command{
			{
				Name:   "repl",
				Usage:  "read insert/lookup/stats/grid commands from stdin",
				Action: a.repl,
			},
			{
				Name:      "probe",
				Usage:     "print the probe positions of each item without inserting",
				ArgsUsage: "ITEM...",
				Action:    a.probe,
			},
			{
				Name:  "simulate",
				Usage: "insert generated keys and measure the false positive rate",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "inserts",
						Usage: "number of keys to insert (default: --expected)",
					},
					&cli.IntFlag{
						Name:  "queries",
						Usage: "number of absent keys to look up",
						Value: 10_000,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "goroutines used for inserts and lookups",
						Value: 4,
					},
				},
				Action: a.simulate,
			},
		},
	}
}

func (a *app) probe(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("probe: need at least one item")
	}

	s, err := a.newSession()
	if err != nil {
		return err
	}

	f := s.Filter()
	for _, item := range c.Args().Slice() {
		fmt.Fprintf(c.App.Writer, "%s → Indexes: %s\n", item, f.ProbesString(item))
	}
	return nil
}

func main() {
	if err := newApp(os.Stdin, os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
