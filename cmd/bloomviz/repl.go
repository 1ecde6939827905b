package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/jcalabro/bloomviz/internal/grid"
	"github.com/jcalabro/bloomviz/internal/session"
)

const replHelp = `commands:
  insert ITEM   add ITEM to the filter
  lookup ITEM   check whether ITEM might be present
  stats         show the insertion count and estimated false positive rate
  grid          draw the bit vector
  history       list inserted items and their indexes
  help          show this message
  exit          quit`

func (a *app) newSession() (*session.Session, error) {
	return session.New(a.cfg.session(), a.log)
}

func (a *app) repl(c *cli.Context) error {
	s, err := a.newSession()
	if err != nil {
		return err
	}

	a.log.Info("session started",
		zap.Uint32("bits", s.Filter().Size()),
		zap.String("digest", s.Filter().Digest().Name()),
	)

	return runREPL(s, c.App.Reader, c.App.Writer)
}

// runREPL executes one command per input line until exit or EOF.
func runREPL(s *session.Session, in io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(w, "> ")
		if !sc.Scan() {
			fmt.Fprintln(w)
			return sc.Err()
		}

		verb, arg, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		switch strings.ToLower(verb) {
		case "":
		case "insert", "i":
			r, err := s.Insert(arg)
			if err != nil {
				printErr(w, "insert", err)
				continue
			}
			fmt.Fprintln(w, r)
		case "lookup", "l":
			r, err := s.Lookup(arg)
			if err != nil {
				printErr(w, "lookup", err)
				continue
			}
			fmt.Fprintln(w, r)
		case "stats", "s":
			fmt.Fprintln(w, s.Stats())
		case "grid", "g":
			f := s.Filter()
			if err := grid.Render(w, f, grid.SideFor(f.Size())); err != nil {
				return err
			}
			fmt.Fprintln(w, grid.Legend(f))
		case "history", "h":
			for _, e := range s.History() {
				fmt.Fprintln(w, e)
			}
		case "help", "?":
			fmt.Fprintln(w, replHelp)
		case "exit", "quit", "q":
			return nil
		default:
			fmt.Fprintf(w, "unknown command %q (try help)\n", verb)
		}
	}
}

func printErr(w io.Writer, op string, err error) {
	if errors.Is(err, session.ErrEmptyItem) {
		fmt.Fprintf(w, "%s: item must not be empty\n", op)
		return
	}
	fmt.Fprintf(w, "%s: %v\n", op, err)
}
