package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jcalabro/bloomviz"
	"github.com/jcalabro/bloomviz/internal/session"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(strings.NewReader(stdin), &stdout, &stderr)
	err := app.Run(append([]string{"bloomviz"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestREPL(t *testing.T) {
	in := strings.Join([]string{
		"insert apple",
		"lookup apple",
		"lookup",
		"insert   ",
		"stats",
		"history",
		"grid",
		"bogus",
		"exit",
		"insert never-reached",
	}, "\n")

	out, _, err := run(t, in, "--log-level", "error")
	require.NoError(t, err)

	require.Contains(t, out, "1. apple → Indexes: [")
	require.Contains(t, out, "Possibly present\nChecked indexes: [")
	require.Contains(t, out, "lookup: item must not be empty")
	require.Contains(t, out, "insert: item must not be empty")
	require.Contains(t, out, "Inserted elements: 1\nEstimated false positive rate: 0.00%")
	require.Contains(t, out, "bits set ([n] = set)")
	require.Contains(t, out, `unknown command "bogus"`)
	require.NotContains(t, out, "never-reached")
}

func TestREPLCommandAndEOF(t *testing.T) {
	out, _, err := run(t, "lookup pear\n", "repl")
	require.NoError(t, err)
	require.Contains(t, out, "Definitely not present")
}

func TestREPLLogsToErrWriter(t *testing.T) {
	_, stderr, err := run(t, "insert apple\n", "--log-level", "debug", "--log-format", "json")
	require.NoError(t, err)
	require.Contains(t, stderr, `"msg":"session started"`)
	require.Contains(t, stderr, `"msg":"inserted"`)
	require.Contains(t, stderr, `"item":"apple"`)
}

func TestProbe(t *testing.T) {
	out, _, err := run(t, "", "probe", "apple", "banana")
	require.NoError(t, err)

	f, err := bloomviz.New(session.DefaultExpected, session.DefaultFalsePositive)
	require.NoError(t, err)

	require.Equal(t,
		"apple → Indexes: "+f.ProbesString("apple").String()+"\n"+
			"banana → Indexes: "+f.ProbesString("banana").String()+"\n",
		out)
}

func TestProbeDigestFlag(t *testing.T) {
	out, _, err := run(t, "", "--digest", "murmur3", "-n", "1000", "-p", "0.01", "probe", "apple")
	require.NoError(t, err)

	f, err := bloomviz.NewWithDigest(1000, 0.01, bloomviz.Murmur3)
	require.NoError(t, err)
	require.Equal(t, "apple → Indexes: "+f.ProbesString("apple").String()+"\n", out)
}

func TestProbeNoArgs(t *testing.T) {
	_, _, err := run(t, "", "probe")
	require.Error(t, err)
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := run(t, "", "--fp-rate", "1.5", "probe", "x")
	require.ErrorIs(t, err, bloomviz.ErrInvalidConfiguration)

	_, _, err = run(t, "", "--expected", "0", "probe", "x")
	require.ErrorIs(t, err, bloomviz.ErrInvalidConfiguration)

	_, _, err = run(t, "", "--digest", "md5", "probe", "x")
	require.ErrorIs(t, err, bloomviz.ErrUnknownDigest)

	_, _, err = run(t, "", "--log-format", "xml", "probe", "x")
	require.Error(t, err)

	_, _, err = run(t, "", "--log-level", "loud", "probe", "x")
	require.Error(t, err)
}

func TestEnvConfig(t *testing.T) {
	t.Setenv("BLOOMVIZ_EXPECTED", "1000")
	t.Setenv("BLOOMVIZ_FP_RATE", "0.01")

	out, _, err := run(t, "", "simulate", "--queries", "0")
	require.NoError(t, err)
	require.Contains(t, out, "bits: 9586, digest: xxh3, inserted: 1000, queries: 0")
}

func TestSimulate(t *testing.T) {
	out, _, err := run(t, "", "-n", "1000", "-p", "0.01", "simulate", "--queries", "2000", "--workers", "3")
	require.NoError(t, err)
	require.Contains(t, out, "bits: 9586")
	require.Contains(t, out, "inserted: 1000, queries: 2000")
	require.Contains(t, out, "measured false positive rate:")
	require.Contains(t, out, "estimated false positive rate:")
}

func TestSimulateBadWorkers(t *testing.T) {
	_, _, err := run(t, "", "simulate", "--workers", "0")
	require.Error(t, err)
}

func TestRunSimulation(t *testing.T) {
	f, err := bloomviz.NewAtomic(500, 0.05)
	require.NoError(t, err)

	res, err := runSimulation(f, 500, 1000, 4)
	require.NoError(t, err)
	require.Equal(t, uint64(500), f.Count())
	require.Equal(t, 500, res.Inserted)
	require.Equal(t, 1000, res.Queries)
	require.GreaterOrEqual(t, res.MeasuredPct(), 0.0)
	require.LessOrEqual(t, res.MeasuredPct(), 100.0)
	require.InDelta(t, f.CurrentFalsePositiveRate(500), res.EstimatedPct, 1e-9)
	require.Greater(t, res.FillRatio, 0.0)
}
