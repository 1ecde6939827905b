package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jcalabro/bloomviz"
	"github.com/jcalabro/bloomviz/internal/session"
)

const envPrefix = "BLOOMVIZ_"

type config struct {
	Expected  uint64
	FPRate    float64
	Digest    bloomviz.Digest
	LogLevel  zapcore.Level
	LogFormat string
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Uint64Flag{
			Name:    "expected",
			Aliases: []string{"n"},
			Usage:   "expected number of elements",
			Value:   session.DefaultExpected,
			EnvVars: []string{envPrefix + "EXPECTED"},
		},
		&cli.Float64Flag{
			Name:    "fp-rate",
			Aliases: []string{"p"},
			Usage:   "desired false positive probability, in (0,1)",
			Value:   session.DefaultFalsePositive,
			EnvVars: []string{envPrefix + "FP_RATE"},
		},
		&cli.StringFlag{
			Name:    "digest",
			Usage:   "item digest: " + strings.Join(bloomviz.DigestNames(), ", "),
			Value:   bloomviz.XXH3.Name(),
			EnvVars: []string{envPrefix + "DIGEST"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "debug, info, warn or error",
			Value:   "info",
			EnvVars: []string{envPrefix + "LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "console or json",
			Value:   "console",
			EnvVars: []string{envPrefix + "LOG_FORMAT"},
		},
	}
}

func configFromContext(c *cli.Context) (config, error) {
	d, err := bloomviz.DigestByName(c.String("digest"))
	if err != nil {
		return config{}, err
	}

	level, err := zapcore.ParseLevel(c.String("log-level"))
	if err != nil {
		return config{}, fmt.Errorf("log level: %w", err)
	}

	format := strings.ToLower(c.String("log-format"))
	if format != "console" && format != "json" {
		return config{}, fmt.Errorf("log format %q: must be console or json", format)
	}

	cfg := config{
		Expected:  c.Uint64("expected"),
		FPRate:    c.Float64("fp-rate"),
		Digest:    d,
		LogLevel:  level,
		LogFormat: format,
	}

	// Reject bad sizing before any command runs.
	if _, err := bloomviz.OptimalCapacity(cfg.Expected, cfg.FPRate); err != nil {
		return config{}, err
	}

	return cfg, nil
}

func (c config) session() session.Config {
	return session.Config{
		Expected:      c.Expected,
		FalsePositive: c.FPRate,
		Digest:        c.Digest,
	}
}

func newLogger(cfg config, w io.Writer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if cfg.LogFormat == "json" {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), cfg.LogLevel)
	return zap.New(core).Named("bloomviz")
}
