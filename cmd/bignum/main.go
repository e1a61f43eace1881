// Command bignum is an interactive calculator and scripting front end for
// the bignum arbitrary-precision integer library.
//
// Usage:
//
//	bignum [flags]
//
// Flags:
//
//	--config         Path to a YAML config file
//	--radix          Default input/output radix (default: 10)
//	--show-base      Prefix output with a base indicator
//	--show-positive  Prefix non-negative output with '+'
//	--uppercase-hex  Use uppercase letters for hex digits
//	--verbosity      Log level 0-5 (default: 3)
//	--metrics        Serve Prometheus metrics over HTTP
//	--metrics-addr   Metrics HTTP listen address (default: ":9100")
//	--version        Print version and exit
//
// Each line of input is one command: an operator followed by its operand
// literals, e.g. "add 17 5", "div 100 7", "shl 3 4". Operands are parsed
// in the configured default radix (see ParseText).
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/eth2030/bignum/bignum"
	applog "github.com/eth2030/bignum/log"
)

var (
	version = "v0.1.0-dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is the actual entry point, returning an exit code. Accepts its I/O
// streams and CLI arguments explicitly so it can be tested in isolation.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cliCfg := DefaultConfig()
	fs := newCustomFlagSet("bignum")
	bindConfigFlags(fs, &cliCfg)
	configPath := fs.String("config", "", "path to a YAML config file")
	metricsAddr := fs.String("metrics-addr", ":9100", "metrics HTTP listen address")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if *showVersion {
		fmt.Fprintf(stdout, "bignum %s (commit %s)\n", version, commit)
		return 0
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil && err != ErrConfigFileNotFound {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if cfg == nil {
		d := DefaultConfig()
		cfg = &d
	}
	ApplyEnvironment(cfg)

	// Parse the flags again, now seeded from the file and environment
	// settings, so a flag that was not passed keeps that value.
	cliCfg = *cfg
	seeded := newCustomFlagSet("bignum")
	bindConfigFlags(seeded, &cliCfg)
	seeded.String("config", "", "path to a YAML config file")
	seeded.String("metrics-addr", ":9100", "metrics HTTP listen address")
	seeded.Bool("version", false, "print version and exit")
	if err := seeded.Parse(args); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	MergeCLIFlags(cfg, cliCfg)
	MergeDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	logger := applog.New(verbosityToLevel(cfg.Verbosity)).Module("cmd/bignum")
	logger.Info("starting", "radix", cfg.DefaultRadix, "metrics", cfg.Metrics)

	var metrics *Metrics
	if cfg.Metrics {
		metrics = NewMetrics()
		srv := &http.Server{Addr: *metricsAddr, Handler: metrics.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
		logger.Info("serving metrics", "addr", *metricsAddr)
	}

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		out, err := evalLine(cfg, metrics, line)
		if err != nil {
			fmt.Fprintf(stdout, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(stdout, out)
	}
	return 0
}

// verbosityToLevel maps a 0-5 verbosity knob onto slog's levels.
func verbosityToLevel(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelError + 4 // above Error: effectively silent
	case v == 1:
		return slog.LevelError
	case v == 2:
		return slog.LevelWarn
	case v <= 4:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// evalLine parses and executes one REPL command line, returning its
// formatted result.
func evalLine(cfg *Config, m *Metrics, line string) (string, error) {
	fields := strings.Fields(line)
	op := strings.ToLower(fields[0])

	start := time.Now()
	defer func() {
		if m != nil {
			m.Observe(op, time.Since(start))
		}
	}()

	parse := func(s string) (*bignum.Int, error) {
		z, err := bignum.ParseText(s, cfg.DefaultRadix)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", s, err)
		}
		return z, nil
	}
	format := func(z *bignum.Int) (string, error) {
		return z.FormatText(cfg.DefaultRadix, bignum.FormatOptions{
			ShowBase:         cfg.ShowBase,
			ShowPositiveSign: cfg.ShowPositiveSign,
			UppercaseHex:     cfg.UppercaseHex,
		})
	}

	switch op {
	case "add", "sub", "mul":
		if len(fields) != 3 {
			return "", fmt.Errorf("%s takes exactly 2 operands", op)
		}
		a, err := parse(fields[1])
		if err != nil {
			return "", err
		}
		b, err := parse(fields[2])
		if err != nil {
			return "", err
		}
		var r *bignum.Int
		switch op {
		case "add":
			r, err = bignum.Add(a, b)
		case "sub":
			r, err = bignum.Sub(a, b)
		case "mul":
			r, err = bignum.Mul(a, b)
		}
		if err != nil {
			return "", err
		}
		return format(r)

	case "div":
		if len(fields) != 3 {
			return "", fmt.Errorf("div takes exactly 2 operands")
		}
		a, err := parse(fields[1])
		if err != nil {
			return "", err
		}
		b, err := parse(fields[2])
		if err != nil {
			return "", err
		}
		q, r, err := bignum.QuoRem(a, b)
		if err != nil {
			return "", err
		}
		qs, err := format(q)
		if err != nil {
			return "", err
		}
		rs, err := format(r)
		if err != nil {
			return "", err
		}
		return qs + " r " + rs, nil

	case "shl", "shr":
		if len(fields) != 3 {
			return "", fmt.Errorf("%s takes a value and a shift count", op)
		}
		a, err := parse(fields[1])
		if err != nil {
			return "", err
		}
		n, err := strconv.ParseUint(fields[2], 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid shift count %q: %w", fields[2], err)
		}
		var r *bignum.Int
		if op == "shl" {
			r, err = bignum.Lsh(a, uint(n))
		} else {
			r, err = bignum.Rsh(a, uint(n))
		}
		if err != nil {
			return "", err
		}
		return format(r)

	case "cmp":
		if len(fields) != 3 {
			return "", fmt.Errorf("cmp takes exactly 2 operands")
		}
		a, err := parse(fields[1])
		if err != nil {
			return "", err
		}
		b, err := parse(fields[2])
		if err != nil {
			return "", err
		}
		return strconv.Itoa(a.Cmp(b)), nil

	default:
		return "", fmt.Errorf("unknown command %q", op)
	}
}
