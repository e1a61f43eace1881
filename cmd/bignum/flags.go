package main

import "flag"

// flagSet wraps flag.FlagSet; kept as a named type so the CLI's flag
// wiring reads uniformly whether building on the standard Var helpers or
// (were one needed) a custom flag.Value.
type flagSet struct {
	*flag.FlagSet
}

// newCustomFlagSet creates a flagSet with ContinueOnError behavior so
// callers control error handling instead of the flag package calling
// os.Exit directly.
func newCustomFlagSet(name string) *flagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return &flagSet{FlagSet: fs}
}

// bindConfigFlags registers the CLI flags that override a Config's
// fields, seeding each flag's default from cfg's current value (the
// "defaults struct + flags override" pattern, §1a).
func bindConfigFlags(fs *flagSet, cfg *Config) {
	fs.IntVar(&cfg.DefaultRadix, "radix", cfg.DefaultRadix, "default input/output radix (2-36)")
	fs.BoolVar(&cfg.ShowBase, "show-base", cfg.ShowBase, "prefix output with a base indicator (0x/0b/0)")
	fs.BoolVar(&cfg.ShowPositiveSign, "show-positive", cfg.ShowPositiveSign, "prefix non-negative output with '+'")
	fs.BoolVar(&cfg.UppercaseHex, "uppercase-hex", cfg.UppercaseHex, "use uppercase letters for digit values above 9")
	fs.IntVar(&cfg.Verbosity, "verbosity", cfg.Verbosity, "log level 0-5 (0=silent, 5=debug)")
	fs.BoolVar(&cfg.Metrics, "metrics", cfg.Metrics, "serve Prometheus metrics over HTTP")
}
