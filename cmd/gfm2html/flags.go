package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrUsage wraps flag parsing errors and unknown commands.
var ErrUsage = errors.New("usage error")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common       commonFlags
	addr         string
	maxBodyBytes int64
	timeout      string
	logLevel     string
	logFormat    string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	timeout string
}

// configFlags holds flags for the config command.
type configFlags struct {
	common commonFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed output")
}

// addServeFlags registers the serve command flags. Parsing and shell
// completion share it.
func addServeFlags(fs *flag.FlagSet, f *serveFlags) {
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (e.g. :5000)")
	fs.Int64Var(&f.maxBodyBytes, "max-body-bytes", 0, "request body limit in bytes (0 = config)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-conversion timeout (e.g. 30s)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console, json, pretty")
	addCommonFlags(fs, &f.common)
}

// addConvertFlags registers the convert command flags.
func addConvertFlags(fs *flag.FlagSet, f *convertFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-file conversion timeout (e.g. 30s)")
	addCommonFlags(fs, &f.common)
}

// newFlagSet returns a FlagSet that reports errors instead of printing them.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// parseFlagSet parses args and wraps failures in ErrUsage. flag.ErrHelp is
// returned unwrapped so callers can print usage and exit 0.
func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string) (*serveFlags, error) {
	fs := newFlagSet("serve")
	f := &serveFlags{}
	addServeFlags(fs, f)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	fs := newFlagSet("convert")
	f := &convertFlags{}
	addConvertFlags(fs, f)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string) (*configFlags, error) {
	fs := newFlagSet("config")
	f := &configFlags{}
	addCommonFlags(fs, &f.common)

	if err := parseFlagSet(fs, args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: config takes no arguments, got %q", ErrUsage, fs.Args())
	}
	return f, nil
}
