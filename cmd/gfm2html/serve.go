package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	gfm2html "github.com/alnah/go-gfm2html"
	"github.com/alnah/go-gfm2html/internal/config"
	"github.com/alnah/go-gfm2html/internal/hints"
	"github.com/alnah/go-gfm2html/internal/logging"
	"github.com/alnah/go-gfm2html/internal/server"
)

// runServe starts the HTTP server and blocks until ctx is cancelled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printServeUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}

	cfg, _, err := resolveConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeServeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv, err := buildServer(cfg)
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stderr, "Serving on %s%s\n", cfg.Server.Addr, hints.ForLoopbackInContainer(cfg.Server.Addr))
	}
	return srv.ListenAndServe(ctx)
}

// buildServer wires logger, converter, and handler from a validated config.
func buildServer(cfg *config.Config) (*server.Server, error) {
	provider, err := logging.NewProvider(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidValue, err)
	}

	conv := gfm2html.NewConverter(gfm2html.WithTimeout(cfg.Convert.TimeoutDuration()))
	handler := server.NewHandler(conv,
		server.WithLogger(provider.GetLogger("gfm2html.http")),
		server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	)

	return server.New(server.Options{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeoutDuration(),
		WriteTimeout:    cfg.Server.WriteTimeoutDuration(),
		ShutdownTimeout: cfg.Server.ShutdownTimeoutDuration(),
	}, handler, provider.GetLogger("gfm2html.server")), nil
}

// mergeServeFlags merges CLI flags into config. CLI values override config values.
func mergeServeFlags(flags *serveFlags, cfg *config.Config) {
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.maxBodyBytes > 0 {
		cfg.Server.MaxBodyBytes = flags.maxBodyBytes
	}
	if flags.timeout != "" {
		cfg.Convert.Timeout = flags.timeout
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
	}
	if flags.common.verbose && flags.logLevel == "" {
		cfg.Log.Level = "debug"
	}
}
