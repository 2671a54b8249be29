package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"

	gfm2html "github.com/alnah/go-gfm2html"
	"github.com/alnah/go-gfm2html/internal/config"
)

// stdinArg selects standard input as the markdown source.
const stdinArg = "-"

// runConvert orchestrates the convert command.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printConvertUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}

	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	cfg, envCfg, err := resolveConfig(flags.common.config)
	if err != nil {
		return err
	}
	mergeConvertFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	workers := resolveWorkers(flags.workers, envCfg.Workers)
	if err := validateWorkers(workers); err != nil {
		return err
	}

	conv := gfm2html.NewConverter(gfm2html.WithTimeout(cfg.Convert.TimeoutDuration()))
	outputDir := resolveOutputDir(flags.output, cfg)

	if len(positional) == 0 {
		return fmt.Errorf("%w: pass a markdown file, a directory, or %q for stdin", ErrNoInput, stdinArg)
	}
	if len(positional) == 1 && positional[0] == stdinArg {
		return convertStdin(ctx, conv, flags.output, env)
	}

	var files []FileToConvert
	for _, input := range positional {
		found, err := discoverFiles(input, outputDir)
		if err != nil {
			return fmt.Errorf("discovering files: %w", err)
		}
		files = append(files, found...)
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no markdown files found in %v", ErrNoInput, positional)
	}
	if err := validateOutputTarget(outputDir, len(files)); err != nil {
		return err
	}

	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Workers: %d\n", workers)
	}

	start := env.Now()
	results := convertBatch(ctx, conv, files, workers)

	failedCount := printResults(results, flags.common.quiet, flags.common.verbose, env)
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Total: %v\n", env.Now().Sub(start).Round(time.Millisecond))
	}
	if failedCount > 0 {
		return fmt.Errorf("%d conversion(s) failed", failedCount)
	}
	return nil
}

// convertStdin converts env.Stdin and writes to outputPath, or to stdout
// when outputPath is empty.
func convertStdin(ctx context.Context, conv CLIConverter, outputPath string, env *Environment) error {
	content, err := io.ReadAll(env.Stdin)
	if err != nil {
		return fmt.Errorf("%w: stdin: %v", ErrReadMarkdown, err)
	}

	result, err := conv.Convert(ctx, gfm2html.NewInput(string(content)))
	if err != nil {
		return err
	}

	if outputPath == "" {
		_, err := io.WriteString(env.Stdout, result.HTML)
		if err != nil {
			return fmt.Errorf("%w: stdout: %v", ErrWriteHTML, err)
		}
		return nil
	}
	return writeHTML(outputPath, result.HTML)
}

// mergeConvertFlags merges CLI flags into config. CLI values override config values.
func mergeConvertFlags(flags *convertFlags, cfg *config.Config) {
	if flags.timeout != "" {
		cfg.Convert.Timeout = flags.timeout
	}
}

// resolveOutputDir determines the output directory from flag or config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}
