package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gfm2html <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Start the HTTP conversion server")
	fmt.Fprintln(w, "  convert    Convert markdown files or stdin to HTML")
	fmt.Fprintln(w, "  config     Print the effective configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'gfm2html help <command>' for details on a specific command.")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gfm2html serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve the editor page on / and the JSON endpoint POST /convert.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -a, --addr <addr>          Listen address (default :5000)")
	fmt.Fprintln(w, "      --max-body-bytes <n>   Request body limit in bytes")
	fmt.Fprintln(w, "  -t, --timeout <d>          Per-conversion timeout (e.g. 30s)")
	fmt.Fprintln(w, "      --log-level <s>        trace, debug, info, warn, error")
	fmt.Fprintln(w, "      --log-format <s>       console, json, pretty")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet                Only show errors")
	fmt.Fprintln(w, "  -v, --verbose              Debug logging")
	fmt.Fprintln(w)
	printEnvHelp(w)
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gfm2html convert <input>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert markdown files to sanitized HTML fragments.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Markdown file, directory, or - for stdin")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file (.html) or directory")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Per-file conversion timeout (e.g. 30s)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	printEnvHelp(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gfm2html config [-c <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration after file and environment overrides, as YAML.")
}

func printEnvHelp(w io.Writer) {
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  GFM2HTML_CONFIG, GFM2HTML_ADDR, GFM2HTML_LOG_LEVEL, GFM2HTML_LOG_FORMAT,")
	fmt.Fprintln(w, "  GFM2HTML_TIMEOUT, GFM2HTML_MAX_BODY_BYTES, GFM2HTML_OUTPUT_DIR, GFM2HTML_WORKERS")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return nil
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "convert":
		printConvertUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: gfm2html version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: gfm2html help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}
	return nil
}
