package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// supportedShells lists shells in the order usage text shows them.
var supportedShells = []Shell{ShellBash, ShellZsh, ShellFish, ShellPowerShell}

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagInt
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // for enum flags
	FileGlob string   // comma separated, for file flags
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed argument values, e.g. shell names
	TakesFiles  bool
	FilePattern string // comma separated globs for file arguments
}

// completionMeta holds what the FlagSet cannot say about a flag.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
// Names, shorthands and descriptions come from the FlagSets in flags.go.
var flagCompletionMeta = map[string]completionMeta{
	"log-level":  {Values: []string{"trace", "debug", "info", "warn", "error"}},
	"log-format": {Values: []string{"console", "json", "pretty"}},
	"config":     {FileGlob: "*.yaml,*.yml"},
	"output":     {IsDir: true},
}

func buildServeFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addServeFlags(fs, &serveFlags{})
	return fs
}

func buildConvertFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	addConvertFlags(fs, &convertFlags{})
	return fs
}

func buildConfigFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	f := &configFlags{}
	addCommonFlags(fs, &f.common)
	return fs
}

// extractFlagsFromFlagSet converts pflag definitions to flagDefs, enriched
// with flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{
			Long:  f.Name,
			Short: f.Shorthand,
			Desc:  f.Usage,
		}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
			fd.Type = flagInt
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	commandNames := []string{"serve", "convert", "config", "version", "help", "completion"}
	shells := make([]string, len(supportedShells))
	for i, s := range supportedShells {
		shells[i] = string(s)
	}

	return []commandDef{
		{
			Name:  "serve",
			Desc:  "Start the HTTP conversion server",
			Flags: extractFlagsFromFlagSet(buildServeFlagSet()),
		},
		{
			Name:        "convert",
			Desc:        "Convert markdown files or stdin to HTML",
			Flags:       extractFlagsFromFlagSet(buildConvertFlagSet()),
			TakesFiles:  true,
			FilePattern: "*.md,*.markdown",
		},
		{
			Name:  "config",
			Desc:  "Print the effective configuration",
			Flags: extractFlagsFromFlagSet(buildConfigFlagSet()),
		},
		{
			Name: "version",
			Desc: "Show version information",
		},
		{
			Name: "help",
			Desc: "Show help for a command",
			Args: commandNames,
		},
		{
			Name: "completion",
			Desc: "Generate shell completion script",
			Args: shells,
		},
	}
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var b strings.Builder
	commands := getCommands()

	switch shell {
	case ShellBash:
		writeBash(&b, commands)
	case ShellZsh:
		writeZsh(&b, commands)
	case ShellFish:
		writeFish(&b, commands)
	case ShellPowerShell:
		writePowerShell(&b, commands)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish, powershell)", ErrUnsupportedShell, shell)
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing completion script: %w", err)
	}
	return nil
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: completion takes one shell name, got %q", ErrUsage, args)
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: gfm2html completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(gfm2html completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(gfm2html completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    gfm2html completion fish > ~/.config/fish/completions/gfm2html.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    gfm2html completion powershell | Out-String | Invoke-Expression")
}

// flagWords returns "--long -s" words for every flag of cmd.
func flagWords(cmd commandDef) []string {
	var words []string
	for _, f := range cmd.Flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return words
}

// flagNames returns the option spellings of f, e.g. "-c|--config".
func flagNames(f flagDef, sep string) string {
	if f.Short == "" {
		return "--" + f.Long
	}
	return "-" + f.Short + sep + "--" + f.Long
}

// globExtensions turns "*.md,*.markdown" into ["md", "markdown"].
func globExtensions(globs string) []string {
	var exts []string
	for _, g := range strings.Split(globs, ",") {
		exts = append(exts, strings.TrimPrefix(strings.TrimSpace(g), "*."))
	}
	return exts
}

func commandNameList(commands []commandDef) string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func writeBash(b *strings.Builder, commands []commandDef) {
	b.WriteString("# bash completion for gfm2html\n\n")
	b.WriteString("_gfm2html_completions() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNameList(commands))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")

	for _, cmd := range commands {
		if len(cmd.Flags) == 0 && len(cmd.Args) == 0 && !cmd.TakesFiles {
			continue
		}
		fmt.Fprintf(b, "    %s)\n", cmd.Name)

		var valued []flagDef
		for _, f := range cmd.Flags {
			if f.Type == flagEnum || f.Type == flagFile || f.Type == flagDir {
				valued = append(valued, f)
			}
		}
		if len(valued) > 0 {
			b.WriteString("        case \"$prev\" in\n")
			for _, f := range valued {
				fmt.Fprintf(b, "        %s)\n", flagNames(f, "|"))
				switch f.Type {
				case flagEnum:
					fmt.Fprintf(b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(f.Values, " "))
				case flagFile:
					fmt.Fprintf(b, "            COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\"))\n", strings.Join(globExtensions(f.FileGlob), "|"))
				case flagDir:
					b.WriteString("            COMPREPLY=($(compgen -d -- \"$cur\"))\n")
				}
				b.WriteString("            return\n")
				b.WriteString("            ;;\n")
			}
			b.WriteString("        esac\n")
		}

		if len(cmd.Flags) > 0 {
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(flagWords(cmd), " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case len(cmd.Args) > 0:
			b.WriteString("        if [[ ${COMP_CWORD} -eq 2 ]]; then\n")
			fmt.Fprintf(b, "            COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(cmd.Args, " "))
			b.WriteString("        fi\n")
		case cmd.TakesFiles:
			fmt.Fprintf(b, "        COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\") $(compgen -d -- \"$cur\"))\n",
				strings.Join(globExtensions(cmd.FilePattern), "|"))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("shopt -s extglob\n")
	b.WriteString("complete -F _gfm2html_completions gfm2html\n")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshDesc makes a description safe inside an _arguments [...] spec.
func zshDesc(s string) string {
	return strings.NewReplacer("[", "(", "]", ")", ":", "", "'", "").Replace(s)
}

func zshFlagSpec(f flagDef) string {
	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(":file:_files -g \"*.(%s)\"", strings.Join(globExtensions(f.FileGlob), "|"))
	case flagDir:
		action = ":directory:_files -/"
	default:
		action = ":" + f.Long + ":"
	}

	desc := zshDesc(f.Desc)
	if f.Short == "" {
		return fmt.Sprintf("'--%s[%s]%s'", f.Long, desc, action)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

func writeZsh(b *strings.Builder, commands []commandDef) {
	b.WriteString("#compdef gfm2html\n\n")
	b.WriteString("_gfm2html() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, cmd := range commands {
		fmt.Fprintf(b, "        '%s:%s'\n", cmd.Name, zshDesc(cmd.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=\"${words[2]}\"\n")
	b.WriteString("    shift words\n")
	b.WriteString("    (( CURRENT-- ))\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, cmd := range commands {
		if len(cmd.Flags) == 0 && len(cmd.Args) == 0 && !cmd.TakesFiles {
			continue
		}
		fmt.Fprintf(b, "    %s)\n", cmd.Name)
		b.WriteString("        _arguments")
		for _, f := range cmd.Flags {
			b.WriteString(" \\\n            " + zshFlagSpec(f))
		}
		switch {
		case len(cmd.Args) > 0:
			fmt.Fprintf(b, " \\\n            '1:%s:(%s)'", cmd.Name, strings.Join(cmd.Args, " "))
		case cmd.TakesFiles:
			fmt.Fprintf(b, " \\\n            '*:markdown file:_files -g \"*.(%s)\"'", strings.Join(globExtensions(cmd.FilePattern), "|"))
		}
		b.WriteString("\n        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _gfm2html gfm2html\n")
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func fishQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

func writeFish(b *strings.Builder, commands []commandDef) {
	b.WriteString("# fish completion for gfm2html\n\n")
	b.WriteString("function __fish_gfm2html_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_gfm2html_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test $cmd[2] = $argv[1]\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c gfm2html -f\n\n")

	for _, cmd := range commands {
		fmt.Fprintf(b, "complete -c gfm2html -n __fish_gfm2html_needs_command -a %s -d %s\n", cmd.Name, fishQuote(cmd.Desc))
	}

	for _, cmd := range commands {
		cond := fishQuote("__fish_gfm2html_using_command " + cmd.Name)
		if len(cmd.Flags) > 0 || len(cmd.Args) > 0 || cmd.TakesFiles {
			b.WriteString("\n")
		}
		for _, f := range cmd.Flags {
			fmt.Fprintf(b, "complete -c gfm2html -n %s", cond)
			if f.Short != "" {
				fmt.Fprintf(b, " -s %s", f.Short)
			}
			fmt.Fprintf(b, " -l %s -d %s", f.Long, fishQuote(f.Desc))
			switch f.Type {
			case flagBool:
			case flagEnum:
				fmt.Fprintf(b, " -x -a %s", fishQuote(strings.Join(f.Values, " ")))
			case flagFile:
				b.WriteString(" -r -F")
			case flagDir:
				b.WriteString(" -x -a '(__fish_complete_directories)'")
			default:
				b.WriteString(" -x")
			}
			b.WriteString("\n")
		}
		switch {
		case len(cmd.Args) > 0:
			fmt.Fprintf(b, "complete -c gfm2html -n %s -a %s\n", cond, fishQuote(strings.Join(cmd.Args, " ")))
		case cmd.TakesFiles:
			fmt.Fprintf(b, "complete -c gfm2html -n %s -F\n", cond)
		}
	}
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func psArray(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = psQuote(s)
	}
	return "@(" + strings.Join(quoted, ", ") + ")"
}

func writePowerShell(b *strings.Builder, commands []commandDef) {
	b.WriteString("# PowerShell completion for gfm2html\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName gfm2html -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = [ordered]@{\n")
	for _, cmd := range commands {
		fmt.Fprintf(b, "        %s = %s\n", psQuote(cmd.Name), psQuote(cmd.Desc))
	}
	b.WriteString("    }\n")

	b.WriteString("    $flags = @{\n")
	for _, cmd := range commands {
		words := append(flagWords(cmd), cmd.Args...)
		if len(words) == 0 {
			continue
		}
		fmt.Fprintf(b, "        %s = %s\n", psQuote(cmd.Name), psArray(words))
	}
	b.WriteString("    }\n")

	b.WriteString("    $values = @{\n")
	seen := make(map[string]bool)
	for _, cmd := range commands {
		for _, f := range cmd.Flags {
			if f.Type != flagEnum || seen[f.Long] {
				continue
			}
			seen[f.Long] = true
			fmt.Fprintf(b, "        %s = %s\n", psQuote("--"+f.Long), psArray(f.Values))
		}
	}
	b.WriteString("    }\n\n")

	b.WriteString("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    if ($elements.Count -le 1 -or ($elements.Count -eq 2 -and $wordToComplete -ne '')) {\n")
	b.WriteString("        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $cmd = $elements[1]\n")
	b.WriteString("    $prev = if ($wordToComplete -eq '') { $elements[-1] } else { $elements[-2] }\n")
	b.WriteString("    if ($values.ContainsKey($prev)) {\n")
	b.WriteString("        $values[$prev] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n")
	b.WriteString("    if ($flags.ContainsKey($cmd)) {\n")
	b.WriteString("        $flags[$cmd] | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterName', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
}
