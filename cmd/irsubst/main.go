// Command irsubst substitutes variables in tensor IR text.
//
// Usage:
//
//	irsubst [options] -var <name> -with <expr> <input.ir>
//	irsubst -collect <tensor> [options] <input.ir>
//	cat input.ir | irsubst [options] -var <name> -with <expr>
//
// Options:
//
//	-o <file>            Write output to file (default: stdout)
//	-config <file>       Use specific config file
//	-no-config           Ignore config files
//	-form expr|stmt      IR taxonomy to parse into (default: expr)
//	-var <name>          Variable to replace
//	-with <expr>         Replacement expression
//	-tensor <name>       Only replace inside index expressions of this tensor
//	-collect <tensor>    Print the index lists of every access to tensor
//	-strict              Fail on statements the rewriter cannot enter (default)
//	-skip-unsupported    Pass such statements through unchanged
//	-match-identity      Match variables by identity instead of by name
//	-minify              Print without optional whitespace
//	-color <mode>        Colored diagnostics: auto, always or never
//	-watch               Re-run whenever the input file changes
//	-v                   Log progress to stderr
//	-version             Print version and exit
//	-help                Print help and exit
//
// Config file:
//
//	irsubst looks for irsubst.yaml, .irsubstrc or .irsubstrc.yaml in the
//	input's directory and its parents. IRSUBST_STRICT, IRSUBST_COLOR and
//	IRSUBST_FORM override the file; CLI flags override both.
//
// Example irsubst.yaml:
//
//	form: stmt
//	strict: true
//	substitutions:
//	  - var: i
//	    with: io * 4 + ii
//	    tensor: A
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/HugoDaniel/irsubst/internal/config"
	"github.com/HugoDaniel/irsubst/internal/diagnostic"
	"github.com/HugoDaniel/irsubst/internal/driver"
	"github.com/mattn/go-isatty"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

// errFailed reports that diagnostics were already printed.
var errFailed = errors.New("rewrite failed")

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// job is one fully configured invocation.
type job struct {
	input   string // "" for stdin
	output  string
	collect string
	options driver.Options
	color   bool
}

func run() error {
	// Flags
	var (
		outputFile      string
		configFile      string
		noConfig        bool
		form            string
		variable        string
		with            string
		tensor          string
		collect         string
		strict          bool
		skipUnsupported bool
		matchIdentity   bool
		minify          bool
		color           string
		watch           bool
		verbose         bool
		showVersion     bool
		showHelp        bool
	)

	flag.StringVar(&outputFile, "o", "", "Write output to `file`")
	flag.StringVar(&configFile, "config", "", "Use specific config `file`")
	flag.BoolVar(&noConfig, "no-config", false, "Ignore config files")
	flag.StringVar(&form, "form", "expr", "IR `form` to parse into: expr or stmt")
	flag.StringVar(&variable, "var", "", "Variable `name` to replace")
	flag.StringVar(&with, "with", "", "Replacement `expr`")
	flag.StringVar(&tensor, "tensor", "", "Only replace inside index expressions of this `tensor`")
	flag.StringVar(&collect, "collect", "", "Print the index lists of every access to `tensor`")
	flag.BoolVar(&strict, "strict", true, "Fail on statements the rewriter cannot enter")
	flag.BoolVar(&skipUnsupported, "skip-unsupported", false, "Pass unsupported statements through unchanged")
	flag.BoolVar(&matchIdentity, "match-identity", false, "Match variables by identity instead of by name")
	flag.BoolVar(&minify, "minify", false, "Print without optional whitespace")
	flag.StringVar(&color, "color", "auto", "Colored diagnostics: auto, always or never")
	flag.BoolVar(&watch, "watch", false, "Re-run whenever the input file changes")
	flag.BoolVar(&verbose, "v", false, "Log progress to stderr")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.BoolVar(&showHelp, "help", false, "Print help and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "irsubst - IR variable substitution v%s\n\n", version)
		fmt.Fprintf(os.Stderr, "Usage: irsubst [options] -var <name> -with <expr> <input.ir>\n")
		fmt.Fprintf(os.Stderr, "       irsubst -collect <tensor> [options] <input.ir>\n")
		fmt.Fprintf(os.Stderr, "       cat input.ir | irsubst [options] -var <name> -with <expr>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nConfig file:\n")
		fmt.Fprintf(os.Stderr, "  Searches for irsubst.yaml, .irsubstrc or .irsubstrc.yaml in the input's\n")
		fmt.Fprintf(os.Stderr, "  directory and its parents. %s, %s and %s override the file.\n",
			config.EnvStrict, config.EnvColor, config.EnvForm)
		fmt.Fprintf(os.Stderr, "  CLI flags override both.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  irsubst -var i -with 'io * 4 + ii' -tensor A kernel.ir\n")
		fmt.Fprintf(os.Stderr, "  irsubst -form stmt -var k -with 0 -skip-unsupported kernel.ir\n")
		fmt.Fprintf(os.Stderr, "  irsubst -collect A kernel.ir\n")
		fmt.Fprintf(os.Stderr, "  irsubst -watch -var i -with j -o out.ir kernel.ir\n")
	}

	flag.Parse()

	log.SetPrefix("irsubst: ")
	log.SetFlags(0)
	if !verbose {
		log.SetOutput(io.Discard)
	}

	if showHelp {
		flag.Usage()
		return nil
	}

	if showVersion {
		fmt.Printf("irsubst v%s (%s)\n", version, commit)
		return nil
	}

	if flag.NArg() > 1 {
		return fmt.Errorf("expected at most one input file, got %d", flag.NArg())
	}
	if (variable == "") != (with == "") {
		return fmt.Errorf("-var and -with must be given together")
	}
	if watch && flag.NArg() == 0 {
		return fmt.Errorf("-watch needs an input file")
	}

	// Only flags given on the command line override the config
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cli := config.MergeOptions{}
	if set["form"] {
		cli.Form = &form
	}
	if set["strict"] {
		cli.Strict = &strict
	}
	if set["skip-unsupported"] {
		lenient := !skipUnsupported
		cli.Strict = &lenient
	}
	if set["match-identity"] {
		cli.MatchIdentity = &matchIdentity
	}
	if set["minify"] {
		cli.MinifyWhitespace = &minify
	}
	if set["color"] {
		cli.Color = &color
	}
	if variable != "" {
		cli.Substitutions = []driver.Substitution{{Var: variable, With: with, Tensor: tensor}}
	} else if tensor != "" {
		return fmt.Errorf("-tensor needs -var and -with")
	}

	// Load config file
	var cfg *config.Config
	if !noConfig {
		var err error
		if configFile != "" {
			// Use specified config file
			cfg, err = config.LoadFile(configFile)
			if err != nil {
				return fmt.Errorf("loading config file %s: %w", configFile, err)
			}
			log.Printf("using config %s", configFile)
		} else {
			// Search for config file
			startDir, _ := os.Getwd()
			if flag.NArg() > 0 {
				startDir = filepath.Dir(flag.Arg(0))
			}
			var configPath string
			cfg, configPath, err = config.Load(startDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if configPath != "" {
				log.Printf("using config %s", configPath)
			}
		}
	}

	cfg, err := cfg.ApplyEnv()
	if err != nil {
		return err
	}
	opts, colorMode, err := cfg.Merge(cli)
	if err != nil {
		return err
	}

	j := job{
		input:   flag.Arg(0),
		output:  outputFile,
		collect: collect,
		options: opts,
		color:   colorMode.Enabled(isTerminal(os.Stderr)),
	}
	log.Printf("form %s, %d substitution(s), strict=%v", opts.Form, len(opts.Substitutions), opts.Strict)

	if watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return watchInput(ctx, j)
	}
	return j.run()
}

// run reads the input, rewrites or collects, and writes the output.
func (j job) run() error {
	// Read input
	var source []byte
	var err error

	if j.input != "" {
		// Read from file
		source, err = os.ReadFile(j.input)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	} else {
		// Check if stdin is a pipe
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			flag.Usage()
			return fmt.Errorf("no input file specified")
		}
		// Read from stdin
		source, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	d := driver.New(j.options)
	var out string
	if j.collect != "" {
		result := d.Collect(string(source), j.collect)
		if result.Diagnostics.HasErrors() {
			return j.fail(result.Diagnostics.FormatWith(j.formatOptions()), len(result.Errors))
		}
		for _, list := range result.Indices {
			out += list + "\n"
		}
		log.Printf("collected %d access(es) to %s", len(result.Indices), j.collect)
	} else {
		result := d.Rewrite(string(source))
		if result.Diagnostics.HasErrors() {
			return j.fail(result.Diagnostics.FormatWith(j.formatOptions()), len(result.Errors))
		}
		if result.Diagnostics.Count() > 0 {
			fmt.Fprint(os.Stderr, result.Diagnostics.FormatWith(j.formatOptions()))
		}
		out = result.Code
		if j.options.MinifyWhitespace {
			out += "\n"
		}
		log.Printf("applied %d substitution(s): %d -> %d bytes",
			result.Stats.Substitutions, result.Stats.OriginalSize, result.Stats.OutputSize)
	}

	// Write output
	var output io.Writer = os.Stdout
	if j.output != "" {
		f, err := os.Create(j.output)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	if _, err := io.WriteString(output, out); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func (j job) fail(diagnostics string, count int) error {
	fmt.Fprint(os.Stderr, diagnostics)
	fmt.Fprintf(os.Stderr, "%d error(s)\n", count)
	return errFailed
}

func (j job) formatOptions() diagnostic.FormatOptions {
	name := j.input
	if name == "" {
		name = "<stdin>"
	}
	return diagnostic.FormatOptions{Filename: name, Color: j.color}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
