// Command hlslcc is the HLSL cross-compiler front-end CLI.
//
// Usage:
//
//	hlslcc [options] <command> [command options] <input>
//
// Examples:
//
//	hlslcc parse shader.usf                              # Parse and write back
//	hlslcc parse --dump-ast shader.usf                   # Print the AST
//	hlslcc outputs -e MainPS -u SV_Target0 shader.usf    # Prune pixel outputs
//	hlslcc inputs -e MainVS -u ATTRIBUTE0 shader.usf     # Prune vertex inputs
//	hlslcc fp16 -o shader_half.usf shader.usf            # Lower to half precision
//	hlslcc -c shader.properties outputs shader.usf       # Read settings from a file
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/jessevdk/go-flags"
	"github.com/sanity-io/litter"

	"github.com/gogpu/hlslcc/arena"
	"github.com/gogpu/hlslcc/hlsl"
	"github.com/gogpu/hlslcc/rewrite"
)

const hlslccVersion = "0.1.0-dev"

type globalOptions struct {
	Config       string   `short:"c" long:"config" description:"properties file with entry_point, used, exceptions and builtin_types"`
	Output       string   `short:"o" long:"output" description:"output file (default: stdout)"`
	BuiltinTypes []string `short:"b" long:"builtin-type" description:"extra built-in type name, repeatable"`
	Stats        bool     `long:"stats" description:"print allocator statistics to stderr"`
}

var opts globalOptions

// pool backs every parse of one invocation.
var pool = arena.NewPagePool(0)

var tokenDumper = &spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, ContinueOnMethod: true}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "hlslcc"

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"parse", "Parse and write back", "Parses each input and writes the regenerated source.", &parseCommand{}},
		{"outputs", "Remove unused outputs", "Appends an entry point that returns only the used outputs.", &outputsCommand{}},
		{"inputs", "Remove unused inputs", "Appends an entry point that reads only the used inputs.", &inputsCommand{}},
		{"fp16", "Convert to half precision", "Rewrites float types inside functions to half.", &fp16Command{}},
		{"version", "Print version", "Prints the version and exits.", &versionCommand{}},
	}
	for _, c := range commands {
		if _, err := parser.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

type inputArg struct {
	Input string `positional-arg-name:"input" description:"HLSL source file"`
}

type parseCommand struct {
	DumpAST    bool `long:"dump-ast" description:"print the AST instead of source"`
	DumpTokens bool `long:"dump-tokens" description:"print the token stream before parsing"`

	Args struct {
		Inputs []string `positional-arg-name:"input" required:"1" description:"HLSL source files"`
	} `positional-args:"yes" required:"yes"`
}

func (c *parseCommand) Execute([]string) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}

	var out []byte
	for _, input := range c.Args.Inputs {
		source, err := os.ReadFile(input)
		if err != nil {
			return fmt.Errorf("reading %s: %w", input, err)
		}

		if c.DumpTokens {
			dump, err := dumpTokens(string(source), input)
			if err != nil {
				return err
			}
			out = append(out, dump...)
		}

		var messages hlsl.CompilerMessages
		tu, err := hlsl.ParseWithOptions(string(source), input, parseOptions(cfg), &messages)
		printMessages(string(source), &messages)
		if err != nil {
			return fmt.Errorf("%s: parse failed", input)
		}

		if c.DumpAST {
			out = append(out, litter.Options{
				StripPackageNames: true,
				HidePrivateFields: true,
				HideZeroValues:    true,
			}.Sdump(tu.Nodes)...)
			out = append(out, '\n')
		} else {
			out = append(out, hlsl.WriteNodesToString(tu.Nodes)...)
		}

		if opts.Stats {
			st := tu.Allocator.Stats()
			fmt.Fprintf(os.Stderr, "%s: %d pages, %d bytes, %d nodes\n", input, st.Pages, st.BytesUsed, st.Objects)
		}
		tu.Release()
	}

	if opts.Stats {
		fmt.Fprintf(os.Stderr, "page pool: %d free, %d in use, %d bytes per page\n", pool.Free(), pool.InUse(), pool.PageSize())
	}
	return writeOutput(out)
}

// dumpTokens returns the token stream of source. Lexer errors are printed
// to stderr.
func dumpTokens(source, input string) ([]byte, error) {
	var messages hlsl.CompilerMessages
	tokens, ok := hlsl.Lex(source, input, &messages)
	if !ok {
		printMessages(source, &messages)
		return nil, fmt.Errorf("%s: lexing failed", input)
	}
	return []byte(tokenDumper.Sdump(tokens)), nil
}

type outputsCommand struct {
	EntryPoint string   `short:"e" long:"entry" description:"entry point function"`
	Used       []string `short:"u" long:"used" description:"used output semantic, repeatable"`
	Exceptions []string `short:"x" long:"exception" description:"semantic substring that is always kept, repeatable"`

	Args inputArg `positional-args:"yes" required:"yes"`
}

func (c *outputsCommand) Execute([]string) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}
	cfg.override(c.EntryPoint, c.Used, c.Exceptions)

	source, err := os.ReadFile(c.Args.Input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.Args.Input, err)
	}

	res, err := rewrite.New(rewriteOptions(cfg)).RemoveUnusedOutputs(string(source), cfg.Used, cfg.Exceptions, cfg.EntryPoint)
	return finish(c.Args.Input, res, err)
}

type inputsCommand struct {
	EntryPoint string   `short:"e" long:"entry" description:"entry point function"`
	Used       []string `short:"u" long:"used" description:"used input semantic, repeatable"`

	Args inputArg `positional-args:"yes" required:"yes"`
}

func (c *inputsCommand) Execute([]string) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}
	cfg.override(c.EntryPoint, c.Used, nil)

	source, err := os.ReadFile(c.Args.Input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.Args.Input, err)
	}

	res, err := rewrite.New(rewriteOptions(cfg)).RemoveUnusedInputs(string(source), cfg.Used, cfg.EntryPoint)
	return finish(c.Args.Input, res, err)
}

type fp16Command struct {
	Args inputArg `positional-args:"yes" required:"yes"`
}

func (c *fp16Command) Execute([]string) error {
	cfg, err := loadConfig(opts.Config)
	if err != nil {
		return err
	}

	source, err := os.ReadFile(c.Args.Input)
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.Args.Input, err)
	}

	res, err := rewrite.New(rewriteOptions(cfg)).ConvertFromFP32ToFP16(string(source))
	return finish(c.Args.Input, res, err)
}

type versionCommand struct{}

func (versionCommand) Execute([]string) error {
	fmt.Printf("hlslcc version %s\n", hlslccVersion)
	return nil
}

func parseOptions(cfg config) hlsl.ParseOptions {
	po := hlsl.DefaultParseOptions()
	po.BuiltinTypes = append(po.BuiltinTypes, cfg.BuiltinTypes...)
	po.BuiltinTypes = append(po.BuiltinTypes, opts.BuiltinTypes...)
	po.Pool = pool
	return po
}

func rewriteOptions(cfg config) rewrite.Options {
	po := parseOptions(cfg)
	return rewrite.Options{BuiltinTypes: po.BuiltinTypes, Pool: po.Pool}
}

// finish reports the outcome of a rewrite pass and writes its source.
func finish(input string, res *rewrite.Result, err error) error {
	if err != nil {
		var rerr *rewrite.Error
		if errors.As(err, &rerr) {
			for _, msg := range rerr.Messages {
				fmt.Fprintf(os.Stderr, "%s: %s\n", input, strings.TrimSuffix(msg, "\n"))
			}
			return fmt.Errorf("%s: %s", input, rerr.Kind)
		}
		return err
	}

	if res.EntryPoint != "" {
		fmt.Fprintf(os.Stderr, "entry point: %s\n", res.EntryPoint)
	}
	if opts.Stats {
		fmt.Fprintf(os.Stderr, "removed %d semantics; page pool: %d free, %d in use\n",
			len(res.RemovedSemantics), pool.Free(), pool.InUse())
	}
	return writeOutput([]byte(res.Source))
}

// printMessages prints warnings verbatim and errors with the offending
// source line.
func printMessages(source string, messages *hlsl.CompilerMessages) {
	for _, msg := range messages.Messages {
		if !msg.IsError || !msg.Pos.IsValid() {
			fmt.Fprint(os.Stderr, msg.Message)
			continue
		}
		srcErr := &hlsl.SourceError{Message: msg.Text, Pos: msg.Pos, Source: source}
		fmt.Fprintln(os.Stderr, srcErr.FormatWithContext())
	}
}

func writeOutput(data []byte) error {
	if opts.Output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.Output, data, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
