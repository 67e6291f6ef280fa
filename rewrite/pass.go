// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/hlslcc/arena"
	"github.com/gogpu/hlslcc/hlsl"
)

// Options configures the rewrite passes.
type Options struct {
	// BuiltinTypes are extra type names the parser accepts without a
	// declaration.
	BuiltinTypes []string

	// Pool, when set, is shared by the allocators of every parse.
	Pool *arena.PagePool
}

// DefaultOptions returns options with the parser's default built-in types.
func DefaultOptions() Options {
	return Options{BuiltinTypes: hlsl.DefaultParseOptions().BuiltinTypes}
}

// Rewriter runs rewrite passes with a fixed set of options. It holds no
// state between calls.
type Rewriter struct {
	opts Options
}

// New creates a Rewriter.
func New(opts Options) *Rewriter {
	return &Rewriter{opts: opts}
}

// Result is the outcome of a successful pass.
type Result struct {
	// Source is the rewritten source the caller should compile.
	Source string

	// EntryPoint is the function the caller should compile. Passes that
	// keep the original entry point leave it empty.
	EntryPoint string

	// Generated is the text the pass produced.
	Generated string

	// RemovedSemantics lists the semantics that were pruned, in order.
	RemovedSemantics []string
}

// RemoveUnusedOutputs runs the output pruning pass with default options.
func RemoveUnusedOutputs(source string, usedOutputs, exceptions []string, entryPoint string) (*Result, error) {
	return New(DefaultOptions()).RemoveUnusedOutputs(source, usedOutputs, exceptions, entryPoint)
}

// RemoveUnusedInputs runs the input pruning pass with default options.
func RemoveUnusedInputs(source string, usedInputs []string, entryPoint string) (*Result, error) {
	return New(DefaultOptions()).RemoveUnusedInputs(source, usedInputs, entryPoint)
}

// ConvertFromFP32ToFP16 runs the precision lowering pass with default
// options.
func ConvertFromFP32ToFP16(source string) (*Result, error) {
	return New(DefaultOptions()).ConvertFromFP32ToFP16(source)
}

// pass is the state shared by every rewrite: the parsed unit, its named
// structs and the errors collected so far.
type pass struct {
	builder

	tu      *hlsl.TranslationUnit
	structs map[string]*hlsl.StructSpecifier
	names   *namer
	err     *Error
}

// begin parses source. The caller must release the unit.
func (r *Rewriter) begin(source string) (*pass, error) {
	var messages hlsl.CompilerMessages
	opts := hlsl.ParseOptions{BuiltinTypes: r.opts.BuiltinTypes, Pool: r.opts.Pool}
	tu, err := hlsl.ParseWithOptions(source, "", opts, &messages)
	if err != nil {
		failure := &Error{Kind: ErrParseFailed}
		var parseErr *hlsl.ParseError
		if errors.As(err, &parseErr) && len(parseErr.Messages) > 0 {
			failure.Messages = parseErr.Messages
		} else {
			failure.Messages = []string{err.Error()}
		}
		return nil, failure
	}
	return &pass{
		builder: builder{alloc: tu.Allocator},
		tu:      tu,
		structs: tu.Structs(),
		names:   newNamer(tu.Nodes),
	}, nil
}

func (p *pass) release() {
	p.tu.Release()
}

// fail records a message. The first failure decides the error kind.
func (p *pass) fail(kind ErrorKind, format string, args ...any) {
	if p.err == nil {
		p.err = &Error{Kind: kind}
	}
	p.err.Messages = append(p.err.Messages, fmt.Sprintf(format, args...))
}

func (p *pass) failed() bool {
	return p.err != nil
}

// entry finds the definition of the entry point.
func (p *pass) entry(name string) *hlsl.FunctionDefinition {
	def := p.tu.FindFunction(name)
	if def == nil {
		p.fail(ErrEntryPointNotFound, "Unable to find entry point %s", name)
	}
	return def
}

// structOf returns the struct a type names, if any.
func (p *pass) structOf(spec *hlsl.TypeSpecifier) *hlsl.StructSpecifier {
	if spec == nil {
		return nil
	}
	if spec.Structure != nil {
		return spec.Structure
	}
	return p.structs[spec.TypeName]
}

// typeRef returns a specifier usable in a new declaration. Named inline
// structs are referred to by name so they are not defined twice.
func (p *pass) typeRef(spec *hlsl.TypeSpecifier) *hlsl.TypeSpecifier {
	if spec.Structure != nil && spec.Structure.Name != "" {
		return p.namedType(spec.Structure.Name)
	}
	return spec
}

// localType is the type of a local holding a parameter's value. Only the
// matrix order survives; storage and interpolation modifiers do not apply
// to locals.
func (p *pass) localType(t *hlsl.FullySpecifiedType) *hlsl.FullySpecifiedType {
	return p.fullType(t.Qualifier&(hlsl.QualRowMajor|hlsl.QualColumnMajor), p.typeRef(t.Specifier))
}

func isVoid(t *hlsl.FullySpecifiedType) bool {
	return t.Specifier.Structure == nil && t.Specifier.TypeName == "void"
}

// generatedHeader is the comment block placed before generated code.
func generatedHeader(passName, entryPoint, kind string, used, removed []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#line 1 \"%s.usf\"\n", passName)
	fmt.Fprintf(&sb, "// Generated Entry Point: %s\n", entryPoint)
	if len(used) > 0 {
		fmt.Fprintf(&sb, "// Requested Used%s: %s\n", kind, strings.Join(used, " "))
	}
	if len(removed) > 0 {
		fmt.Fprintf(&sb, "// Removed %s: %s\n", kind, strings.Join(removed, " "))
	}
	return sb.String()
}

// appendGenerated appends generated code on a line of its own.
func appendGenerated(source, generated string) string {
	if source != "" && !strings.HasSuffix(source, "\n") {
		source += "\n"
	}
	return source + generated
}
