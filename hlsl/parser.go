// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"strings"

	"github.com/gogpu/hlslcc/arena"
)

// ParseResult is the outcome of one grammar rule.
type ParseResult uint8

const (
	// ResultNotMatched means the rule does not apply; the caller may try an
	// alternative after restoring the scanner.
	ResultNotMatched ParseResult = iota
	// ResultMatched means the rule consumed a construct.
	ResultMatched
	// ResultError means the rule applied but the input is malformed. It is
	// never downgraded by callers.
	ResultError
)

func (r ParseResult) String() string {
	switch r {
	case ResultNotMatched:
		return "NotMatched"
	case ResultMatched:
		return "Matched"
	case ResultError:
		return "Error"
	}
	return "ParseResult(?)"
}

// DeclarationFlags selects what the shared declaration grammar accepts.
type DeclarationFlags uint32

const (
	DeclAllowConst DeclarationFlags = 1 << iota
	DeclAllowStatic
	DeclAllowUniform
	DeclAllowInOut
	DeclAllowShared
	DeclAllowInterpolation
	DeclAllowPrimitive
	DeclAllowMatrixOrder
	DeclAllowResources
	DeclAllowStruct
	DeclAllowInitializer
	DeclAllowInitializerList
	DeclAllowSemantic
	DeclRequireSemicolon
	DeclAllowMultiple
	DeclAllowVoid
)

const (
	globalDeclFlags = DeclAllowConst | DeclAllowStatic | DeclAllowUniform | DeclAllowShared |
		DeclAllowMatrixOrder | DeclAllowResources | DeclAllowStruct | DeclAllowInitializer |
		DeclAllowInitializerList | DeclAllowSemantic | DeclRequireSemicolon | DeclAllowMultiple

	localDeclFlags = DeclAllowConst | DeclAllowStatic | DeclAllowMatrixOrder | DeclAllowResources |
		DeclAllowStruct | DeclAllowInitializer | DeclAllowInitializerList |
		DeclRequireSemicolon | DeclAllowMultiple

	structMemberFlags = DeclAllowInterpolation | DeclAllowPrimitive | DeclAllowMatrixOrder |
		DeclAllowResources | DeclAllowSemantic | DeclRequireSemicolon | DeclAllowMultiple

	cbufferMemberFlags = DeclAllowConst | DeclAllowStatic | DeclAllowUniform | DeclAllowMatrixOrder |
		DeclAllowResources | DeclAllowStruct | DeclAllowInitializer | DeclAllowInitializerList |
		DeclAllowSemantic | DeclRequireSemicolon | DeclAllowMultiple

	parameterFlags = DeclAllowConst | DeclAllowUniform | DeclAllowInOut | DeclAllowInterpolation |
		DeclAllowPrimitive | DeclAllowMatrixOrder | DeclAllowResources | DeclAllowSemantic |
		DeclAllowInitializer
)

// ParseOptions configures the parser.
type ParseOptions struct {
	// BuiltinTypes are extra type names known without a declaration.
	// Qualified names ("Platform::Handle") are allowed.
	BuiltinTypes []string

	// Pool, when set, supplies the pages of the tree's allocator so that
	// consecutive parses reuse memory.
	Pool *arena.PagePool
}

// DefaultParseOptions returns options recognizing the DXR built-in types.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		BuiltinTypes: append([]string(nil), DefaultBuiltinTypes...),
	}
}

// TranslationUnit is a parsed source file. Every node is owned by
// Allocator and must not be used after Release.
type TranslationUnit struct {
	Filename  string
	Allocator *arena.Allocator
	Nodes     []Node
}

// Release frees the memory of the whole tree.
func (tu *TranslationUnit) Release() {
	tu.Allocator.Release()
	tu.Nodes = nil
}

// Structs returns the top-level named struct definitions by name.
func (tu *TranslationUnit) Structs() map[string]*StructSpecifier {
	structs := make(map[string]*StructSpecifier)
	for _, n := range tu.Nodes {
		if list, ok := n.(*DeclaratorList); ok && list.Type != nil && list.Type.Specifier != nil {
			if s := list.Type.Specifier.Structure; s != nil && s.Name != "" {
				structs[s.Name] = s
			}
		}
	}
	return structs
}

// FindFunction returns the definition of the named function.
func (tu *TranslationUnit) FindFunction(name string) *FunctionDefinition {
	for _, n := range tu.Nodes {
		if fn, ok := n.(*FunctionDefinition); ok && fn.Prototype.Identifier == name {
			return fn
		}
	}
	return nil
}

// Parse lexes and parses source with the default options.
func Parse(source, filename string, messages *CompilerMessages) (*TranslationUnit, error) {
	return ParseWithOptions(source, filename, DefaultParseOptions(), messages)
}

// ParseWithOptions lexes and parses source. Diagnostics are appended to
// messages; on failure the returned error is a *ParseError and no tree is
// returned.
func ParseWithOptions(source, filename string, opts ParseOptions, messages *CompilerMessages) (*TranslationUnit, error) {
	if messages == nil {
		messages = &CompilerMessages{}
	}

	tokens, ok := Lex(source, filename, messages)
	if !ok {
		return nil, newParseError(filename, messages)
	}

	alloc := arena.NewAllocator()
	if opts.Pool != nil {
		alloc = arena.NewAllocatorWithPool(opts.Pool)
	}
	p := NewParser(tokens, alloc, opts, messages)
	nodes, ok := p.ParseTranslationUnit()
	if !ok {
		alloc.Release()
		return nil, newParseError(filename, messages)
	}

	return &TranslationUnit{Filename: filename, Allocator: alloc, Nodes: nodes}, nil
}

// ParseWithCallback parses source and hands the allocator and nodes to fn.
// The allocator is released when fn returns, so fn must not retain nodes.
func ParseWithCallback(source, filename string, messages *CompilerMessages, fn func(*arena.Allocator, []Node) error) error {
	tu, err := Parse(source, filename, messages)
	if err != nil {
		return err
	}
	defer tu.Release()
	return fn(tu.Allocator, tu.Nodes)
}

// Parser builds an AST from a token stream with recursive descent. Nodes
// are allocated from the parser's allocator.
type Parser struct {
	scanner  *Scanner
	alloc    *arena.Allocator
	scope    *SymbolScope
	messages *CompilerMessages
}

// NewParser creates a parser over tokens produced by Lex.
func NewParser(tokens []Token, alloc *arena.Allocator, opts ParseOptions, messages *CompilerMessages) *Parser {
	if messages == nil {
		messages = &CompilerMessages{}
	}
	global := NewSymbolScope(nil, "")
	for _, name := range opts.BuiltinTypes {
		global.Add(name)
	}
	return &Parser{
		scanner:  NewScanner(tokens, messages),
		alloc:    alloc,
		scope:    global,
		messages: messages,
	}
}

// ParseTranslationUnit parses top-level constructs until EOF. It stops at
// the first error.
func (p *Parser) ParseTranslationUnit() ([]Node, bool) {
	var nodes []Node
	for p.scanner.HasMoreTokens() {
		if p.scanner.MatchToken(TokenSemicolon) {
			continue
		}

		node, res := p.parseTopLevel()
		switch res {
		case ResultError:
			return nil, false
		case ResultNotMatched:
			p.scanner.SourceErrorf("Syntax error near '%s'", p.scanner.Peek())
			return nil, false
		}
		nodes = append(nodes, node)
	}
	return nodes, !p.messages.HasErrors()
}

func (p *Parser) parseTopLevel() (Node, ParseResult) {
	if p.scanner.Check(TokenPragma) {
		return p.parsePragma(), ResultMatched
	}

	if p.scanner.Check(TokenCBuffer) {
		return p.parseCBuffer()
	}

	cp := p.scanner.Checkpoint()
	attrs, res := p.parseAttributes()
	if res == ResultError {
		return nil, res
	}

	afterAttrs := p.scanner.Checkpoint()
	fn, res := p.parseFunctionDeclaration()
	switch res {
	case ResultMatched:
		fn.Attributes = attrs
		return fn, res
	case ResultError:
		return nil, res
	}

	p.scanner.Restore(afterAttrs)
	list, res := p.parseGeneralDeclaration(globalDeclFlags)
	switch res {
	case ResultMatched:
		list.Attributes = attrs
		return list, res
	case ResultError:
		return nil, res
	}

	p.scanner.Restore(cp)
	return nil, ResultNotMatched
}

func (p *Parser) parsePragma() *Pragma {
	tok := p.scanner.Advance()
	pragma := arena.New[Pragma](p.alloc)
	pragma.Span = Span{Start: tok.Pos, End: tok.Pos}
	pragma.Text = p.str(tok.Lexeme)
	return pragma
}

// parseAttributes parses any number of `[name(args)]` decorations.
func (p *Parser) parseAttributes() ([]*Attribute, ParseResult) {
	var attrs []*Attribute
	for p.scanner.Check(TokenLeftBracket) {
		start := p.scanner.Advance().Pos
		name, ok := p.scanner.MatchIdentifier()
		if !ok {
			p.scanner.SourceError("Incorrect attribute")
			return nil, ResultError
		}

		attr := arena.New[Attribute](p.alloc)
		attr.Name = p.str(name)

		if p.scanner.MatchToken(TokenLeftParen) {
			for !p.scanner.Check(TokenRightParen) {
				arg := arena.New[AttributeArgument](p.alloc)
				arg.Span.Start = p.scanner.Peek().Pos
				if p.scanner.Check(TokenStringConstant) {
					arg.StringArgument = p.str(p.scanner.Advance().Lexeme)
				} else {
					expr, res := p.parseAssignmentExpression()
					if res != ResultMatched {
						return nil, p.expected(res, "Incorrect attribute argument")
					}
					arg.Expression = expr
				}
				arg.Span.End = p.scanner.Previous().Pos
				attr.Arguments = append(attr.Arguments, arg)

				if !p.scanner.MatchToken(TokenComma) {
					break
				}
			}
			if !p.scanner.MatchToken(TokenRightParen) {
				p.scanner.SourceError("')' expected")
				return nil, ResultError
			}
		}

		if !p.scanner.MatchToken(TokenRightBracket) {
			p.scanner.SourceError("']' expected")
			return nil, ResultError
		}
		attr.Span = p.span(start)
		attrs = append(attrs, attr)
	}
	return attrs, ResultMatched
}

// expected converts a failed sub-rule into an error. A NotMatched result
// reports text at the current token.
func (p *Parser) expected(res ParseResult, text string) ParseResult {
	if res == ResultNotMatched {
		p.scanner.SourceError(text)
	}
	return ResultError
}

// expect consumes a token of the given kind or reports "'x' expected".
func (p *Parser) expect(kind TokenKind) bool {
	if p.scanner.MatchToken(kind) {
		return true
	}
	p.scanner.SourceErrorf("'%s' expected", kind)
	return false
}

func (p *Parser) span(start Position) Span {
	return Span{Start: start, End: p.scanner.Previous().Pos}
}

func (p *Parser) str(s string) string {
	return p.alloc.Strdup(s)
}

// parseParenthesizedText collects the tokens of `( ... )` as text, used by
// register and packoffset annotations.
func (p *Parser) parseParenthesizedText() (string, bool) {
	if !p.expect(TokenLeftParen) {
		return "", false
	}
	var sb strings.Builder
	for !p.scanner.Check(TokenRightParen) {
		if !p.scanner.HasMoreTokens() {
			p.scanner.SourceError("')' expected")
			return "", false
		}
		tok := p.scanner.Advance()
		if tok.Kind == TokenComma {
			sb.WriteString(", ")
			continue
		}
		sb.WriteString(tok.Lexeme)
	}
	p.scanner.Advance()
	return p.str(sb.String()), true
}
