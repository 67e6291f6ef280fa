// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"github.com/gogpu/hlslcc/arena"
)

// qualifierTokens maps qualifier keywords to their bit and the flag that
// permits them.
var qualifierTokens = map[TokenKind]struct {
	bit  TypeQualifier
	flag DeclarationFlags
}{
	TokenConst:           {QualConst, DeclAllowConst},
	TokenStatic:          {QualStatic, DeclAllowStatic},
	TokenIn:              {QualIn, DeclAllowInOut},
	TokenOut:             {QualOut, DeclAllowInOut},
	TokenInOut:           {QualInOut, DeclAllowInOut},
	TokenUniform:         {QualUniform, DeclAllowUniform},
	TokenGroupShared:     {QualGroupShared, DeclAllowShared},
	TokenLinear:          {QualLinear, DeclAllowInterpolation},
	TokenCentroid:        {QualCentroid, DeclAllowInterpolation},
	TokenNoInterpolation: {QualNoInterpolation, DeclAllowInterpolation},
	TokenNoPerspective:   {QualNoPerspective, DeclAllowInterpolation},
	TokenSample:          {QualSample, DeclAllowInterpolation},
	TokenRowMajor:        {QualRowMajor, DeclAllowMatrixOrder},
	TokenColumnMajor:     {QualColumnMajor, DeclAllowMatrixOrder},
	TokenPoint:           {QualPoint, DeclAllowPrimitive},
	TokenLine:            {QualLine, DeclAllowPrimitive},
	TokenLineAdj:         {QualLineAdj, DeclAllowPrimitive},
	TokenTriangle:        {QualTriangle, DeclAllowPrimitive},
	TokenTriangleAdj:     {QualTriangleAdj, DeclAllowPrimitive},
}

// parseTypeQualifiers consumes storage, interpolation, matrix order and
// primitive keywords. Each may appear once; invalid combinations are
// errors.
func (p *Parser) parseTypeQualifiers(flags DeclarationFlags) (TypeQualifier, ParseResult) {
	var q TypeQualifier
	for {
		tok := p.scanner.Peek()
		entry, ok := qualifierTokens[tok.Kind]
		if !ok {
			break
		}
		if flags&entry.flag == 0 {
			p.scanner.SourceErrorf("'%s' is not allowed here", tok.Kind)
			return 0, ResultError
		}
		if q&entry.bit != 0 {
			p.scanner.SourceErrorf("'%s' specified more than once", tok.Kind)
			return 0, ResultError
		}
		q |= entry.bit
		p.scanner.Advance()
	}

	switch {
	case q.Has(QualInOut) && q&(QualIn|QualOut) != 0:
		p.scanner.SourceError("'inout' can't be combined with 'in' or 'out'")
		return 0, ResultError
	case q.Has(QualUniform) && q&(QualOut|QualInOut|qualPrimitive|QualGroupShared|qualInterpolation) != 0:
		p.scanner.SourceError("'uniform' can't be combined with 'out', 'inout', 'groupshared', primitive or interpolation modifiers")
		return 0, ResultError
	case q.Has(QualLinear | QualNoInterpolation):
		p.scanner.SourceError("'linear' and 'nointerpolation' are mutually exclusive")
		return 0, ResultError
	case q.Has(QualCentroid) && q&(QualLinear|QualNoPerspective) == 0:
		p.scanner.SourceError("'centroid' requires 'linear' or 'noperspective'")
		return 0, ResultError
	}

	if q.Has(QualIn | QualOut) {
		q = q&^(QualIn|QualOut) | QualInOut
	}
	return q, ResultMatched
}

// parseTypeSpecifier parses a basic type, a resource type, a user type
// known to the scope, or a struct.
func (p *Parser) parseTypeSpecifier(flags DeclarationFlags) (*TypeSpecifier, ParseResult) {
	tok := p.scanner.Peek()
	start := tok.Pos

	switch {
	case tok.Kind == TokenVoid:
		if flags&DeclAllowVoid == 0 {
			return nil, ResultNotMatched
		}
		p.scanner.Advance()
		return p.newTypeSpecifier(start, "void"), ResultMatched

	case tok.Kind == TokenBasicType:
		p.scanner.Advance()
		return p.newTypeSpecifier(start, tok.Lexeme), ResultMatched

	case tok.Kind.IsResourceType():
		if flags&DeclAllowResources == 0 {
			return nil, ResultNotMatched
		}
		p.scanner.Advance()
		spec := p.newTypeSpecifier(start, tok.Lexeme)
		if tok.Kind.isTemplatedResource() && p.scanner.Check(TokenLower) {
			if res := p.parseTemplateArguments(tok.Kind, spec); res != ResultMatched {
				return nil, res
			}
		}
		spec.Span = p.span(start)
		return spec, ResultMatched

	case tok.Kind == TokenStruct:
		if flags&DeclAllowStruct == 0 {
			return nil, ResultNotMatched
		}
		return p.parseStructSpecifierType(start)

	case tok.Kind == TokenIdentifier:
		name, n := p.peekQualifiedName()
		if !p.scope.FindType(name, true) {
			return nil, ResultNotMatched
		}
		for i := 0; i < n; i++ {
			p.scanner.Advance()
		}
		return p.newTypeSpecifier(start, name), ResultMatched
	}

	return nil, ResultNotMatched
}

// peekQualifiedName returns `A`, `A::B`, ... starting at the current token
// and the number of tokens it spans, without consuming anything.
func (p *Parser) peekQualifiedName() (string, int) {
	return p.peekQualifiedNameAt(0)
}

func (p *Parser) newTypeSpecifier(start Position, name string) *TypeSpecifier {
	spec := arena.New[TypeSpecifier](p.alloc)
	spec.TypeName = p.str(name)
	spec.Span = p.span(start)
	return spec
}

// parseTemplateArguments parses `<Inner>` or `<Inner, N>` after a resource
// type name.
func (p *Parser) parseTemplateArguments(kind TokenKind, spec *TypeSpecifier) ParseResult {
	p.scanner.Advance()

	inner := p.scanner.Peek()
	switch {
	case inner.Kind == TokenBasicType:
		p.scanner.Advance()
		spec.InnerType = p.str(inner.Lexeme)
	case inner.Kind == TokenIdentifier:
		name, n := p.peekQualifiedName()
		for i := 0; i < n; i++ {
			p.scanner.Advance()
		}
		spec.InnerType = p.str(name)
	default:
		p.scanner.SourceError("Expected type!")
		return ResultError
	}

	if p.scanner.MatchToken(TokenComma) {
		count := p.scanner.Peek()
		if count.Kind != TokenUintConstant {
			p.scanner.SourceError("Expected constant!")
			return ResultError
		}
		p.scanner.Advance()
		switch kind {
		case TokenInputPatch, TokenOutputPatch:
			spec.PatchSize = int(count.UintValue)
		default:
			spec.TextureMSNumSamples = int(count.UintValue)
		}
	}

	if !p.expect(TokenGreater) {
		return ResultError
	}
	return ResultMatched
}

// parseStructSpecifierType handles `struct` in a type position: a
// definition (named or anonymous) or a reference to a known struct.
func (p *Parser) parseStructSpecifierType(start Position) (*TypeSpecifier, ParseResult) {
	cp := p.scanner.Checkpoint()
	p.scanner.Advance()

	if p.scanner.Check(TokenIdentifier) && p.scanner.PeekAt(1).Kind != TokenLeftBrace && p.scanner.PeekAt(1).Kind != TokenColon {
		name := p.scanner.Advance().Lexeme
		if !p.scope.FindType(name, true) {
			p.scanner.Restore(cp)
			p.scanner.Advance()
			p.scanner.SourceErrorf("Unknown struct '%s'", name)
			return nil, ResultError
		}
		return p.newTypeSpecifier(start, name), ResultMatched
	}

	p.scanner.Restore(cp)
	structure, res := p.parseStructSpecifier()
	if res != ResultMatched {
		return nil, res
	}
	spec := arena.New[TypeSpecifier](p.alloc)
	spec.Structure = structure
	spec.Span = p.span(start)
	return spec, ResultMatched
}

// parseStructSpecifier parses `struct [Name] [: Parent] { members }`.
func (p *Parser) parseStructSpecifier() (*StructSpecifier, ParseResult) {
	start := p.scanner.Advance().Pos
	structure := arena.New[StructSpecifier](p.alloc)

	if name, ok := p.scanner.MatchIdentifier(); ok {
		structure.Name = p.str(name)
		// Registered before the body so members may refer to the struct.
		p.scope.Add(structure.Name)
	}

	if p.scanner.MatchToken(TokenColon) {
		parent, ok := p.scanner.MatchIdentifier()
		if !ok {
			p.scanner.SourceError("Expected parent struct name!")
			return nil, ResultError
		}
		if p.scanner.Check(TokenComma) {
			p.scanner.SourceError("Multiple inheritance is not supported")
			return nil, ResultError
		}
		structure.ParentName = p.str(parent)
	}

	if !p.expect(TokenLeftBrace) {
		return nil, ResultError
	}

	for !p.scanner.MatchToken(TokenRightBrace) {
		if !p.scanner.HasMoreTokens() {
			p.scanner.SourceError("'}' expected")
			return nil, ResultError
		}
		member, res := p.parseGeneralDeclaration(structMemberFlags)
		if res != ResultMatched {
			return nil, p.expected(res, "Expected struct member declaration!")
		}
		structure.Members = append(structure.Members, member)
	}

	structure.Span = p.span(start)
	return structure, ResultMatched
}

// parseGeneralDeclaration is the declaration grammar shared by globals,
// locals, struct and cbuffer members. It returns NotMatched when the input
// does not start with a type.
func (p *Parser) parseGeneralDeclaration(flags DeclarationFlags) (*DeclaratorList, ParseResult) {
	cp := p.scanner.Checkpoint()
	start := p.scanner.Peek().Pos

	qualifier, res := p.parseTypeQualifiers(flags)
	if res == ResultError {
		return nil, res
	}

	spec, res := p.parseTypeSpecifier(flags)
	switch res {
	case ResultError:
		return nil, res
	case ResultNotMatched:
		if qualifier != 0 {
			p.scanner.SourceError("Expected type!")
			return nil, ResultError
		}
		p.scanner.Restore(cp)
		return nil, ResultNotMatched
	}

	list := arena.New[DeclaratorList](p.alloc)
	list.Type = p.newFullySpecifiedType(start, qualifier, spec)

	if spec.Structure != nil && p.scanner.Check(TokenSemicolon) {
		if flags&DeclRequireSemicolon != 0 {
			p.scanner.Advance()
		}
		list.Span = p.span(start)
		return list, ResultMatched
	}

	if !p.scanner.Check(TokenIdentifier) {
		if qualifier != 0 || spec.Structure != nil {
			p.scanner.SourceError("Expected identifier!")
			return nil, ResultError
		}
		// A type followed by anything else is an expression such as a
		// constructor call.
		p.scanner.Restore(cp)
		return nil, ResultNotMatched
	}

	for {
		decl, res := p.parseDeclarator(flags)
		if res != ResultMatched {
			return nil, p.expected(res, "Expected identifier!")
		}
		list.Declarations = append(list.Declarations, decl)

		if flags&DeclAllowMultiple == 0 || !p.scanner.MatchToken(TokenComma) {
			break
		}
	}

	if flags&DeclRequireSemicolon != 0 && !p.expect(TokenSemicolon) {
		return nil, ResultError
	}

	list.Span = p.span(start)
	return list, ResultMatched
}

func (p *Parser) newFullySpecifiedType(start Position, q TypeQualifier, spec *TypeSpecifier) *FullySpecifiedType {
	t := arena.New[FullySpecifiedType](p.alloc)
	t.Qualifier = q
	t.Specifier = spec
	t.Span = p.span(start)
	return t
}

// parseDeclarator parses `Name[dims] : annotations = initializer`.
func (p *Parser) parseDeclarator(flags DeclarationFlags) (*Declaration, ParseResult) {
	tok := p.scanner.Peek()
	if tok.Kind != TokenIdentifier {
		return nil, ResultNotMatched
	}
	p.scanner.Advance()

	decl := arena.New[Declaration](p.alloc)
	decl.Identifier = p.str(tok.Lexeme)

	for p.scanner.MatchToken(TokenLeftBracket) {
		if p.scanner.MatchToken(TokenRightBracket) {
			if flags&DeclAllowInOut == 0 {
				p.scanner.SourceError("Array size expected")
				return nil, ResultError
			}
			decl.ArraySize = append(decl.ArraySize, nil)
			continue
		}
		size, res := p.parseAssignmentExpression()
		if res != ResultMatched {
			return nil, p.expected(res, "Expected array size expression!")
		}
		if !p.expect(TokenRightBracket) {
			return nil, ResultError
		}
		decl.ArraySize = append(decl.ArraySize, size)
	}

	if res := p.parseAnnotations(flags, decl); res != ResultMatched {
		return nil, res
	}

	if p.scanner.MatchToken(TokenEqual) {
		if flags&DeclAllowInitializer == 0 {
			p.scanner.SourceError("Initializer not allowed here")
			return nil, ResultError
		}
		var (
			init *Expression
			res  ParseResult
		)
		if p.scanner.Check(TokenLeftBrace) {
			if flags&DeclAllowInitializerList == 0 {
				p.scanner.SourceError("Initializer list not allowed here")
				return nil, ResultError
			}
			init, res = p.parseInitializerList()
		} else {
			init, res = p.parseAssignmentExpression()
		}
		if res != ResultMatched {
			return nil, p.expected(res, "Expected initializer expression!")
		}
		decl.Initializer = init
	}

	decl.Span = p.span(tok.Pos)
	return decl, ResultMatched
}

// parseAnnotations parses `: SEMANTIC`, `: register(...)` and
// `: packoffset(...)` in any order.
func (p *Parser) parseAnnotations(flags DeclarationFlags, decl *Declaration) ParseResult {
	for p.scanner.Check(TokenColon) {
		next := p.scanner.PeekAt(1)
		switch next.Kind {
		case TokenRegister:
			p.scanner.Advance()
			p.scanner.Advance()
			text, ok := p.parseParenthesizedText()
			if !ok {
				return ResultError
			}
			decl.Register = text
		case TokenPackOffset:
			p.scanner.Advance()
			p.scanner.Advance()
			text, ok := p.parseParenthesizedText()
			if !ok {
				return ResultError
			}
			decl.PackOffset = text
		case TokenIdentifier:
			if flags&DeclAllowSemantic == 0 {
				p.scanner.SourceError("Semantic not allowed here")
				return ResultError
			}
			p.scanner.Advance()
			decl.Semantic = p.str(p.scanner.Advance().Lexeme)
		default:
			p.scanner.Advance()
			p.scanner.SourceError("Expected semantic!")
			return ResultError
		}
	}
	return ResultMatched
}

// parseInitializerList parses `{ a, b, { c, d } }` with an optional
// trailing comma.
func (p *Parser) parseInitializerList() (*Expression, ParseResult) {
	start := p.scanner.Advance().Pos
	list := arena.New[Expression](p.alloc)
	list.Operator = OpInitializerList

	for !p.scanner.Check(TokenRightBrace) {
		var (
			elem *Expression
			res  ParseResult
		)
		if p.scanner.Check(TokenLeftBrace) {
			elem, res = p.parseInitializerList()
		} else {
			elem, res = p.parseAssignmentExpression()
		}
		if res != ResultMatched {
			return nil, p.expected(res, "Expected initializer expression!")
		}
		list.Expressions = append(list.Expressions, elem)

		if !p.scanner.MatchToken(TokenComma) {
			break
		}
	}

	if !p.expect(TokenRightBrace) {
		return nil, ResultError
	}
	list.Span = p.span(start)
	return list, ResultMatched
}

// parseCBuffer parses `cbuffer Name [: register(b0)] { members } [;]`.
func (p *Parser) parseCBuffer() (*CBufferDeclaration, ParseResult) {
	start := p.scanner.Advance().Pos
	cb := arena.New[CBufferDeclaration](p.alloc)

	name, ok := p.scanner.MatchIdentifier()
	if !ok {
		p.scanner.SourceError("Expected identifier!")
		return nil, ResultError
	}
	cb.Name = p.str(name)

	if p.scanner.Check(TokenColon) && p.scanner.PeekAt(1).Kind == TokenRegister {
		p.scanner.Advance()
		p.scanner.Advance()
		text, ok := p.parseParenthesizedText()
		if !ok {
			return nil, ResultError
		}
		cb.Register = text
	}

	if !p.expect(TokenLeftBrace) {
		return nil, ResultError
	}
	for !p.scanner.MatchToken(TokenRightBrace) {
		if !p.scanner.HasMoreTokens() {
			p.scanner.SourceError("'}' expected")
			return nil, ResultError
		}
		member, res := p.parseGeneralDeclaration(cbufferMemberFlags)
		if res != ResultMatched {
			return nil, p.expected(res, "Expected constant buffer member declaration!")
		}
		cb.Members = append(cb.Members, member)
	}
	p.scanner.MatchToken(TokenSemicolon)

	cb.Span = p.span(start)
	return cb, ResultMatched
}

// parseFunctionDeclaration parses a function definition. It returns
// NotMatched, with the scanner restored, unless the input starts with
// `Type Name (`.
func (p *Parser) parseFunctionDeclaration() (*FunctionDefinition, ParseResult) {
	cp := p.scanner.Checkpoint()
	start := p.scanner.Peek().Pos

	retSpec, res := p.parseTypeSpecifier(DeclAllowVoid | DeclAllowResources)
	if res != ResultMatched {
		p.scanner.Restore(cp)
		return nil, res
	}
	nameTok := p.scanner.Peek()
	if nameTok.Kind != TokenIdentifier || p.scanner.PeekAt(1).Kind != TokenLeftParen {
		p.scanner.Restore(cp)
		return nil, ResultNotMatched
	}
	p.scanner.Advance()
	p.scanner.Advance()

	leave := p.enterScope()
	defer leave()

	fn := arena.New[Function](p.alloc)
	fn.ReturnType = p.newFullySpecifiedType(start, 0, retSpec)
	fn.Identifier = p.str(nameTok.Lexeme)

	if p.scanner.Check(TokenVoid) && p.scanner.PeekAt(1).Kind == TokenRightParen {
		p.scanner.Advance()
	}
	for !p.scanner.Check(TokenRightParen) {
		param, res := p.parseParameter()
		if res != ResultMatched {
			return nil, p.expected(res, "Expected parameter declaration!")
		}
		fn.Parameters = append(fn.Parameters, param)
		if !p.scanner.MatchToken(TokenComma) {
			break
		}
	}
	if !p.expect(TokenRightParen) {
		return nil, ResultError
	}

	if p.scanner.MatchToken(TokenColon) {
		semantic, ok := p.scanner.MatchIdentifier()
		if !ok {
			p.scanner.SourceError("Expected semantic!")
			return nil, ResultError
		}
		fn.ReturnSemantic = p.str(semantic)
	}
	fn.Span = p.span(start)

	if p.scanner.Check(TokenSemicolon) {
		p.scanner.SourceError("function forward declarations are not supported")
		return nil, ResultError
	}
	if !p.scanner.Check(TokenLeftBrace) {
		p.scanner.SourceError("'{' expected")
		return nil, ResultError
	}

	body, res := p.parseCompoundStatement()
	if res != ResultMatched {
		return nil, ResultError
	}

	def := arena.New[FunctionDefinition](p.alloc)
	def.Prototype = fn
	def.Body = body
	def.Span = p.span(start)
	return def, ResultMatched
}

// parseParameter parses one parameter with the declaration grammar.
func (p *Parser) parseParameter() (*ParameterDeclarator, ParseResult) {
	start := p.scanner.Peek().Pos

	qualifier, res := p.parseTypeQualifiers(parameterFlags)
	if res == ResultError {
		return nil, res
	}
	spec, res := p.parseTypeSpecifier(parameterFlags)
	if res != ResultMatched {
		return nil, p.expected(res, "Expected type!")
	}

	decl, res := p.parseDeclarator(parameterFlags)
	if res != ResultMatched {
		return nil, p.expected(res, "Expected identifier!")
	}

	param := arena.New[ParameterDeclarator](p.alloc)
	param.Type = p.newFullySpecifiedType(start, qualifier, spec)
	param.Declaration = decl
	param.Span = p.span(start)
	return param, ResultMatched
}
