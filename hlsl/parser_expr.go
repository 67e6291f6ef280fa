// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"github.com/gogpu/hlslcc/arena"
)

// binaryOperators maps infix tokens to operators and their precedence.
// Higher binds tighter.
var binaryOperators = map[TokenKind]struct {
	op   Operator
	prec int
}{
	TokenOrOr:           {OpLogicalOr, 1},
	TokenAndAnd:         {OpLogicalAnd, 2},
	TokenOr:             {OpBitOr, 3},
	TokenXor:            {OpBitXor, 4},
	TokenAnd:            {OpBitAnd, 5},
	TokenEqualEqual:     {OpEqual, 6},
	TokenNotEqual:       {OpNotEqual, 6},
	TokenLower:          {OpLess, 7},
	TokenGreater:        {OpGreater, 7},
	TokenLowerEqual:     {OpLessEqual, 7},
	TokenGreaterEqual:   {OpGreaterEqual, 7},
	TokenLowerLower:     {OpShl, 8},
	TokenGreaterGreater: {OpShr, 8},
	TokenPlus:           {OpAdd, 9},
	TokenMinus:          {OpSub, 9},
	TokenTimes:          {OpMul, 10},
	TokenDiv:            {OpDiv, 10},
	TokenMod:            {OpMod, 10},
}

var assignmentOperators = map[TokenKind]Operator{
	TokenEqual:               OpAssign,
	TokenTimesEqual:          OpMulAssign,
	TokenDivEqual:            OpDivAssign,
	TokenModEqual:            OpModAssign,
	TokenPlusEqual:           OpAddAssign,
	TokenMinusEqual:          OpSubAssign,
	TokenLowerLowerEqual:     OpShlAssign,
	TokenGreaterGreaterEqual: OpShrAssign,
	TokenAndEqual:            OpAndAssign,
	TokenXorEqual:            OpXorAssign,
	TokenOrEqual:             OpOrAssign,
}

var unaryOperators = map[TokenKind]Operator{
	TokenPlus:       OpPlus,
	TokenMinus:      OpNegate,
	TokenNot:        OpLogicalNot,
	TokenNeg:        OpBitNot,
	TokenPlusPlus:   OpPreInc,
	TokenMinusMinus: OpPreDec,
}

// parseExpression parses a full expression including the comma operator.
func (p *Parser) parseExpression() (*Expression, ParseResult) {
	start := p.scanner.Peek().Pos
	lhs, res := p.parseAssignmentExpression()
	if res != ResultMatched {
		return nil, res
	}
	for p.scanner.MatchToken(TokenComma) {
		rhs, res := p.parseAssignmentExpression()
		if res != ResultMatched {
			return nil, p.expected(res, "Expected expression!")
		}
		lhs = p.newBinary(start, OpComma, lhs, rhs)
	}
	return lhs, ResultMatched
}

// parseAssignmentExpression parses an expression without top-level commas.
// Assignment is right-associative.
func (p *Parser) parseAssignmentExpression() (*Expression, ParseResult) {
	start := p.scanner.Peek().Pos
	lhs, res := p.parseConditionalExpression()
	if res != ResultMatched {
		return nil, res
	}

	op, ok := assignmentOperators[p.scanner.Peek().Kind]
	if !ok {
		return lhs, ResultMatched
	}
	p.scanner.Advance()

	rhs, res := p.parseAssignmentExpression()
	if res != ResultMatched {
		return nil, p.expected(res, "Expected expression!")
	}
	return p.newBinary(start, op, lhs, rhs), ResultMatched
}

func (p *Parser) parseConditionalExpression() (*Expression, ParseResult) {
	start := p.scanner.Peek().Pos
	cond, res := p.parseBinaryExpression(1)
	if res != ResultMatched || !p.scanner.MatchToken(TokenQuestion) {
		return cond, res
	}

	then, res := p.parseAssignmentExpression()
	if res != ResultMatched {
		return nil, p.expected(res, "Expected expression!")
	}
	if !p.expect(TokenColon) {
		return nil, ResultError
	}
	otherwise, res := p.parseAssignmentExpression()
	if res != ResultMatched {
		return nil, p.expected(res, "Expected expression!")
	}

	e := arena.New[Expression](p.alloc)
	e.Operator = OpConditional
	e.SubExpressions = [3]*Expression{cond, then, otherwise}
	e.Span = p.span(start)
	return e, ResultMatched
}

// parseBinaryExpression is precedence climbing over binaryOperators.
func (p *Parser) parseBinaryExpression(minPrec int) (*Expression, ParseResult) {
	start := p.scanner.Peek().Pos
	lhs, res := p.parseUnaryExpression()
	if res != ResultMatched {
		return nil, res
	}

	for {
		entry, ok := binaryOperators[p.scanner.Peek().Kind]
		if !ok || entry.prec < minPrec {
			return lhs, ResultMatched
		}
		p.scanner.Advance()

		rhs, res := p.parseBinaryExpression(entry.prec + 1)
		if res != ResultMatched {
			return nil, p.expected(res, "Expected expression!")
		}
		lhs = p.newBinary(start, entry.op, lhs, rhs)
	}
}

func (p *Parser) parseUnaryExpression() (*Expression, ParseResult) {
	tok := p.scanner.Peek()

	if op, ok := unaryOperators[tok.Kind]; ok {
		p.scanner.Advance()
		operand, res := p.parseUnaryExpression()
		if res != ResultMatched {
			return nil, p.expected(res, "Expected expression!")
		}
		e := arena.New[Expression](p.alloc)
		e.Operator = op
		e.SubExpressions[0] = operand
		e.Span = p.span(tok.Pos)
		return e, ResultMatched
	}

	if tok.Kind == TokenLeftParen {
		cast, res := p.tryParseCast()
		if res != ResultNotMatched {
			return cast, res
		}
	}

	return p.parsePostfixExpression()
}

// tryParseCast parses `(type)operand`. It returns NotMatched with the
// scanner restored when the parentheses do not hold just a type.
func (p *Parser) tryParseCast() (*Expression, ParseResult) {
	cp := p.scanner.Checkpoint()
	start := p.scanner.Advance().Pos

	spec, res := p.parseTypeSpecifier(0)
	if res != ResultMatched || !p.scanner.MatchToken(TokenRightParen) {
		p.scanner.Restore(cp)
		return nil, ResultNotMatched
	}

	operand, res := p.parseUnaryExpression()
	if res != ResultMatched {
		return nil, p.expected(res, "Expected expression!")
	}

	e := arena.New[Expression](p.alloc)
	e.Operator = OpTypeCast
	e.TypeSpecifier = spec
	e.SubExpressions[0] = operand
	e.Span = p.span(start)
	return e, ResultMatched
}

func (p *Parser) parsePostfixExpression() (*Expression, ParseResult) {
	start := p.scanner.Peek().Pos
	expr, res := p.parsePrimaryExpression()
	if res != ResultMatched {
		return nil, res
	}

	for {
		switch p.scanner.Peek().Kind {
		case TokenLeftBracket:
			p.scanner.Advance()
			index, res := p.parseExpression()
			if res != ResultMatched {
				return nil, p.expected(res, "Expected expression!")
			}
			if !p.expect(TokenRightBracket) {
				return nil, ResultError
			}
			expr = p.newBinary(start, OpArrayIndex, expr, index)

		case TokenDot:
			p.scanner.Advance()
			field, ok := p.scanner.MatchIdentifier()
			if !ok {
				p.scanner.SourceError("Expected identifier!")
				return nil, ResultError
			}
			e := arena.New[Expression](p.alloc)
			e.Operator = OpFieldSelection
			e.SubExpressions[0] = expr
			e.Identifier = p.str(field)
			e.Span = p.span(start)
			expr = e

		case TokenLeftParen:
			p.scanner.Advance()
			call, res := p.parseCallArguments(start, expr)
			if res != ResultMatched {
				return nil, res
			}
			expr = call

		case TokenPlusPlus, TokenMinusMinus:
			op := OpPostInc
			if p.scanner.Advance().Kind == TokenMinusMinus {
				op = OpPostDec
			}
			e := arena.New[Expression](p.alloc)
			e.Operator = op
			e.SubExpressions[0] = expr
			e.Span = p.span(start)
			expr = e

		default:
			return expr, ResultMatched
		}
	}
}

// parseCallArguments parses the arguments after an opening parenthesis.
func (p *Parser) parseCallArguments(start Position, callee *Expression) (*Expression, ParseResult) {
	call := arena.New[Expression](p.alloc)
	call.Operator = OpFunctionCall
	call.SubExpressions[0] = callee

	for !p.scanner.Check(TokenRightParen) {
		arg, res := p.parseAssignmentExpression()
		if res != ResultMatched {
			return nil, p.expected(res, "Expected expression!")
		}
		call.Expressions = append(call.Expressions, arg)
		if !p.scanner.MatchToken(TokenComma) {
			break
		}
	}
	if !p.expect(TokenRightParen) {
		return nil, ResultError
	}

	call.Span = p.span(start)
	return call, ResultMatched
}

func (p *Parser) parsePrimaryExpression() (*Expression, ParseResult) {
	tok := p.scanner.Peek()

	switch tok.Kind {
	case TokenUintConstant, TokenFloatConstant, TokenBoolConstant:
		p.scanner.Advance()
		e := arena.New[Expression](p.alloc)
		switch tok.Kind {
		case TokenUintConstant:
			e.Operator = OpUintConstant
		case TokenFloatConstant:
			e.Operator = OpFloatConstant
		default:
			e.Operator = OpBoolConstant
		}
		e.Lexeme = p.str(tok.Lexeme)
		e.UintValue = tok.UintValue
		e.FloatValue = tok.FloatValue
		e.BoolValue = tok.BoolValue
		e.Span = p.span(tok.Pos)
		return e, ResultMatched

	case TokenIdentifier, TokenColonColon:
		name, n := p.peekQualifiedName()
		if tok.Kind == TokenColonColon {
			if p.scanner.PeekAt(1).Kind != TokenIdentifier {
				return nil, ResultNotMatched
			}
			name, n = p.peekQualifiedNameAt(1)
			name = "::" + name
			n++
		}
		for i := 0; i < n; i++ {
			p.scanner.Advance()
		}
		return p.newIdentifier(tok.Pos, name), ResultMatched

	case TokenBasicType:
		// Type constructor: float3(...)
		p.scanner.Advance()
		if !p.scanner.Check(TokenLeftParen) {
			p.scanner.SourceError("'(' expected")
			return nil, ResultError
		}
		p.scanner.Advance()
		return p.parseCallArguments(tok.Pos, p.newIdentifier(tok.Pos, tok.Lexeme))

	case TokenLeftParen:
		p.scanner.Advance()
		inner, res := p.parseExpression()
		if res != ResultMatched {
			return nil, p.expected(res, "Expected expression!")
		}
		if !p.expect(TokenRightParen) {
			return nil, ResultError
		}
		return inner, ResultMatched
	}

	return nil, ResultNotMatched
}

// peekQualifiedNameAt is peekQualifiedName starting offset tokens ahead.
func (p *Parser) peekQualifiedNameAt(offset int) (string, int) {
	name := p.scanner.PeekAt(offset).Lexeme
	n := 1
	for p.scanner.PeekAt(offset+n).Kind == TokenColonColon && p.scanner.PeekAt(offset+n+1).Kind == TokenIdentifier {
		name += "::" + p.scanner.PeekAt(offset+n+1).Lexeme
		n += 2
	}
	return name, n
}

func (p *Parser) newIdentifier(start Position, name string) *Expression {
	e := arena.New[Expression](p.alloc)
	e.Operator = OpIdentifier
	e.Identifier = p.str(name)
	e.Span = p.span(start)
	return e
}

func (p *Parser) newBinary(start Position, op Operator, lhs, rhs *Expression) *Expression {
	e := arena.New[Expression](p.alloc)
	e.Operator = op
	e.SubExpressions[0] = lhs
	e.SubExpressions[1] = rhs
	e.Span = p.span(start)
	return e
}
