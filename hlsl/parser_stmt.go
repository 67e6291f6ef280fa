// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"github.com/gogpu/hlslcc/arena"
)

// parseStatement parses one statement with its leading attributes.
func (p *Parser) parseStatement() (Node, ParseResult) {
	attrs, res := p.parseAttributes()
	if res == ResultError {
		return nil, res
	}

	stmt, res := p.parseUnattributedStatement()
	if res != ResultMatched {
		return nil, res
	}
	if len(attrs) > 0 {
		stmt.setAttrs(attrs)
	}
	return stmt, ResultMatched
}

func (p *Parser) parseUnattributedStatement() (Node, ParseResult) {
	tok := p.scanner.Peek()

	switch tok.Kind {
	case TokenLeftBrace:
		return p.parseCompoundStatement()
	case TokenIf:
		return p.parseSelectionStatement()
	case TokenFor:
		return p.parseForStatement()
	case TokenWhile:
		return p.parseWhileStatement()
	case TokenDo:
		return p.parseDoWhileStatement()
	case TokenSwitch:
		return p.parseSwitchStatement()
	case TokenReturn, TokenBreak, TokenContinue, TokenDiscard:
		return p.parseJumpStatement()
	case TokenPragma:
		return p.parsePragma(), ResultMatched
	case TokenSemicolon:
		p.scanner.Advance()
		empty := arena.New[EmptyStatement](p.alloc)
		empty.Span = p.span(tok.Pos)
		return empty, ResultMatched
	case TokenEOF:
		p.scanner.SourceError("Unexpected end of file")
		return nil, ResultError
	}

	decl, res := p.parseGeneralDeclaration(localDeclFlags)
	if res != ResultNotMatched {
		return decl, res
	}

	return p.parseExpressionStatement()
}

func (p *Parser) parseExpressionStatement() (*ExpressionStatement, ParseResult) {
	start := p.scanner.Peek().Pos
	expr, res := p.parseExpression()
	if res != ResultMatched {
		return nil, p.expected(res, "Expected statement!")
	}
	if !p.expect(TokenSemicolon) {
		return nil, ResultError
	}
	stmt := arena.New[ExpressionStatement](p.alloc)
	stmt.Expression = expr
	stmt.Span = p.span(start)
	return stmt, ResultMatched
}

// parseCompoundStatement parses `{ statements }` in its own scope.
func (p *Parser) parseCompoundStatement() (*CompoundStatement, ParseResult) {
	start := p.scanner.Peek().Pos
	if !p.expect(TokenLeftBrace) {
		return nil, ResultError
	}

	leave := p.enterScope()
	defer leave()

	block := arena.New[CompoundStatement](p.alloc)
	for !p.scanner.MatchToken(TokenRightBrace) {
		stmt, res := p.parseStatement()
		if res != ResultMatched {
			return nil, p.expected(res, "Expected statement!")
		}
		block.Statements = append(block.Statements, stmt)
	}

	block.Span = p.span(start)
	return block, ResultMatched
}

// parseCondition parses `( expression )`.
func (p *Parser) parseCondition() (*Expression, ParseResult) {
	if !p.expect(TokenLeftParen) {
		return nil, ResultError
	}
	cond, res := p.parseExpression()
	if res != ResultMatched {
		return nil, p.expected(res, "Expected expression!")
	}
	if !p.expect(TokenRightParen) {
		return nil, ResultError
	}
	return cond, ResultMatched
}

func (p *Parser) parseSelectionStatement() (*SelectionStatement, ParseResult) {
	start := p.scanner.Advance().Pos

	leave := p.enterScope()
	defer leave()

	cond, res := p.parseCondition()
	if res != ResultMatched {
		return nil, res
	}

	then, res := p.parseStatement()
	if res != ResultMatched {
		return nil, p.expected(res, "Expected statement!")
	}

	stmt := arena.New[SelectionStatement](p.alloc)
	stmt.Condition = cond
	stmt.ThenStatement = then

	if p.scanner.MatchToken(TokenElse) {
		otherwise, res := p.parseStatement()
		if res != ResultMatched {
			return nil, p.expected(res, "Expected statement!")
		}
		stmt.ElseStatement = otherwise
	}

	stmt.Span = p.span(start)
	return stmt, ResultMatched
}

func (p *Parser) parseForStatement() (*IterationStatement, ParseResult) {
	start := p.scanner.Advance().Pos

	leave := p.enterScope()
	defer leave()

	if !p.expect(TokenLeftParen) {
		return nil, ResultError
	}

	loop := arena.New[IterationStatement](p.alloc)
	loop.Kind = IterationFor

	if !p.scanner.MatchToken(TokenSemicolon) {
		decl, res := p.parseGeneralDeclaration(localDeclFlags &^ DeclAllowStruct)
		switch res {
		case ResultError:
			return nil, res
		case ResultMatched:
			loop.InitStatement = decl
		default:
			init, res := p.parseExpressionStatement()
			if res != ResultMatched {
				return nil, res
			}
			loop.InitStatement = init
		}
	}

	if !p.scanner.MatchToken(TokenSemicolon) {
		cond, res := p.parseExpression()
		if res != ResultMatched {
			return nil, p.expected(res, "Expected expression!")
		}
		if !p.expect(TokenSemicolon) {
			return nil, ResultError
		}
		loop.Condition = cond
	}

	if !p.scanner.MatchToken(TokenRightParen) {
		rest, res := p.parseExpression()
		if res != ResultMatched {
			return nil, p.expected(res, "Expected expression!")
		}
		if !p.expect(TokenRightParen) {
			return nil, ResultError
		}
		loop.RestExpression = rest
	}

	body, res := p.parseStatement()
	if res != ResultMatched {
		return nil, p.expected(res, "Expected statement!")
	}
	loop.Body = body
	loop.Span = p.span(start)
	return loop, ResultMatched
}

func (p *Parser) parseWhileStatement() (*IterationStatement, ParseResult) {
	start := p.scanner.Advance().Pos

	leave := p.enterScope()
	defer leave()

	cond, res := p.parseCondition()
	if res != ResultMatched {
		return nil, res
	}
	body, res := p.parseStatement()
	if res != ResultMatched {
		return nil, p.expected(res, "Expected statement!")
	}

	loop := arena.New[IterationStatement](p.alloc)
	loop.Kind = IterationWhile
	loop.Condition = cond
	loop.Body = body
	loop.Span = p.span(start)
	return loop, ResultMatched
}

func (p *Parser) parseDoWhileStatement() (*IterationStatement, ParseResult) {
	start := p.scanner.Advance().Pos

	leave := p.enterScope()
	defer leave()

	body, res := p.parseStatement()
	if res != ResultMatched {
		return nil, p.expected(res, "Expected statement!")
	}
	if !p.expect(TokenWhile) {
		return nil, ResultError
	}
	cond, res := p.parseCondition()
	if res != ResultMatched {
		return nil, res
	}
	if !p.expect(TokenSemicolon) {
		return nil, ResultError
	}

	loop := arena.New[IterationStatement](p.alloc)
	loop.Kind = IterationDoWhile
	loop.Condition = cond
	loop.Body = body
	loop.Span = p.span(start)
	return loop, ResultMatched
}

func (p *Parser) parseSwitchStatement() (*SwitchStatement, ParseResult) {
	start := p.scanner.Advance().Pos

	leave := p.enterScope()
	defer leave()

	cond, res := p.parseCondition()
	if res != ResultMatched {
		return nil, res
	}

	body, res := p.parseSwitchBody()
	if res != ResultMatched {
		return nil, res
	}

	stmt := arena.New[SwitchStatement](p.alloc)
	stmt.Condition = cond
	stmt.Body = body
	stmt.Span = p.span(start)
	return stmt, ResultMatched
}

// parseSwitchBody parses `{ case ...: ... default: ... }`. Only one
// default label is accepted.
func (p *Parser) parseSwitchBody() (*SwitchBody, ParseResult) {
	start := p.scanner.Peek().Pos
	if !p.expect(TokenLeftBrace) {
		return nil, ResultError
	}

	body := arena.New[SwitchBody](p.alloc)
	seenDefault := false

	for !p.scanner.MatchToken(TokenRightBrace) {
		caseStart := p.scanner.Peek().Pos
		cs := arena.New[CaseStatement](p.alloc)

		for p.scanner.Check(TokenCase) || p.scanner.Check(TokenDefault) {
			labelTok := p.scanner.Advance()
			label := arena.New[CaseLabel](p.alloc)
			if labelTok.Kind == TokenDefault {
				if seenDefault {
					p.messages.SourceError(labelTok.Pos, "'default' found twice on switch() statement!")
					return nil, ResultError
				}
				seenDefault = true
			} else {
				test, res := p.parseAssignmentExpression()
				if res != ResultMatched {
					return nil, p.expected(res, "Expected expression!")
				}
				label.TestExpression = test
			}
			if !p.expect(TokenColon) {
				return nil, ResultError
			}
			label.Span = p.span(labelTok.Pos)
			cs.Labels = append(cs.Labels, label)
		}

		if len(cs.Labels) == 0 {
			p.scanner.SourceError("'case' or 'default' expected")
			return nil, ResultError
		}

		for !p.scanner.Check(TokenCase) && !p.scanner.Check(TokenDefault) && !p.scanner.Check(TokenRightBrace) {
			stmt, res := p.parseStatement()
			if res != ResultMatched {
				return nil, p.expected(res, "Expected statement!")
			}
			cs.Statements = append(cs.Statements, stmt)
		}

		cs.Span = p.span(caseStart)
		body.Cases = append(body.Cases, cs)
	}

	body.Span = p.span(start)
	return body, ResultMatched
}

func (p *Parser) parseJumpStatement() (*JumpStatement, ParseResult) {
	tok := p.scanner.Advance()
	jump := arena.New[JumpStatement](p.alloc)

	switch tok.Kind {
	case TokenReturn:
		jump.Kind = JumpReturn
		if !p.scanner.Check(TokenSemicolon) {
			expr, res := p.parseExpression()
			if res != ResultMatched {
				return nil, p.expected(res, "Expected expression!")
			}
			jump.OptionalExpression = expr
		}
	case TokenBreak:
		jump.Kind = JumpBreak
	case TokenContinue:
		jump.Kind = JumpContinue
	case TokenDiscard:
		jump.Kind = JumpDiscard
	}

	if !p.expect(TokenSemicolon) {
		return nil, ResultError
	}
	jump.Span = p.span(tok.Pos)
	return jump, ResultMatched
}
