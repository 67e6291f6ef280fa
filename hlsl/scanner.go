// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// Checkpoint is a saved scanner position.
type Checkpoint int

// Scanner is a cursor over a lexed token array. It supports arbitrary
// lookahead and backtracking through checkpoints.
type Scanner struct {
	tokens   []Token
	current  int
	messages *CompilerMessages
}

// NewScanner creates a scanner over tokens. The slice must end with a
// TokenEOF token, as produced by Lex.
func NewScanner(tokens []Token, messages *CompilerMessages) *Scanner {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != TokenEOF {
		tokens = append(tokens, Token{Kind: TokenEOF})
	}
	if messages == nil {
		messages = &CompilerMessages{}
	}
	return &Scanner{tokens: tokens, messages: messages}
}

// Checkpoint saves the current position.
func (s *Scanner) Checkpoint() Checkpoint {
	return Checkpoint(s.current)
}

// Restore rewinds the scanner to a saved position.
func (s *Scanner) Restore(cp Checkpoint) {
	s.current = int(cp)
}

// HasMoreTokens reports whether any token other than EOF remains.
func (s *Scanner) HasMoreTokens() bool {
	return s.tokens[s.current].Kind != TokenEOF
}

// Peek returns the current token without consuming it.
func (s *Scanner) Peek() Token {
	return s.tokens[s.current]
}

// PeekAt returns the token n positions ahead. Past the end it returns EOF.
func (s *Scanner) PeekAt(n int) Token {
	i := s.current + n
	if i < 0 {
		i = 0
	}
	if i >= len(s.tokens) {
		return s.tokens[len(s.tokens)-1]
	}
	return s.tokens[i]
}

// Previous returns the most recently consumed token.
func (s *Scanner) Previous() Token {
	if s.current == 0 {
		return s.tokens[0]
	}
	return s.tokens[s.current-1]
}

// Advance consumes and returns the current token. EOF is never consumed.
func (s *Scanner) Advance() Token {
	tok := s.tokens[s.current]
	if tok.Kind != TokenEOF {
		s.current++
	}
	return tok
}

// Check reports whether the current token has the given kind.
func (s *Scanner) Check(kind TokenKind) bool {
	return s.tokens[s.current].Kind == kind
}

// MatchToken consumes the current token if it has the given kind.
func (s *Scanner) MatchToken(kind TokenKind) bool {
	if !s.Check(kind) {
		return false
	}
	s.Advance()
	return true
}

// MatchIdentifier consumes an identifier and returns its text.
func (s *Scanner) MatchIdentifier() (string, bool) {
	if !s.Check(TokenIdentifier) {
		return "", false
	}
	return s.Advance().Lexeme, true
}

// SourceError records an error at the current token.
func (s *Scanner) SourceError(text string) {
	s.messages.SourceError(s.Peek().Pos, text)
}

// SourceErrorf records a formatted error at the current token.
func (s *Scanner) SourceErrorf(format string, args ...any) {
	s.SourceError(fmt.Sprintf(format, args...))
}

// Messages returns the diagnostic sink the scanner reports to.
func (s *Scanner) Messages() *CompilerMessages {
	return s.messages
}
