// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScannerCheckpointRestore(t *testing.T) {
	s := NewScanner(lex(t, "float a = b;"), nil)

	cp := s.Checkpoint()
	assert.True(t, s.MatchToken(TokenBasicType))
	name, ok := s.MatchIdentifier()
	require.True(t, ok)
	assert.Equal(t, "a", name)
	assert.Equal(t, "a", s.Previous().Lexeme)

	s.Restore(cp)
	assert.Equal(t, TokenBasicType, s.Peek().Kind)
	assert.Equal(t, TokenEqual, s.PeekAt(2).Kind)
	assert.Equal(t, TokenEOF, s.PeekAt(100).Kind)
}

func TestScannerStopsAtEOF(t *testing.T) {
	s := NewScanner(lex(t, "x"), nil)
	assert.True(t, s.HasMoreTokens())
	s.Advance()
	assert.False(t, s.HasMoreTokens())

	assert.Equal(t, TokenEOF, s.Advance().Kind)
	assert.Equal(t, TokenEOF, s.Advance().Kind)
	assert.False(t, s.MatchToken(TokenIdentifier))
	_, ok := s.MatchIdentifier()
	assert.False(t, ok)
}

func TestScannerAppendsEOF(t *testing.T) {
	s := NewScanner([]Token{{Kind: TokenIdentifier, Lexeme: "a"}}, nil)
	s.Advance()
	assert.Equal(t, TokenEOF, s.Peek().Kind)

	empty := NewScanner(nil, nil)
	assert.False(t, empty.HasMoreTokens())
}

func TestScannerSourceError(t *testing.T) {
	var messages CompilerMessages
	s := NewScanner(lex(t, "a\n  b"), &messages)
	s.Advance()
	s.SourceErrorf("unexpected %s", s.Peek())

	require.Len(t, messages.Errors(), 1)
	assert.Equal(t, "test.usf(2): (3) unexpected b\n", messages.Errors()[0])
	assert.Same(t, &messages, s.Messages())
}
