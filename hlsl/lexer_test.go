// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lex(t *testing.T, source string) []Token {
	t.Helper()
	var messages CompilerMessages
	tokens, ok := Lex(source, "test.usf", &messages)
	require.True(t, ok, "lex failed: %s", messages.String())
	return tokens
}

func kinds(tokens []Token) []TokenKind {
	out := make([]TokenKind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestLexNumericLiterals(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
		uint  uint32
		float float32
	}{
		{"0", TokenUintConstant, 0, 0},
		{"123", TokenUintConstant, 123, 123},
		{"0x1F", TokenUintConstant, 31, 31},
		{"017", TokenUintConstant, 15, 15},
		{"1.0", TokenFloatConstant, 0, 1},
		{".5", TokenFloatConstant, 0, 0.5},
		{"1.", TokenFloatConstant, 0, 1},
		{"1e10", TokenFloatConstant, 0, 1e10},
		{"1.5f", TokenFloatConstant, 0, 1.5},
		{"1u", TokenUintConstant, 1, 1},
		{"2.5h", TokenFloatConstant, 0, 2.5},
		{"3e-2", TokenFloatConstant, 0, 3e-2},
		{"0xffU", TokenUintConstant, 255, 255},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := lex(t, tt.input)
			require.Len(t, tokens, 2)
			tok := tokens[0]
			assert.Equal(t, tt.kind, tok.Kind)
			assert.Equal(t, tt.input, tok.Lexeme)
			assert.Equal(t, tt.float, tok.FloatValue)
			if tt.kind == TokenUintConstant {
				assert.Equal(t, tt.uint, tok.UintValue)
			}
			assert.Equal(t, TokenEOF, tokens[1].Kind)
		})
	}
}

func TestLexSwizzleAfterInteger(t *testing.T) {
	tokens := lex(t, "1.rr")
	assert.Equal(t, []TokenKind{TokenUintConstant, TokenDot, TokenIdentifier, TokenEOF}, kinds(tokens))
	assert.Equal(t, uint32(1), tokens[0].UintValue)
	assert.Equal(t, "rr", tokens[2].Lexeme)

	tokens = lex(t, "1.0.xyz")
	assert.Equal(t, []TokenKind{TokenFloatConstant, TokenDot, TokenIdentifier, TokenEOF}, kinds(tokens))
}

func TestLexInvalidNumbers(t *testing.T) {
	for _, input := range []string{"0x", "09", "12abc", "99999999999"} {
		t.Run(input, func(t *testing.T) {
			var messages CompilerMessages
			_, ok := Lex(input, "test.usf", &messages)
			assert.False(t, ok)
			assert.True(t, messages.HasErrors())
		})
	}
}

func TestLexKeywordsAndIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		kind  TokenKind
	}{
		{"Texture1DSampleLevel", TokenIdentifier},
		{"Texture1D", TokenTexture1D},
		{"Texture1DArray", TokenTexture1DArray},
		{"float4x4", TokenBasicType},
		{"float4x4Foo", TokenIdentifier},
		{"half3", TokenBasicType},
		{"min16float2", TokenBasicType},
		{"inout", TokenInOut},
		{"input", TokenIdentifier},
		{"SV_Target0", TokenIdentifier},
		{"cbuffer", TokenCBuffer},
		{"_private", TokenIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens := lex(t, tt.input)
			require.Len(t, tokens, 2)
			assert.Equal(t, tt.kind, tokens[0].Kind)
			assert.Equal(t, tt.input, tokens[0].Lexeme)
		})
	}
}

func TestLexBooleans(t *testing.T) {
	tokens := lex(t, "true false")
	require.Len(t, tokens, 3)
	assert.Equal(t, TokenBoolConstant, tokens[0].Kind)
	assert.True(t, tokens[0].BoolValue)
	assert.Equal(t, TokenBoolConstant, tokens[1].Kind)
	assert.False(t, tokens[1].BoolValue)
}

func TestLexOperators(t *testing.T) {
	tokens := lex(t, "a += b <<= c :: d >>= e != f && g || h")
	assert.Equal(t, []TokenKind{
		TokenIdentifier, TokenPlusEqual, TokenIdentifier, TokenLowerLowerEqual,
		TokenIdentifier, TokenColonColon, TokenIdentifier, TokenGreaterGreaterEqual,
		TokenIdentifier, TokenNotEqual, TokenIdentifier, TokenAndAnd,
		TokenIdentifier, TokenOrOr, TokenIdentifier, TokenEOF,
	}, kinds(tokens))
}

func TestLexCommentsAndPositions(t *testing.T) {
	tokens := lex(t, "a // comment\n/* multi\nline */ b\n  c")
	require.Len(t, tokens, 4)

	assert.Equal(t, Position{File: "test.usf", Line: 1, Column: 1}, tokens[0].Pos)
	assert.Equal(t, Position{File: "test.usf", Line: 3, Column: 9}, tokens[1].Pos)
	assert.Equal(t, Position{File: "test.usf", Line: 4, Column: 3}, tokens[2].Pos)
}

func TestLexStringLiteral(t *testing.T) {
	tokens := lex(t, `[domain("tri")] "a\"b"`)
	assert.Equal(t, []TokenKind{
		TokenLeftBracket, TokenIdentifier, TokenLeftParen, TokenStringConstant,
		TokenRightParen, TokenRightBracket, TokenStringConstant, TokenEOF,
	}, kinds(tokens))
	assert.Equal(t, "tri", tokens[3].Lexeme)
	assert.Equal(t, `a\"b`, tokens[6].Lexeme)
}

func TestLexPreprocessorResidue(t *testing.T) {
	source := "#line 10 \"Foo.usf\"\n" +
		"float x;\n" +
		"#pragma once\n" +
		"#if 0\n" +
		"#if 1\n" +
		"garbage $\n" +
		"#endif\n" +
		"#endif\n" +
		"int y;\n"

	var messages CompilerMessages
	tokens, ok := Lex(source, "test.usf", &messages)
	require.True(t, ok, messages.String())
	assert.Empty(t, messages.Messages)

	assert.Equal(t, []TokenKind{
		TokenBasicType, TokenIdentifier, TokenSemicolon,
		TokenPragma,
		TokenBasicType, TokenIdentifier, TokenSemicolon,
		TokenEOF,
	}, kinds(tokens))

	assert.Equal(t, Position{File: "Foo.usf", Line: 10, Column: 1}, tokens[0].Pos)
	assert.Equal(t, "#pragma once", tokens[3].Lexeme)
	assert.Equal(t, 11, tokens[3].Pos.Line)
	assert.Equal(t, 17, tokens[4].Pos.Line)
}

func TestLexMalformedLineDirective(t *testing.T) {
	tests := []struct {
		name   string
		source string
		line   int
	}{
		{"not a number", "#line foo\nint\n", 2},
		{"negative", "#line -3 \"A.usf\"\n\nint\n", 3},
		{"well formed", "#line 10\nint\n", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var messages CompilerMessages
			tokens, ok := Lex(tt.source, "test.usf", &messages)
			require.True(t, ok, messages.String())
			require.Len(t, tokens, 2)
			assert.Equal(t, Position{File: "test.usf", Line: tt.line, Column: 1}, tokens[0].Pos)
		})
	}
}

func TestLexMalformedLineDirectiveError(t *testing.T) {
	var messages CompilerMessages
	_, ok := Lex("#line x\nint $", "test.usf", &messages)
	require.False(t, ok)
	assert.Equal(t, []string{"test.usf(1): (1) Malformed #line directive\n"}, messages.Warnings())
	assert.Equal(t, []string{"test.usf(2): (5) Unknown token '$'\n"}, messages.Errors())
}

func TestLexUnhandledDirectiveWarns(t *testing.T) {
	var messages CompilerMessages
	tokens, ok := Lex("#define X 1\nfloat a;", "test.usf", &messages)
	require.True(t, ok)
	assert.False(t, messages.HasErrors())
	require.Len(t, messages.Warnings(), 1)
	assert.Equal(t, "test.usf(1): (1) Unhandled preprocessor directive '#define'\n", messages.Warnings()[0])
	assert.Equal(t, []TokenKind{TokenBasicType, TokenIdentifier, TokenSemicolon, TokenEOF}, kinds(tokens))
}

func TestLexUnterminatedDisabledBlockWarns(t *testing.T) {
	var messages CompilerMessages
	tokens, ok := Lex("float a;\n#if 0\nfloat b;\n", "test.usf", &messages)
	require.True(t, ok)
	assert.Len(t, messages.Warnings(), 1)
	assert.Len(t, tokens, 4)
}

func TestLexUnknownCharacterFails(t *testing.T) {
	var messages CompilerMessages
	tokens, ok := Lex("float $x;", "test.usf", &messages)
	assert.False(t, ok)
	assert.Nil(t, tokens)
	require.Len(t, messages.Errors(), 1)
	assert.Equal(t, "test.usf(1): (7) Unknown token '$'\n", messages.Errors()[0])
}

func TestTrieLongestMatch(t *testing.T) {
	trie := keywordTrie()

	kind, n, ok := trie.match("<<=x", false)
	require.True(t, ok)
	assert.Equal(t, TokenLowerLowerEqual, kind)
	assert.Equal(t, 3, n)

	_, _, ok = trie.match("Texture1DSampleLevel", true)
	assert.False(t, ok, "greedy match must not split an identifier")

	kind, ok = trie.lookup("groupshared")
	require.True(t, ok)
	assert.Equal(t, TokenGroupShared, kind)

	_, ok = trie.lookup("groupsharedX")
	assert.False(t, ok)
}
