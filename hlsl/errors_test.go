// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMessage(t *testing.T) {
	pos := Position{File: "Shader.usf", Line: 12, Column: 5}
	assert.Equal(t, "Shader.usf(12): (5) bad thing\n", FormatMessage(pos, "bad thing"))
	assert.Equal(t, "no position\n", FormatMessage(Position{}, "no position"))
}

func TestCompilerMessages(t *testing.T) {
	var m CompilerMessages
	assert.False(t, m.HasErrors())

	m.SourceWarning(Position{File: "a.usf", Line: 1, Column: 1}, "first")
	m.Warning("second")
	assert.False(t, m.HasErrors())

	m.SourceError(Position{File: "a.usf", Line: 2, Column: 3}, "third")
	m.Error("fourth")
	assert.True(t, m.HasErrors())

	assert.Equal(t, []string{"a.usf(1): (1) first\n", "second\n"}, m.Warnings())
	assert.Equal(t, []string{"a.usf(2): (3) third\n", "fourth\n"}, m.Errors())
	assert.Equal(t, "a.usf(1): (1) first\nsecond\na.usf(2): (3) third\nfourth\n", m.String())
	require.Len(t, m.Messages, 4)
	assert.Equal(t, 2, m.Messages[2].Pos.Line)
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ParseError
		want string
	}{
		{"Empty", &ParseError{Filename: "x.usf"}, `hlsl: failed to parse "x.usf"`},
		{"Single", &ParseError{Messages: []string{"x.usf(1): (1) oops\n"}}, "hlsl: x.usf(1): (1) oops"},
		{"Many", &ParseError{Messages: []string{"a\n", "b\n", "c\n"}}, "hlsl: a (and 2 more errors)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestParseErrorIsReturnedFromLexFailure(t *testing.T) {
	_, err := Parse("float a = 1 @ 2;", "lex.usf", nil)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "lex.usf", perr.Filename)
	assert.Contains(t, perr.Messages[0], "Unknown token '@'")
}

func TestSourceErrorFormatWithContext(t *testing.T) {
	source := "float a;\nfloat b = $;\n"
	err := &SourceError{
		Message: "Unknown token '$'",
		Pos:     Position{File: "s.usf", Line: 2, Column: 11},
		Source:  source,
	}

	want := "error: Unknown token '$'\n" +
		"  --> s.usf:2:11\n" +
		"   |\n" +
		"  2| float b = $;\n" +
		"   |           ^\n"
	assert.Equal(t, want, err.FormatWithContext())
	assert.Equal(t, "s.usf(2): (11) Unknown token '$'", err.Error())
}

func TestSourceErrorFormatWithContextFallback(t *testing.T) {
	tests := []struct {
		name string
		err  *SourceError
	}{
		{"NoSource", &SourceError{Message: "m", Pos: Position{File: "f", Line: 1, Column: 1}}},
		{"NoPosition", &SourceError{Message: "m", Source: "x"}},
		{"LinePastEnd", &SourceError{Message: "m", Pos: Position{File: "f", Line: 9, Column: 1}, Source: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.err.Error(), tt.err.FormatWithContext())
		})
	}
}

func TestSourceErrorColumnClamped(t *testing.T) {
	err := &SourceError{
		Message: "m",
		Pos:     Position{File: "f", Line: 1, Column: 40},
		Source:  "abc",
	}
	assert.Contains(t, err.FormatWithContext(), "  --> f:1:4\n")
	assert.Contains(t, err.FormatWithContext(), "   |    ^\n")
}
