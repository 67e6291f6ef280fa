// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strings"

	"github.com/cznic/mathutil"
)

// CompilerMessage is one diagnostic produced by the lexer, the parser or a
// rewrite pass. Message is fully formatted and ends with a newline.
type CompilerMessage struct {
	IsError bool
	Message string
	Pos     Position

	// Text is the message without the position prefix.
	Text string
}

// CompilerMessages is the ordered diagnostic list returned by Parse.
type CompilerMessages struct {
	Messages []CompilerMessage
}

// FormatMessage renders text the way every diagnostic is printed:
// "<file>(<line>): (<column>) <text>\n" with a known position, "<text>\n"
// otherwise.
func FormatMessage(pos Position, text string) string {
	if !pos.IsValid() {
		return text + "\n"
	}
	return fmt.Sprintf("%s(%d): (%d) %s\n", pos.File, pos.Line, pos.Column, text)
}

// SourceError records an error at pos.
func (m *CompilerMessages) SourceError(pos Position, text string) {
	m.add(true, pos, text)
}

// SourceWarning records a warning at pos.
func (m *CompilerMessages) SourceWarning(pos Position, text string) {
	m.add(false, pos, text)
}

// Error records an error without position.
func (m *CompilerMessages) Error(text string) {
	m.add(true, Position{}, text)
}

// Warning records a warning without position.
func (m *CompilerMessages) Warning(text string) {
	m.add(false, Position{}, text)
}

func (m *CompilerMessages) add(isError bool, pos Position, text string) {
	m.Messages = append(m.Messages, CompilerMessage{
		IsError: isError,
		Message: FormatMessage(pos, text),
		Pos:     pos,
		Text:    text,
	})
}

// HasErrors reports whether any message is an error.
func (m *CompilerMessages) HasErrors() bool {
	for _, msg := range m.Messages {
		if msg.IsError {
			return true
		}
	}
	return false
}

// Errors returns the error messages in order.
func (m *CompilerMessages) Errors() []string {
	var out []string
	for _, msg := range m.Messages {
		if msg.IsError {
			out = append(out, msg.Message)
		}
	}
	return out
}

// Warnings returns the warning messages in order.
func (m *CompilerMessages) Warnings() []string {
	var out []string
	for _, msg := range m.Messages {
		if !msg.IsError {
			out = append(out, msg.Message)
		}
	}
	return out
}

// String concatenates every message.
func (m *CompilerMessages) String() string {
	var sb strings.Builder
	for _, msg := range m.Messages {
		sb.WriteString(msg.Message)
	}
	return sb.String()
}

// ParseError is returned when lexing or parsing fails. It carries the
// error messages that were recorded.
type ParseError struct {
	Filename string
	Messages []string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("hlsl: failed to parse %q", e.Filename)
	}
	first := strings.TrimSuffix(e.Messages[0], "\n")
	if len(e.Messages) == 1 {
		return "hlsl: " + first
	}
	return fmt.Sprintf("hlsl: %s (and %d more errors)", first, len(e.Messages)-1)
}

func newParseError(filename string, messages *CompilerMessages) *ParseError {
	return &ParseError{Filename: filename, Messages: messages.Errors()}
}

// SourceError pairs a diagnostic with the source it refers to, for display
// with a caret under the offending column.
type SourceError struct {
	Message string
	Pos     Position
	Source  string
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return strings.TrimSuffix(FormatMessage(e.Pos, e.Message), "\n")
}

// FormatWithContext returns the error message with source context.
// Shows the problematic line with a caret pointing to the error location.
func (e *SourceError) FormatWithContext() string {
	if e.Source == "" || !e.Pos.IsValid() {
		return e.Error()
	}

	lines := strings.Split(e.Source, "\n")
	lineNum := e.Pos.Line
	if lineNum > len(lines) {
		return e.Error()
	}

	line := strings.TrimRight(lines[lineNum-1], "\r")
	col := mathutil.Clamp(e.Pos.Column, 1, len(line)+1)

	var sb strings.Builder
	fmt.Fprintf(&sb, "error: %s\n", e.Message)
	fmt.Fprintf(&sb, "  --> %s:%d:%d\n", e.Pos.File, lineNum, col)
	sb.WriteString("   |\n")
	fmt.Fprintf(&sb, "%3d| %s\n", lineNum, line)
	fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))

	return sb.String()
}
