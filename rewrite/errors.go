// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"fmt"
	"strings"
)

// ErrorKind categorizes rewrite pass failures.
type ErrorKind uint8

const (
	// ErrEntryPointNotFound indicates the entry point function is not defined.
	ErrEntryPointNotFound ErrorKind = iota

	// ErrParseFailed indicates the source did not lex or parse.
	ErrParseFailed

	// ErrNotConstant indicates an array size that does not fold to a
	// positive integer.
	ErrNotConstant

	// ErrUnresolvedType indicates a struct type that is not declared at top
	// level.
	ErrUnresolvedType

	// ErrMissingSemantic indicates a value that is neither a struct nor
	// annotated with a semantic.
	ErrMissingSemantic
)

// String returns a human-readable error kind name.
func (k ErrorKind) String() string {
	switch k {
	case ErrEntryPointNotFound:
		return "EntryPointNotFound"
	case ErrParseFailed:
		return "ParseFailed"
	case ErrNotConstant:
		return "NotConstant"
	case ErrUnresolvedType:
		return "UnresolvedType"
	case ErrMissingSemantic:
		return "MissingSemantic"
	default:
		return "Unknown"
	}
}

// Error is returned by a failed pass. Kind is the first failure; Messages
// holds every message collected before the pass gave up.
type Error struct {
	// Kind categorizes the first failure.
	Kind ErrorKind

	// Messages are human-readable, in the order they were reported.
	Messages []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("rewrite %s", e.Kind)
	}
	first := strings.TrimSuffix(e.Messages[0], "\n")
	if len(e.Messages) == 1 {
		return fmt.Sprintf("rewrite %s: %s", e.Kind, first)
	}
	return fmt.Sprintf("rewrite %s: %s (and %d more)", e.Kind, first, len(e.Messages)-1)
}

// Is reports whether target is an *Error of the same kind, so callers can
// match with errors.Is(err, &rewrite.Error{Kind: rewrite.ErrNotConstant}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}
