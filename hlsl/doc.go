// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package hlsl is a front-end for preprocessed HLSL source: a lexer, a
// recursive-descent parser producing an arena-allocated AST, a constant
// integer evaluator and a writer that turns the AST back into source.
//
// The AST is meant to be rewritten and written back to text. There is no
// type checking and no code generation.
//
// # Usage
//
//	var messages hlsl.CompilerMessages
//	tu, err := hlsl.Parse(source, "Shader.usf", &messages)
//	if err != nil {
//	    fmt.Print(messages.String())
//	    return err
//	}
//	defer tu.Release()
//
//	text := hlsl.WriteNodesToString(tu.Nodes)
//
// # Memory
//
// Every node and string of a TranslationUnit is allocated from its
// arena.Allocator. Release drops the whole tree at once; nodes must not be
// used afterwards.
//
// # Diagnostics
//
// Lexer and parser messages are collected in CompilerMessages, formatted as
//
//	<file>(<line>): (<column>) <text>
//
// The first error aborts the parse. Unknown preprocessor directives are
// warnings.
package hlsl
