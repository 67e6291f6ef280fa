// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"fmt"
	"strings"

	"github.com/gogpu/hlslcc/hlsl"
)

// unnamedIdentifier is the name used for an empty base.
const unnamedIdentifier = "_unnamed"

// reservedWords are identifiers the lexer accepts but a generated name must
// not shadow: C++ reserved words and the common intrinsics.
var reservedWords = func() map[string]struct{} {
	words := []string{
		// Reserved
		"auto", "catch", "char", "const_cast", "delete", "dynamic_cast", "enum",
		"explicit", "friend", "goto", "long", "mutable", "new", "operator",
		"private", "protected", "public", "reinterpret_cast", "short", "signed",
		"sizeof", "static_cast", "template", "this", "throw", "try", "typename",
		"union", "using", "virtual", "unsigned", "typedef", "namespace",
		"interface", "class", "export", "extern", "inline", "precise",
		"shared", "snorm", "unorm", "vector", "matrix", "string", "technique",
		"pass", "compile", "asm", "decl",

		// Intrinsics
		"abs", "acos", "all", "any", "asfloat", "asin", "asint", "asuint",
		"atan", "atan2", "ceil", "clamp", "clip", "cos", "cosh", "cross",
		"ddx", "ddy", "degrees", "determinant", "distance", "dot", "exp",
		"exp2", "f16tof32", "f32tof16", "floor", "fmod", "frac", "fwidth",
		"isinf", "isnan", "ldexp", "length", "lerp", "log", "log2", "mad",
		"max", "min", "mul", "normalize", "pow", "radians", "rcp", "reflect",
		"refract", "round", "rsqrt", "saturate", "sign", "sin", "sincos",
		"smoothstep", "sqrt", "step", "tan", "tanh", "transpose", "trunc",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}()

// isReserved reports whether name cannot be used as a generated identifier.
func isReserved(name string) bool {
	if hlsl.IsKeyword(name) {
		return true
	}
	_, ok := reservedWords[name]
	return ok
}

// escape returns a safe identifier name. Reserved names get a leading
// underscore.
func escape(name string) string {
	if name == "" {
		return unnamedIdentifier
	}
	if isReserved(name) {
		return "_" + name
	}
	return name
}

// namer generates unique identifiers for generated code.
// It tracks used names case-insensitively, like the HLSL compilers do for
// some legacy keywords.
type namer struct {
	// usedNames tracks names that have been generated or reserved, in
	// lowercase.
	usedNames map[string]struct{}

	// counter is used to generate unique suffixes.
	counter uint32
}

// newNamer creates a namer with every identifier of nodes reserved, so
// generated names never collide with the source.
func newNamer(nodes []hlsl.Node) *namer {
	n := &namer{usedNames: make(map[string]struct{})}
	for _, node := range nodes {
		hlsl.Inspect(node, func(node hlsl.Node) bool {
			switch v := node.(type) {
			case *hlsl.Function:
				n.reserve(v.Identifier)
			case *hlsl.Declaration:
				n.reserve(v.Identifier)
			case *hlsl.StructSpecifier:
				n.reserve(v.Name)
			case *hlsl.CBufferDeclaration:
				n.reserve(v.Name)
			case *hlsl.Expression:
				if v.Operator == hlsl.OpIdentifier {
					n.reserve(v.Identifier)
				}
			}
			return true
		})
	}
	return n
}

// call generates a unique name based on the given base.
// It escapes reserved keywords and adds numeric suffixes if needed.
func (n *namer) call(base string) string {
	escaped := escape(base)

	lowerEscaped := strings.ToLower(escaped)
	if !n.isUsedLower(lowerEscaped) {
		n.usedNames[lowerEscaped] = struct{}{}
		return escaped
	}

	for {
		n.counter++
		candidate := fmt.Sprintf("%s_%d", escaped, n.counter)
		lowerCandidate := strings.ToLower(candidate)
		if !n.isUsedLower(lowerCandidate) {
			n.usedNames[lowerCandidate] = struct{}{}
			return candidate
		}
	}
}

// isUsed checks if a name has already been used (case-insensitive).
func (n *namer) isUsed(name string) bool {
	return n.isUsedLower(strings.ToLower(name))
}

func (n *namer) isUsedLower(lowerName string) bool {
	_, used := n.usedNames[lowerName]
	return used
}

// reserve marks a name as used without returning it.
func (n *namer) reserve(name string) {
	if name != "" {
		n.usedNames[strings.ToLower(name)] = struct{}{}
	}
}
