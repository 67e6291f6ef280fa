// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import "fmt"

// TokenKind represents the type of token.
type TokenKind uint16

const (
	TokenEOF TokenKind = iota

	// Literals
	TokenIdentifier
	TokenUintConstant
	TokenFloatConstant
	TokenBoolConstant
	TokenStringConstant
	TokenPragma

	// Operators
	TokenPlus                // +
	TokenPlusEqual           // +=
	TokenPlusPlus            // ++
	TokenMinus               // -
	TokenMinusEqual          // -=
	TokenMinusMinus          // --
	TokenTimes               // *
	TokenTimesEqual          // *=
	TokenDiv                 // /
	TokenDivEqual            // /=
	TokenMod                 // %
	TokenModEqual            // %=
	TokenLower               // <
	TokenLowerEqual          // <=
	TokenLowerLower          // <<
	TokenLowerLowerEqual     // <<=
	TokenGreater             // >
	TokenGreaterEqual        // >=
	TokenGreaterGreater      // >>
	TokenGreaterGreaterEqual // >>=
	TokenAnd                 // &
	TokenAndEqual            // &=
	TokenAndAnd              // &&
	TokenOr                  // |
	TokenOrEqual             // |=
	TokenOrOr                // ||
	TokenXor                 // ^
	TokenXorEqual            // ^=
	TokenNot                 // !
	TokenNotEqual            // !=
	TokenNeg                 // ~
	TokenEqual               // =
	TokenEqualEqual          // ==
	TokenQuestion            // ?
	TokenColon               // :
	TokenColonColon          // ::
	TokenSemicolon           // ;
	TokenComma               // ,
	TokenDot                 // .
	TokenLeftParen           // (
	TokenRightParen          // )
	TokenLeftBracket         // [
	TokenRightBracket        // ]
	TokenLeftBrace           // {
	TokenRightBrace          // }

	// Control flow and declarations
	TokenIf
	TokenElse
	TokenFor
	TokenWhile
	TokenDo
	TokenSwitch
	TokenCase
	TokenDefault
	TokenBreak
	TokenContinue
	TokenReturn
	TokenDiscard
	TokenStruct
	TokenCBuffer
	TokenRegister
	TokenPackOffset

	// Type keywords
	TokenVoid
	TokenBasicType // bool, int, uint, half, float and their vector/matrix forms

	// Resource types
	TokenTexture
	TokenTexture1D
	TokenTexture1DArray
	TokenTexture2D
	TokenTexture2DArray
	TokenTexture2DMS
	TokenTexture2DMSArray
	TokenTexture3D
	TokenTextureCube
	TokenTextureCubeArray
	TokenRWTexture1D
	TokenRWTexture1DArray
	TokenRWTexture2D
	TokenRWTexture2DArray
	TokenRWTexture3D
	TokenBuffer
	TokenRWBuffer
	TokenStructuredBuffer
	TokenRWStructuredBuffer
	TokenAppendStructuredBuffer
	TokenConsumeStructuredBuffer
	TokenByteAddressBuffer
	TokenRWByteAddressBuffer
	TokenSampler
	TokenSampler1D
	TokenSampler2D
	TokenSampler3D
	TokenSamplerCube
	TokenSamplerState
	TokenSamplerComparisonState
	TokenPointStream
	TokenLineStream
	TokenTriangleStream
	TokenInputPatch
	TokenOutputPatch

	// Storage, interpolation and primitive qualifiers
	TokenConst
	TokenStatic
	TokenIn
	TokenOut
	TokenInOut
	TokenUniform
	TokenGroupShared
	TokenLinear
	TokenCentroid
	TokenNoInterpolation
	TokenNoPerspective
	TokenSample
	TokenRowMajor
	TokenColumnMajor
	TokenPoint
	TokenLine
	TokenLineAdj
	TokenTriangle
	TokenTriangleAdj

	tokenKindCount
)

// tokenSpellings maps fixed-spelling token kinds to their source text. It is
// the single source the keyword trie is built from.
var tokenSpellings = map[TokenKind]string{
	TokenPlus:                "+",
	TokenPlusEqual:           "+=",
	TokenPlusPlus:            "++",
	TokenMinus:               "-",
	TokenMinusEqual:          "-=",
	TokenMinusMinus:          "--",
	TokenTimes:               "*",
	TokenTimesEqual:          "*=",
	TokenDiv:                 "/",
	TokenDivEqual:            "/=",
	TokenMod:                 "%",
	TokenModEqual:            "%=",
	TokenLower:               "<",
	TokenLowerEqual:          "<=",
	TokenLowerLower:          "<<",
	TokenLowerLowerEqual:     "<<=",
	TokenGreater:             ">",
	TokenGreaterEqual:        ">=",
	TokenGreaterGreater:      ">>",
	TokenGreaterGreaterEqual: ">>=",
	TokenAnd:                 "&",
	TokenAndEqual:            "&=",
	TokenAndAnd:              "&&",
	TokenOr:                  "|",
	TokenOrEqual:             "|=",
	TokenOrOr:                "||",
	TokenXor:                 "^",
	TokenXorEqual:            "^=",
	TokenNot:                 "!",
	TokenNotEqual:            "!=",
	TokenNeg:                 "~",
	TokenEqual:               "=",
	TokenEqualEqual:          "==",
	TokenQuestion:            "?",
	TokenColon:               ":",
	TokenColonColon:          "::",
	TokenSemicolon:           ";",
	TokenComma:               ",",
	TokenDot:                 ".",
	TokenLeftParen:           "(",
	TokenRightParen:          ")",
	TokenLeftBracket:         "[",
	TokenRightBracket:        "]",
	TokenLeftBrace:           "{",
	TokenRightBrace:          "}",

	TokenIf:         "if",
	TokenElse:       "else",
	TokenFor:        "for",
	TokenWhile:      "while",
	TokenDo:         "do",
	TokenSwitch:     "switch",
	TokenCase:       "case",
	TokenDefault:    "default",
	TokenBreak:      "break",
	TokenContinue:   "continue",
	TokenReturn:     "return",
	TokenDiscard:    "discard",
	TokenStruct:     "struct",
	TokenCBuffer:    "cbuffer",
	TokenRegister:   "register",
	TokenPackOffset: "packoffset",
	TokenVoid:       "void",

	TokenTexture:                 "texture",
	TokenTexture1D:               "Texture1D",
	TokenTexture1DArray:          "Texture1DArray",
	TokenTexture2D:               "Texture2D",
	TokenTexture2DArray:          "Texture2DArray",
	TokenTexture2DMS:             "Texture2DMS",
	TokenTexture2DMSArray:        "Texture2DMSArray",
	TokenTexture3D:               "Texture3D",
	TokenTextureCube:             "TextureCube",
	TokenTextureCubeArray:        "TextureCubeArray",
	TokenRWTexture1D:             "RWTexture1D",
	TokenRWTexture1DArray:        "RWTexture1DArray",
	TokenRWTexture2D:             "RWTexture2D",
	TokenRWTexture2DArray:        "RWTexture2DArray",
	TokenRWTexture3D:             "RWTexture3D",
	TokenBuffer:                  "Buffer",
	TokenRWBuffer:                "RWBuffer",
	TokenStructuredBuffer:        "StructuredBuffer",
	TokenRWStructuredBuffer:      "RWStructuredBuffer",
	TokenAppendStructuredBuffer:  "AppendStructuredBuffer",
	TokenConsumeStructuredBuffer: "ConsumeStructuredBuffer",
	TokenByteAddressBuffer:       "ByteAddressBuffer",
	TokenRWByteAddressBuffer:     "RWByteAddressBuffer",
	TokenSampler:                 "sampler",
	TokenSampler1D:               "sampler1D",
	TokenSampler2D:               "sampler2D",
	TokenSampler3D:               "sampler3D",
	TokenSamplerCube:             "samplerCUBE",
	TokenSamplerState:            "SamplerState",
	TokenSamplerComparisonState:  "SamplerComparisonState",
	TokenPointStream:             "PointStream",
	TokenLineStream:              "LineStream",
	TokenTriangleStream:          "TriangleStream",
	TokenInputPatch:              "InputPatch",
	TokenOutputPatch:             "OutputPatch",

	TokenConst:           "const",
	TokenStatic:          "static",
	TokenIn:              "in",
	TokenOut:             "out",
	TokenInOut:           "inout",
	TokenUniform:         "uniform",
	TokenGroupShared:     "groupshared",
	TokenLinear:          "linear",
	TokenCentroid:        "centroid",
	TokenNoInterpolation: "nointerpolation",
	TokenNoPerspective:   "noperspective",
	TokenSample:          "sample",
	TokenRowMajor:        "row_major",
	TokenColumnMajor:     "column_major",
	TokenPoint:           "point",
	TokenLine:            "line",
	TokenLineAdj:         "lineadj",
	TokenTriangle:        "triangle",
	TokenTriangleAdj:     "triangleadj",
}

// basicTypeScalars are the scalar families that expand to vector and matrix
// type keywords (float, float1..float4, float1x1..float4x4).
var basicTypeScalars = []string{"bool", "int", "uint", "dword", "half", "float", "double", "min16float", "min10float", "min16int", "min12int", "min16uint"}

// String returns the string representation of the token kind.
func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenIdentifier:
		return "Identifier"
	case TokenUintConstant:
		return "UintConstant"
	case TokenFloatConstant:
		return "FloatConstant"
	case TokenBoolConstant:
		return "BoolConstant"
	case TokenStringConstant:
		return "StringConstant"
	case TokenPragma:
		return "Pragma"
	case TokenBasicType:
		return "BasicType"
	}
	if s, ok := tokenSpellings[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", uint16(k))
}

// IsResourceType reports whether k names a texture, buffer, sampler, stream
// or patch type.
func (k TokenKind) IsResourceType() bool {
	return k >= TokenTexture && k <= TokenOutputPatch
}

// isTemplatedResource reports whether a resource type may take <...> arguments.
func (k TokenKind) isTemplatedResource() bool {
	switch k {
	case TokenSampler, TokenSampler1D, TokenSampler2D, TokenSampler3D, TokenSamplerCube,
		TokenSamplerState, TokenSamplerComparisonState,
		TokenByteAddressBuffer, TokenRWByteAddressBuffer, TokenTexture:
		return false
	}
	return k.IsResourceType()
}

// Position is a location in a source file. Line and Column are 1-based.
type Position struct {
	File   string
	Line   int
	Column int
}

// IsValid reports whether the position refers to a real source location.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Span represents a source code location span.
type Span struct {
	Start Position
	End   Position
}

// Token represents a lexical token.
type Token struct {
	Kind TokenKind
	// Lexeme is the token text: identifier name, literal spelling,
	// string contents or raw pragma directive.
	Lexeme     string
	UintValue  uint32
	FloatValue float32
	BoolValue  bool
	Pos        Position
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return "end of file"
	case TokenStringConstant:
		return fmt.Sprintf("%q", t.Lexeme)
	}
	if t.Lexeme != "" {
		return t.Lexeme
	}
	return t.Kind.String()
}
