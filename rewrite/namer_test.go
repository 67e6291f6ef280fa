// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/hlslcc/hlsl"
)

func TestNamerCall(t *testing.T) {
	n := newNamer(nil)

	assert.Equal(t, "Color", n.call("Color"))
	assert.Equal(t, "color_1", n.call("color"))
	assert.Equal(t, "Color_2", n.call("Color"))
	assert.Equal(t, "_unnamed", n.call(""))
	assert.Equal(t, "_float4", n.call("float4"))
	assert.Equal(t, "_lerp", n.call("lerp"))
	assert.True(t, n.isUsed("COLOR"))
	assert.False(t, n.isUsed("Normal"))
}

func TestNamerReservesSourceNames(t *testing.T) {
	tu, err := hlsl.Parse(`
struct VSOut { float4 Pos : SV_Position; };
cbuffer View { float4x4 ReturnValue; };
float4 Main(float4 P : POSITION) : SV_Position { float Scale = 2; return P * Scale; }
`, "", nil)
	require.NoError(t, err)
	defer tu.Release()

	n := newNamer(tu.Nodes)
	for _, name := range []string{"VSOut", "View", "ReturnValue", "Main", "P", "Scale", "Pos"} {
		assert.True(t, n.isUsed(name), name)
	}
	assert.Equal(t, "ReturnValue_1", n.call("ReturnValue"))
	assert.Equal(t, "OptimizedOutputs", n.call("OptimizedOutputs"))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"bare", &Error{Kind: ErrParseFailed}, "rewrite ParseFailed"},
		{"single", &Error{Kind: ErrEntryPointNotFound, Messages: []string{"Unable to find entry point Main"}}, "rewrite EntryPointNotFound: Unable to find entry point Main"},
		{"several", &Error{Kind: ErrNotConstant, Messages: []string{"a\n", "b", "c"}}, "rewrite NotConstant: a (and 2 more)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "UnresolvedType", ErrUnresolvedType.String())
	assert.Equal(t, "MissingSemantic", ErrMissingSemantic.String())
	assert.Equal(t, "Unknown", ErrorKind(99).String())
}
