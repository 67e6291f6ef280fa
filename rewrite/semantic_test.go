// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemanticSetContains(t *testing.T) {
	set := newSemanticSet([]string{"SV_Target0", "TEXCOORD", "Color1_centroid"}, []string{"SV_", ""})

	tests := []struct {
		semantic string
		want     bool
	}{
		{"SV_Target0", true},
		{"sv_target0", true},
		{"SV_Target", true},
		{"TEXCOORD0", true},
		{"TEXCOORD", true},
		{"TEXCOORD1", false},
		{"TEXCOORD0_centroid", true},
		{"COLOR1", true},
		{"COLOR1_CENTROID", true},
		{"COLOR", false},
		{"SV_Depth", true},
		{"NORMAL", false},
	}

	for _, tt := range tests {
		t.Run(tt.semantic, func(t *testing.T) {
			assert.Equal(t, tt.want, set.contains(tt.semantic))
		})
	}
}

func TestSplitSemantic(t *testing.T) {
	tests := []struct {
		semantic string
		prefix   string
		index    int
		hasIndex bool
	}{
		{"TEXCOORD3", "TEXCOORD", 3, true},
		{"COLOR", "COLOR", 0, false},
		{"SV_Target10", "SV_Target", 10, true},
		{"42", "", 42, true},
		{"", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.semantic, func(t *testing.T) {
			prefix, index, hasIndex := splitSemantic(tt.semantic)
			assert.Equal(t, tt.prefix, prefix)
			assert.Equal(t, tt.index, index)
			assert.Equal(t, tt.hasIndex, hasIndex)
		})
	}
}

func TestArraySemantics(t *testing.T) {
	got, ok := arraySemantics("COLOR", 4)
	assert.True(t, ok)
	assert.Equal(t, []string{"COLOR", "COLOR1", "COLOR2", "COLOR3"}, got)

	got, ok = arraySemantics("TEXCOORD2", 3)
	assert.True(t, ok)
	assert.Equal(t, []string{"TEXCOORD2", "TEXCOORD3", "TEXCOORD4"}, got)

	_, ok = arraySemantics("7", 2)
	assert.False(t, ok)
}
