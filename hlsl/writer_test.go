// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteFunction(t *testing.T) {
	tu := parseSource(t, "float4 Main(float4 a : TEXCOORD0, out float b : SV_Target1) : SV_Target0 { b = a.x * 2 + 1; return -a; }")

	want := "float4 Main(float4 a : TEXCOORD0, out float b : SV_Target1) : SV_Target0\n" +
		"{\n" +
		"    b = (a.x * 2) + 1;\n" +
		"    return -a;\n" +
		"}\n" +
		"\n"
	assert.Equal(t, want, WriteNodesToString(tu.Nodes))
}

func TestWriteExpressionParentheses(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"a + b * c", "a + (b * c)"},
		{"(a + b) * c", "(a + b) * c"},
		{"a = b = c + d", "a = b = c + d"},
		{"-a * b", "(-a) * b"},
		{"(float)x + 1", "((float)x) + 1"},
		{"(float)(x + 1)", "(float)(x + 1)"},
		{"c ? a + 1 : b", "c ? (a + 1) : b"},
		{"f(a + b, (c, d))", "f(a + b, (c, d))"},
		{"m[i + 1].x++", "m[i + 1].x++"},
		{"a, b = c", "a, (b = c)"},
		{"x = (a, b)", "x = (a, b)"},
		{"y = (a = b) + c", "y = (a = b) + c"},
		{"c = (a = b) ? 1 : 2", "c = (a = b) ? 1 : 2"},
		{"-(a += 1)", "-(a += 1)"},
		{"(a = b).x", "(a = b).x"},
		{"c ? (a, b) : d", "c ? (a, b) : d"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			w := NewWriter()
			w.writeExpression(parseExpr(t, tt.source))
			assert.Equal(t, tt.want, w.String())
		})
	}
}

func TestWriteNestedAssignmentRoundTrip(t *testing.T) {
	tests := []string{
		"x = (a, b);",
		"y = (a = b) + c;",
		"c = (a = b) ? 1 : 2;",
		"x = y = (a, b);",
		"f((a, b), c = d);",
		"a, (b = c), d;",
		"m[(i = 1)] = -(j -= 2);",
		"int k = (a, b);",
		"for (i = 0, j = (a, b); i < j; i++, (j = j - 1)) ;",
	}

	for _, stmt := range tests {
		t.Run(stmt, func(t *testing.T) {
			source := "void Main()\n{\n" + stmt + "\n}\n"
			first := parseSource(t, source)
			text := WriteNodesToString(first.Nodes)
			second := parseSource(t, text)

			assert.Equal(t, text, WriteNodesToString(second.Nodes), "writer output is not a fixpoint")
			clearSpans(first.Nodes)
			clearSpans(second.Nodes)
			assert.Equal(t, first.Nodes, second.Nodes, "written as:\n%s", text)
		})
	}
}

func TestWriteStatements(t *testing.T) {
	tu := parseSource(t, `
void Main(int a)
{
    if (a > 0) a = 1; else if (a < 0) a = 2; else { a = 3; }
    for (;;) break;
    [loop] while (a) { a--; }
    switch (a) { case 1: a = 0; break; default: break; }
}`)

	want := "void Main(int a)\n" +
		"{\n" +
		"    if (a > 0)\n" +
		"        a = 1;\n" +
		"    else if (a < 0)\n" +
		"        a = 2;\n" +
		"    else\n" +
		"    {\n" +
		"        a = 3;\n" +
		"    }\n" +
		"    for (;;)\n" +
		"        break;\n" +
		"    [loop]\n" +
		"    while (a)\n" +
		"    {\n" +
		"        a--;\n" +
		"    }\n" +
		"    switch (a)\n" +
		"    {\n" +
		"    case 1:\n" +
		"        a = 0;\n" +
		"        break;\n" +
		"    default:\n" +
		"        break;\n" +
		"    }\n" +
		"}\n" +
		"\n"
	assert.Equal(t, want, WriteNodesToString(tu.Nodes))
}

func TestWriteDeclarations(t *testing.T) {
	tu := parseSource(t, `
struct S : P { float2 UV : TEXCOORD0; };
static const int Offsets[2][2] = { { 1, 2 }, { 3, 4 } };
`)
	want := "struct S : P\n" +
		"{\n" +
		"    float2 UV : TEXCOORD0;\n" +
		"};\n" +
		"\n" +
		"static const int Offsets[2][2] = {{1, 2}, {3, 4}};\n" +
		"\n"
	assert.Equal(t, want, WriteNodesToString(tu.Nodes))
}

func TestWriteSynthesizedLiterals(t *testing.T) {
	tests := []struct {
		expr *Expression
		want string
	}{
		{&Expression{Operator: OpUintConstant, UintValue: 42}, "42"},
		{&Expression{Operator: OpFloatConstant, FloatValue: 2}, "2.0"},
		{&Expression{Operator: OpFloatConstant, FloatValue: 0.25}, "0.25"},
		{&Expression{Operator: OpBoolConstant, BoolValue: true}, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			w := NewWriter()
			w.writeExpression(tt.expr)
			assert.Equal(t, tt.want, w.String())
		})
	}
}

func TestWriteUnknownStatementPanics(t *testing.T) {
	w := NewWriter()
	assert.Panics(t, func() {
		w.writeStatement(&Attribute{Name: "bogus"})
	})
}
