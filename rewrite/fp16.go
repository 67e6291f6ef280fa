// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"github.com/gogpu/hlslcc/hlsl"
)

// depthFunction keeps full precision: scene depth loses too much in half.
const depthFunction = "CalcSceneDepth"

// halfTypes maps each 32-bit float type to its 16-bit equivalent.
var halfTypes = map[string]string{
	"float":    "half",
	"float2":   "half2",
	"float3":   "half3",
	"float4":   "half4",
	"float2x2": "half2x2",
	"float3x3": "half3x3",
	"float4x4": "half4x4",
	"float3x4": "half3x4",
	"float4x3": "half4x3",
}

// ConvertFromFP32ToFP16 rewrites the float types used inside function
// definitions to half. Arrays, globals and struct members keep their
// types. The result replaces the whole source.
func (r *Rewriter) ConvertFromFP32ToFP16(source string) (*Result, error) {
	p, err := r.begin(source)
	if err != nil {
		return nil, err
	}
	defer p.release()

	for _, n := range p.tu.Nodes {
		def, ok := n.(*hlsl.FunctionDefinition)
		if !ok || def.Prototype.Identifier == depthFunction {
			continue
		}
		p.convertFunction(def)
	}

	generated := "#line 1 \"ConvertFromFP32ToFP16.usf\"\n" + hlsl.WriteNodesToString(p.tu.Nodes)
	return &Result{Source: generated, Generated: generated}, nil
}

func (p *pass) convertFunction(def *hlsl.FunctionDefinition) {
	proto := def.Prototype
	p.toHalf(proto.ReturnType.Specifier)
	for _, param := range proto.Parameters {
		if !param.Declaration.IsArray() {
			p.toHalf(param.Type.Specifier)
		}
	}

	hlsl.Inspect(def.Body, func(n hlsl.Node) bool {
		switch n := n.(type) {
		case *hlsl.StructSpecifier:
			// Members of a struct declared in the body keep their types.
			return false
		case *hlsl.DeclaratorList:
			for _, decl := range n.Declarations {
				if decl.IsArray() {
					return true
				}
			}
			p.toHalf(n.Type.Specifier)
		case *hlsl.Expression:
			switch n.Operator {
			case hlsl.OpTypeCast:
				p.toHalf(n.TypeSpecifier)
			case hlsl.OpFunctionCall:
				// float3(...) is a constructor call.
				if callee := n.SubExpressions[0]; callee.Operator == hlsl.OpIdentifier {
					if half, ok := halfTypes[callee.Identifier]; ok {
						callee.Identifier = half
					}
				}
			}
		}
		return true
	})
}

// toHalf converts a type name in place. Template arguments such as the
// element type of a texture are left alone.
func (p *pass) toHalf(spec *hlsl.TypeSpecifier) {
	if spec == nil || spec.Structure != nil {
		return
	}
	if half, ok := halfTypes[spec.TypeName]; ok {
		spec.TypeName = half
	}
}
