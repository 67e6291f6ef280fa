// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"strings"

	"github.com/gogpu/hlslcc/hlsl"
)

// RemoveUnusedOutputs generates an entry point that calls entryPoint and
// returns only the outputs whose semantic is in usedOutputs or contains
// one of exceptions. The generated code is appended to source.
func (r *Rewriter) RemoveUnusedOutputs(source string, usedOutputs, exceptions []string, entryPoint string) (*Result, error) {
	p, err := r.begin(source)
	if err != nil {
		return nil, err
	}
	defer p.release()

	entry := p.entry(entryPoint)
	if entry == nil {
		return nil, p.err
	}

	o := &outputsPass{pass: p, used: newSemanticSet(usedOutputs, exceptions)}
	nodes, removed := o.run(entry)
	if p.failed() {
		return nil, p.err
	}

	name := optimizedName(entryPoint)
	generated := generatedHeader("RemoveUnusedOutputs", name, "Outputs", usedOutputs, removed) +
		hlsl.WriteNodesToString(nodes)
	return &Result{
		Source:           appendGenerated(source, generated),
		EntryPoint:       name,
		Generated:        generated,
		RemovedSemantics: removed,
	}, nil
}

type outputsPass struct {
	*pass
	used *semanticSet
}

func optimizedName(entryPoint string) string {
	return "Optimized_" + entryPoint
}

// run builds the output struct and the wrapper function. It returns the
// nodes to write and the removed semantics.
func (o *outputsPass) run(entry *hlsl.FunctionDefinition) ([]hlsl.Node, []string) {
	proto := entry.Prototype

	var (
		params []*hlsl.ParameterDeclarator
		args   []*hlsl.Expression
		body   []hlsl.Node
		leaves []value
	)

	for _, param := range proto.Parameters {
		decl := param.Declaration
		q := param.Type.Qualifier
		args = append(args, o.ident(decl.Identifier))

		switch {
		case !q.IsOutput():
			params = append(params, param)
			continue
		case q.Has(hlsl.QualInOut):
			// The original still reads the value, so it stays a parameter.
			params = append(params, o.param(o.fullType(q&^hlsl.QualInOut, param.Type.Specifier), decl))
		default:
			body = append(body, o.declare(o.localType(param.Type), decl.Identifier, decl.ArraySize, nil))
		}

		leaves = o.expand(value{
			name:     decl.Identifier,
			access:   o.ident(decl.Identifier),
			interp:   q.Interpolation(),
			spec:     param.Type.Specifier,
			semantic: decl.Semantic,
			dims:     decl.ArraySize,
		}, leaves)
	}

	call := o.call(proto.Identifier, args)
	ret := proto.ReturnType
	if !isVoid(ret) && (proto.ReturnSemantic != "" || o.structOf(ret.Specifier) != nil) {
		retName := o.names.call("ReturnValue")
		body = append(body, o.declare(o.localType(ret), retName, nil, call))
		// The return value comes first in the output struct.
		leaves = append(o.expand(value{
			name:     retName,
			access:   o.ident(retName),
			interp:   ret.Qualifier.Interpolation(),
			spec:     ret.Specifier,
			semantic: proto.ReturnSemantic,
		}, nil), leaves...)
	} else {
		body = append(body, o.exprStmt(call))
	}
	if o.failed() {
		return nil, nil
	}

	structName := "F" + optimizedName(proto.Identifier) + "_Outputs"
	resultVar := o.names.call("OptimizedOutputs")
	memberNames := newNamer(nil)

	var (
		members []*hlsl.DeclaratorList
		copies  []hlsl.Node
		removed []string
	)
	for _, leaf := range leaves {
		if !leaf.used(o.used) {
			removed = append(removed, strings.Clone(leaf.semantic))
			continue
		}
		member := memberNames.call(leaf.name)
		members = append(members, o.member(leaf, member))
		copies = append(copies, o.assign(o.field(o.ident(resultVar), member), leaf.access))
	}

	var nodes []hlsl.Node
	retType := o.fullType(0, o.namedType("void"))
	if len(members) > 0 {
		nodes = append(nodes, o.structDecl(structName, members))
		retType = o.fullType(0, o.namedType(structName))
		body = append(body, o.declare(o.fullType(0, o.namedType(structName)), resultVar, nil, nil))
		body = append(body, copies...)
		body = append(body, o.ret(o.ident(resultVar)))
	}

	fn := o.function(o.prototype(retType, optimizedName(proto.Identifier), "", params), body)
	fn.Attributes = entry.Attributes
	return append(nodes, fn), removed
}

// member declares a leaf as a struct member.
func (p *pass) member(leaf value, name string) *hlsl.DeclaratorList {
	list := p.declare(p.fullType(leaf.interp, p.typeRef(leaf.spec)), name, leaf.dims, nil)
	list.Declarations[0].Semantic = p.alloc.Strdup(leaf.semantic)
	return list
}
