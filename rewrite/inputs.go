// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"strings"

	"github.com/gogpu/hlslcc/hlsl"
)

// RemoveUnusedInputs generates an entry point that reads only the inputs
// whose semantic is in usedInputs. The other inputs reach entryPoint as
// zero. The generated code is appended to source.
func (r *Rewriter) RemoveUnusedInputs(source string, usedInputs []string, entryPoint string) (*Result, error) {
	p, err := r.begin(source)
	if err != nil {
		return nil, err
	}
	defer p.release()

	entry := p.entry(entryPoint)
	if entry == nil {
		return nil, p.err
	}

	in := &inputsPass{pass: p, used: newSemanticSet(usedInputs, nil), memberNames: newNamer(nil)}
	nodes := in.run(entry)
	if p.failed() {
		return nil, p.err
	}

	name := optimizedName(entryPoint)
	generated := generatedHeader("RemoveUnusedInputs", name, "Inputs", usedInputs, in.removed) +
		hlsl.WriteNodesToString(nodes)
	return &Result{
		Source:           appendGenerated(source, generated),
		EntryPoint:       name,
		Generated:        generated,
		RemovedSemantics: in.removed,
	}, nil
}

type inputsPass struct {
	*pass
	used *semanticSet

	memberNames *namer
	members     []*hlsl.DeclaratorList
	removed     []string

	// inputsVar is the name of the input struct parameter.
	inputsVar string
}

func (in *inputsPass) run(entry *hlsl.FunctionDefinition) []hlsl.Node {
	proto := entry.Prototype
	in.inputsVar = in.names.call("OptimizedInputs")

	var (
		params []*hlsl.ParameterDeclarator
		args   []*hlsl.Expression
		body   []hlsl.Node
	)

	for _, param := range proto.Parameters {
		decl := param.Declaration
		q := param.Type.Qualifier
		args = append(args, in.ident(decl.Identifier))

		if q.IsOutput() || q.Has(hlsl.QualUniform) {
			params = append(params, param)
			continue
		}

		leaves := in.expand(value{
			name:     decl.Identifier,
			access:   in.ident(decl.Identifier),
			interp:   q.Interpolation(),
			spec:     param.Type.Specifier,
			semantic: decl.Semantic,
			dims:     decl.ArraySize,
		}, nil)
		if in.failed() {
			continue
		}

		local := in.localType(param.Type)
		if !decl.IsArray() && in.structOf(param.Type.Specifier) == nil {
			// A plain input is initialized where it is declared.
			body = append(body, in.declare(local, decl.Identifier, nil, in.source(leaves[0])))
			continue
		}

		body = append(body, in.declare(local, decl.Identifier, decl.ArraySize, nil))
		for _, leaf := range leaves {
			body = append(body, in.assign(leaf.access, in.source(leaf)))
		}
	}
	if in.failed() {
		return nil
	}

	call := in.call(proto.Identifier, args)
	if isVoid(proto.ReturnType) {
		body = append(body, in.exprStmt(call))
	} else {
		body = append(body, in.ret(call))
	}

	var nodes []hlsl.Node
	if len(in.members) > 0 {
		structName := "F" + optimizedName(proto.Identifier) + "_Inputs"
		nodes = append(nodes, in.structDecl(structName, in.members))
		first := in.param(in.fullType(0, in.namedType(structName)), in.declaration(in.inputsVar, nil, "", nil))
		params = append([]*hlsl.ParameterDeclarator{first}, params...)
	}

	fn := in.function(in.prototype(proto.ReturnType, optimizedName(proto.Identifier), proto.ReturnSemantic, params), body)
	fn.Attributes = entry.Attributes
	return append(nodes, fn)
}

// source returns the expression a leaf is initialized from: a member of
// the input struct when the leaf is used, a zero cast otherwise.
func (in *inputsPass) source(leaf value) *hlsl.Expression {
	if leaf.used(in.used) {
		member := in.memberNames.call(leaf.name)
		in.members = append(in.members, in.member(leaf, member))
		return in.field(in.ident(in.inputsVar), member)
	}
	// Semantics live in the arena; the result outlives it.
	in.removed = append(in.removed, strings.Clone(leaf.semantic))
	return in.zero(in.typeRef(leaf.spec))
}
