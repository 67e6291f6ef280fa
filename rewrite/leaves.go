// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"fmt"

	"github.com/gogpu/hlslcc/hlsl"
)

// value is a shader input or output: a parameter, a return value, or a
// piece of one reached through member and element accesses. After
// expansion every value carries a semantic.
type value struct {
	// name is the base for a generated member name.
	name string

	// access reads or writes the value, starting from the parameter.
	access *hlsl.Expression

	interp   hlsl.TypeQualifier
	spec     *hlsl.TypeSpecifier
	semantic string

	// dims are the remaining array dimensions. A leaf keeps them only when
	// the whole array is passed as one.
	dims []*hlsl.Expression

	// whole marks an array whose element semantics cannot be derived. It
	// is kept regardless of the used set.
	whole bool
}

// used reports whether a leaf survives pruning.
func (v value) used(set *semanticSet) bool {
	return v.whole || set.contains(v.semantic)
}

// expand appends the leaves of v to out. Structs expand member by member,
// arrays element by element.
func (p *pass) expand(v value, out []value) []value {
	if len(v.dims) > 0 {
		return p.expandArray(v, out)
	}
	if v.semantic != "" {
		return append(out, v)
	}
	s := p.structOf(v.spec)
	if s == nil {
		p.fail(ErrMissingSemantic, "Missing semantic on '%s' of type '%s'", v.name, typeName(v.spec))
		return out
	}
	return p.expandStruct(v, s, out)
}

func (p *pass) expandStruct(v value, s *hlsl.StructSpecifier, out []value) []value {
	if s.ParentName != "" {
		parent, ok := p.structs[s.ParentName]
		if !ok {
			p.fail(ErrUnresolvedType, "Unable to find parent struct '%s' of '%s'", s.ParentName, s.Name)
			return out
		}
		out = p.expandStruct(v, parent, out)
	}
	for _, member := range s.Members {
		for _, decl := range member.Declarations {
			out = p.expand(value{
				name:     v.name + "_" + decl.Identifier,
				access:   p.field(v.access, decl.Identifier),
				interp:   member.Type.Qualifier.Interpolation(),
				spec:     member.Type.Specifier,
				semantic: decl.Semantic,
				dims:     decl.ArraySize,
			}, out)
		}
	}
	return out
}

// expandArray splits an array on its outer dimension. An array with a
// semantic gives one leaf per element with consecutive semantic indices.
// When no semantic prefix can be derived, or the array has more than one
// dimension, the whole array is a single leaf that is always kept.
func (p *pass) expandArray(v value, out []value) []value {
	size, err := v.dims[0].ConstantIntValue()
	if err != nil {
		p.fail(ErrNotConstant, "Array size of '%s' is not constant: %v", v.name, err)
		return out
	}
	if size <= 0 {
		p.fail(ErrNotConstant, "Array size of '%s' must be positive, got %d", v.name, size)
		return out
	}

	element := func(i int) value {
		return value{
			name:   fmt.Sprintf("%s_%d", v.name, i),
			access: p.index(v.access, i),
			interp: v.interp,
			spec:   v.spec,
			dims:   v.dims[1:],
		}
	}

	if v.semantic == "" {
		if p.structOf(v.spec) == nil {
			p.fail(ErrMissingSemantic, "Missing semantic on '%s' of type '%s'", v.name, typeName(v.spec))
			return out
		}
		for i := 0; i < int(size); i++ {
			out = p.expand(element(i), out)
		}
		return out
	}

	semantics, ok := arraySemantics(v.semantic, int(size))
	if !ok || len(v.dims) > 1 {
		v.whole = true
		return append(out, v)
	}
	for i, semantic := range semantics {
		leaf := element(i)
		leaf.semantic = semantic
		out = append(out, leaf)
	}
	return out
}

func typeName(spec *hlsl.TypeSpecifier) string {
	switch {
	case spec == nil:
		return "?"
	case spec.Structure != nil && spec.Structure.Name != "":
		return spec.Structure.Name
	case spec.Structure != nil:
		return "struct"
	}
	return spec.TypeName
}
