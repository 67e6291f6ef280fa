// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package rewrite

import (
	"github.com/gogpu/hlslcc/arena"
	"github.com/gogpu/hlslcc/hlsl"
)

// builder allocates synthesized nodes in the arena of the tree being
// rewritten, so they share its lifetime.
type builder struct {
	alloc *arena.Allocator
}

func (b builder) ident(name string) *hlsl.Expression {
	e := arena.New[hlsl.Expression](b.alloc)
	e.Operator = hlsl.OpIdentifier
	e.Identifier = b.alloc.Strdup(name)
	return e
}

func (b builder) field(object *hlsl.Expression, member string) *hlsl.Expression {
	e := arena.New[hlsl.Expression](b.alloc)
	e.Operator = hlsl.OpFieldSelection
	e.SubExpressions[0] = object
	e.Identifier = b.alloc.Strdup(member)
	return e
}

func (b builder) uintConst(v uint32) *hlsl.Expression {
	e := arena.New[hlsl.Expression](b.alloc)
	e.Operator = hlsl.OpUintConstant
	e.UintValue = v
	return e
}

func (b builder) index(array *hlsl.Expression, i int) *hlsl.Expression {
	e := arena.New[hlsl.Expression](b.alloc)
	e.Operator = hlsl.OpArrayIndex
	e.SubExpressions[0] = array
	e.SubExpressions[1] = b.uintConst(uint32(i))
	return e
}

func (b builder) call(name string, args []*hlsl.Expression) *hlsl.Expression {
	e := arena.New[hlsl.Expression](b.alloc)
	e.Operator = hlsl.OpFunctionCall
	e.SubExpressions[0] = b.ident(name)
	e.Expressions = args
	return e
}

// zero is `(T)0`.
func (b builder) zero(spec *hlsl.TypeSpecifier) *hlsl.Expression {
	e := arena.New[hlsl.Expression](b.alloc)
	e.Operator = hlsl.OpTypeCast
	e.TypeSpecifier = spec
	e.SubExpressions[0] = b.uintConst(0)
	return e
}

func (b builder) assign(lhs, rhs *hlsl.Expression) *hlsl.ExpressionStatement {
	e := arena.New[hlsl.Expression](b.alloc)
	e.Operator = hlsl.OpAssign
	e.SubExpressions[0] = lhs
	e.SubExpressions[1] = rhs
	return b.exprStmt(e)
}

func (b builder) exprStmt(e *hlsl.Expression) *hlsl.ExpressionStatement {
	s := arena.New[hlsl.ExpressionStatement](b.alloc)
	s.Expression = e
	return s
}

func (b builder) ret(e *hlsl.Expression) *hlsl.JumpStatement {
	s := arena.New[hlsl.JumpStatement](b.alloc)
	s.Kind = hlsl.JumpReturn
	s.OptionalExpression = e
	return s
}

func (b builder) namedType(name string) *hlsl.TypeSpecifier {
	spec := arena.New[hlsl.TypeSpecifier](b.alloc)
	spec.TypeName = b.alloc.Strdup(name)
	return spec
}

func (b builder) fullType(q hlsl.TypeQualifier, spec *hlsl.TypeSpecifier) *hlsl.FullySpecifiedType {
	t := arena.New[hlsl.FullySpecifiedType](b.alloc)
	t.Qualifier = q
	t.Specifier = spec
	return t
}

// declaration is a declarator with optional dimensions, semantic and
// initializer.
func (b builder) declaration(name string, dims []*hlsl.Expression, semantic string, init *hlsl.Expression) *hlsl.Declaration {
	d := arena.New[hlsl.Declaration](b.alloc)
	d.Identifier = b.alloc.Strdup(name)
	d.ArraySize = dims
	d.Semantic = b.alloc.Strdup(semantic)
	d.Initializer = init
	return d
}

// declare is `T name[dims] = init;`.
func (b builder) declare(t *hlsl.FullySpecifiedType, name string, dims []*hlsl.Expression, init *hlsl.Expression) *hlsl.DeclaratorList {
	list := arena.New[hlsl.DeclaratorList](b.alloc)
	list.Type = t
	list.Declarations = []*hlsl.Declaration{b.declaration(name, dims, "", init)}
	return list
}

// structDecl is a top-level `struct name { members };`.
func (b builder) structDecl(name string, members []*hlsl.DeclaratorList) *hlsl.DeclaratorList {
	s := arena.New[hlsl.StructSpecifier](b.alloc)
	s.Name = b.alloc.Strdup(name)
	s.Members = members
	spec := arena.New[hlsl.TypeSpecifier](b.alloc)
	spec.Structure = s
	list := arena.New[hlsl.DeclaratorList](b.alloc)
	list.Type = b.fullType(0, spec)
	return list
}

func (b builder) param(t *hlsl.FullySpecifiedType, decl *hlsl.Declaration) *hlsl.ParameterDeclarator {
	p := arena.New[hlsl.ParameterDeclarator](b.alloc)
	p.Type = t
	p.Declaration = decl
	return p
}

func (b builder) function(proto *hlsl.Function, body []hlsl.Node) *hlsl.FunctionDefinition {
	block := arena.New[hlsl.CompoundStatement](b.alloc)
	block.Statements = body
	def := arena.New[hlsl.FunctionDefinition](b.alloc)
	def.Prototype = proto
	def.Body = block
	return def
}

func (b builder) prototype(ret *hlsl.FullySpecifiedType, name, semantic string, params []*hlsl.ParameterDeclarator) *hlsl.Function {
	fn := arena.New[hlsl.Function](b.alloc)
	fn.ReturnType = ret
	fn.Identifier = b.alloc.Strdup(name)
	fn.ReturnSemantic = semantic
	fn.Parameters = params
	return fn
}
