// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order. Attributes are visited
// before the node's own children.
func Walk(node Node, v Visitor) {
	if isNilNode(node) || !v(node) {
		return
	}

	for _, attr := range node.Attrs() {
		Walk(attr, v)
	}

	switch n := node.(type) {
	case *Expression:
		for _, sub := range n.SubExpressions {
			walkExpr(sub, v)
		}
		if n.TypeSpecifier != nil {
			Walk(n.TypeSpecifier, v)
		}
		for _, e := range n.Expressions {
			walkExpr(e, v)
		}

	case *TypeSpecifier:
		if n.Structure != nil {
			Walk(n.Structure, v)
		}

	case *FullySpecifiedType:
		if n.Specifier != nil {
			Walk(n.Specifier, v)
		}

	case *Declaration:
		for _, size := range n.ArraySize {
			walkExpr(size, v)
		}
		walkExpr(n.Initializer, v)

	case *DeclaratorList:
		if n.Type != nil {
			Walk(n.Type, v)
		}
		for _, d := range n.Declarations {
			Walk(d, v)
		}

	case *ParameterDeclarator:
		Walk(n.Type, v)
		Walk(n.Declaration, v)

	case *Function:
		Walk(n.ReturnType, v)
		for _, p := range n.Parameters {
			Walk(p, v)
		}

	case *FunctionDefinition:
		Walk(n.Prototype, v)
		if n.Body != nil {
			Walk(n.Body, v)
		}

	case *StructSpecifier:
		for _, m := range n.Members {
			Walk(m, v)
		}

	case *CBufferDeclaration:
		for _, m := range n.Members {
			Walk(m, v)
		}

	case *CompoundStatement:
		for _, s := range n.Statements {
			Walk(s, v)
		}

	case *ExpressionStatement:
		walkExpr(n.Expression, v)

	case *SelectionStatement:
		walkExpr(n.Condition, v)
		Walk(n.ThenStatement, v)
		Walk(n.ElseStatement, v)

	case *IterationStatement:
		Walk(n.InitStatement, v)
		walkExpr(n.Condition, v)
		walkExpr(n.RestExpression, v)
		Walk(n.Body, v)

	case *SwitchStatement:
		walkExpr(n.Condition, v)
		if n.Body != nil {
			Walk(n.Body, v)
		}

	case *SwitchBody:
		for _, c := range n.Cases {
			Walk(c, v)
		}

	case *CaseStatement:
		for _, l := range n.Labels {
			Walk(l, v)
		}
		for _, s := range n.Statements {
			Walk(s, v)
		}

	case *CaseLabel:
		walkExpr(n.TestExpression, v)

	case *JumpStatement:
		walkExpr(n.OptionalExpression, v)

	case *Attribute:
		for _, arg := range n.Arguments {
			Walk(arg, v)
		}

	case *AttributeArgument:
		walkExpr(n.Expression, v)

	// Leaf nodes: EmptyStatement, Pragma
	}
}

// Inspect traverses an AST and calls f for each node.
// Convenience wrapper around Walk.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}

// walkExpr skips nil expression slots, which would otherwise reach Walk
// as a non-nil interface holding a nil pointer.
func walkExpr(e *Expression, v Visitor) {
	if e != nil {
		Walk(e, v)
	}
}

func isNilNode(node Node) bool {
	if node == nil {
		return true
	}
	switch n := node.(type) {
	case *CompoundStatement:
		return n == nil
	case *Expression:
		return n == nil
	case *Declaration:
		return n == nil
	case *FullySpecifiedType:
		return n == nil
	case *TypeSpecifier:
		return n == nil
	}
	return false
}
