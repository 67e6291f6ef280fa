// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"fmt"
	"strconv"
	"strings"
)

// Writer regenerates HLSL source from AST nodes.
type Writer struct {
	// Output buffer
	out strings.Builder

	// Current indentation level
	indent int

	// Nesting of the expression being written. Nested operators are
	// parenthesized; the depth resets at every statement.
	exprDepth int
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteNodesToString writes top-level nodes back to HLSL source.
func WriteNodesToString(nodes []Node) string {
	w := NewWriter()
	for _, n := range nodes {
		w.WriteNode(n)
	}
	return w.String()
}

// String returns the text written so far.
func (w *Writer) String() string {
	return w.out.String()
}

// WriteNode writes a top-level node. Definitions are followed by a blank
// line.
func (w *Writer) WriteNode(n Node) {
	switch n := n.(type) {
	case *FunctionDefinition:
		w.writeAttributes(n.Attributes)
		w.writeIndent()
		w.writeFunction(n.Prototype)
		w.out.WriteByte('\n')
		w.writeStatement(n.Body)
		w.out.WriteByte('\n')
	case *CBufferDeclaration:
		w.writeCBuffer(n)
		w.out.WriteByte('\n')
	case *DeclaratorList:
		w.writeStatement(n)
		w.out.WriteByte('\n')
	case *Pragma:
		w.writeStatement(n)
	default:
		w.writeStatement(n)
	}
}

// writeLine writes an indented line.
func (w *Writer) writeLine(format string, args ...any) {
	w.writeIndent()
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

// writeIndent writes the current indentation.
func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

// pushIndent increases indentation.
func (w *Writer) pushIndent() {
	w.indent++
}

// popIndent decreases indentation.
func (w *Writer) popIndent() {
	if w.indent > 0 {
		w.indent--
	}
}

func (w *Writer) writeAttributes(attrs []*Attribute) {
	for _, attr := range attrs {
		w.writeIndent()
		w.out.WriteByte('[')
		w.out.WriteString(attr.Name)
		if len(attr.Arguments) > 0 {
			w.out.WriteByte('(')
			for i, arg := range attr.Arguments {
				if i > 0 {
					w.out.WriteString(", ")
				}
				if arg.Expression != nil {
					w.writeFreshExpression(arg.Expression)
				} else {
					w.out.WriteByte('"')
					w.out.WriteString(arg.StringArgument)
					w.out.WriteByte('"')
				}
			}
			w.out.WriteByte(')')
		}
		w.out.WriteString("]\n")
	}
}

func (w *Writer) writeFunction(fn *Function) {
	w.writeFullySpecifiedType(fn.ReturnType)
	w.out.WriteByte(' ')
	w.out.WriteString(fn.Identifier)
	w.out.WriteByte('(')
	for i, param := range fn.Parameters {
		if i > 0 {
			w.out.WriteString(", ")
		}
		w.writeFullySpecifiedType(param.Type)
		w.out.WriteByte(' ')
		w.writeDeclaration(param.Declaration)
	}
	w.out.WriteByte(')')
	if fn.ReturnSemantic != "" {
		w.out.WriteString(" : ")
		w.out.WriteString(fn.ReturnSemantic)
	}
}

func (w *Writer) writeCBuffer(cb *CBufferDeclaration) {
	w.writeAttributes(cb.Attributes)
	w.writeIndent()
	w.out.WriteString("cbuffer ")
	w.out.WriteString(cb.Name)
	if cb.Register != "" {
		fmt.Fprintf(&w.out, " : register(%s)", cb.Register)
	}
	w.out.WriteByte('\n')
	w.writeLine("{")
	w.pushIndent()
	for _, member := range cb.Members {
		w.writeStatement(member)
	}
	w.popIndent()
	w.writeLine("};")
}

func (w *Writer) writeFullySpecifiedType(t *FullySpecifiedType) {
	for _, q := range qualifierOrder {
		if t.Qualifier&q.bit != 0 {
			w.out.WriteString(q.text)
			w.out.WriteByte(' ')
		}
	}
	w.writeTypeSpecifier(t.Specifier)
}

func (w *Writer) writeTypeSpecifier(spec *TypeSpecifier) {
	if spec.Structure != nil {
		w.writeStruct(spec.Structure)
		return
	}
	w.out.WriteString(spec.TypeName)
	if spec.InnerType != "" {
		w.out.WriteByte('<')
		w.out.WriteString(spec.InnerType)
		switch {
		case spec.TextureMSNumSamples > 0:
			fmt.Fprintf(&w.out, ", %d", spec.TextureMSNumSamples)
		case spec.PatchSize > 0:
			fmt.Fprintf(&w.out, ", %d", spec.PatchSize)
		}
		w.out.WriteByte('>')
	}
}

// writeStruct writes a struct definition starting on the current line and
// ending after the closing brace.
func (w *Writer) writeStruct(s *StructSpecifier) {
	w.out.WriteString("struct")
	if s.Name != "" {
		w.out.WriteByte(' ')
		w.out.WriteString(s.Name)
	}
	if s.ParentName != "" {
		w.out.WriteString(" : ")
		w.out.WriteString(s.ParentName)
	}
	w.out.WriteByte('\n')
	w.writeLine("{")
	w.pushIndent()
	for _, member := range s.Members {
		w.writeStatement(member)
	}
	w.popIndent()
	w.writeIndent()
	w.out.WriteByte('}')
}

// writeDeclaratorList writes `type a, b` without the terminating ';'.
func (w *Writer) writeDeclaratorList(list *DeclaratorList) {
	w.writeFullySpecifiedType(list.Type)
	for i, decl := range list.Declarations {
		if i > 0 {
			w.out.WriteByte(',')
		}
		w.out.WriteByte(' ')
		w.writeDeclaration(decl)
	}
}

func (w *Writer) writeDeclaration(decl *Declaration) {
	w.out.WriteString(decl.Identifier)
	for _, size := range decl.ArraySize {
		w.out.WriteByte('[')
		if size != nil {
			w.writeFreshExpression(size)
		}
		w.out.WriteByte(']')
	}
	if decl.Semantic != "" {
		w.out.WriteString(" : ")
		w.out.WriteString(decl.Semantic)
	}
	if decl.Register != "" {
		fmt.Fprintf(&w.out, " : register(%s)", decl.Register)
	}
	if decl.PackOffset != "" {
		fmt.Fprintf(&w.out, " : packoffset(%s)", decl.PackOffset)
	}
	if decl.Initializer != nil {
		w.out.WriteString(" = ")
		w.writeFreshExpression(decl.Initializer)
	}
}

// writeStatement writes one statement on its own lines.
func (w *Writer) writeStatement(n Node) {
	w.exprDepth = 0
	w.writeAttributes(n.Attrs())

	switch s := n.(type) {
	case *CompoundStatement:
		w.writeLine("{")
		w.pushIndent()
		for _, stmt := range s.Statements {
			w.writeStatement(stmt)
		}
		w.popIndent()
		w.writeLine("}")

	case *DeclaratorList:
		w.writeIndent()
		w.writeDeclaratorList(s)
		w.out.WriteString(";\n")

	case *ExpressionStatement:
		w.writeIndent()
		w.writeExpression(s.Expression)
		w.out.WriteString(";\n")

	case *SelectionStatement:
		w.writeIndent()
		w.writeSelection(s)

	case *IterationStatement:
		w.writeIteration(s)

	case *SwitchStatement:
		w.writeSwitch(s)

	case *JumpStatement:
		w.writeIndent()
		w.out.WriteString(s.Kind.String())
		if s.OptionalExpression != nil {
			w.out.WriteByte(' ')
			w.writeExpression(s.OptionalExpression)
		}
		w.out.WriteString(";\n")

	case *EmptyStatement:
		w.writeLine(";")

	case *Pragma:
		w.out.WriteString(s.Text)
		w.out.WriteByte('\n')

	default:
		panic(fmt.Sprintf("hlsl: cannot write %T as a statement", n))
	}
}

// writeBody writes a loop or branch body. Single statements are indented
// one level.
func (w *Writer) writeBody(n Node) {
	if _, ok := n.(*CompoundStatement); ok {
		w.writeStatement(n)
		return
	}
	w.pushIndent()
	w.writeStatement(n)
	w.popIndent()
}

// writeSelection writes an if statement starting on the current line.
func (w *Writer) writeSelection(s *SelectionStatement) {
	w.out.WriteString("if (")
	w.writeExpression(s.Condition)
	w.out.WriteString(")\n")
	w.writeBody(s.ThenStatement)

	if s.ElseStatement == nil {
		return
	}
	w.writeIndent()
	w.out.WriteString("else")
	if elseIf, ok := s.ElseStatement.(*SelectionStatement); ok && len(elseIf.Attributes) == 0 {
		w.out.WriteByte(' ')
		w.exprDepth = 0
		w.writeSelection(elseIf)
		return
	}
	w.out.WriteByte('\n')
	w.writeBody(s.ElseStatement)
}

func (w *Writer) writeIteration(s *IterationStatement) {
	switch s.Kind {
	case IterationFor:
		w.writeIndent()
		w.out.WriteString("for (")
		switch init := s.InitStatement.(type) {
		case nil:
		case *DeclaratorList:
			w.writeDeclaratorList(init)
		case *ExpressionStatement:
			w.writeExpression(init.Expression)
		default:
			panic(fmt.Sprintf("hlsl: cannot write %T as a for initializer", init))
		}
		w.out.WriteByte(';')
		if s.Condition != nil {
			w.out.WriteByte(' ')
			w.exprDepth = 0
			w.writeExpression(s.Condition)
		}
		w.out.WriteByte(';')
		if s.RestExpression != nil {
			w.out.WriteByte(' ')
			w.exprDepth = 0
			w.writeExpression(s.RestExpression)
		}
		w.out.WriteString(")\n")
		w.writeBody(s.Body)

	case IterationWhile:
		w.writeIndent()
		w.out.WriteString("while (")
		w.writeExpression(s.Condition)
		w.out.WriteString(")\n")
		w.writeBody(s.Body)

	case IterationDoWhile:
		w.writeLine("do")
		w.writeBody(s.Body)
		w.writeIndent()
		w.out.WriteString("while (")
		w.exprDepth = 0
		w.writeExpression(s.Condition)
		w.out.WriteString(");\n")

	default:
		panic(fmt.Sprintf("hlsl: unknown iteration kind %d", s.Kind))
	}
}

func (w *Writer) writeSwitch(s *SwitchStatement) {
	w.writeIndent()
	w.out.WriteString("switch (")
	w.writeExpression(s.Condition)
	w.out.WriteString(")\n")
	w.writeLine("{")
	w.pushIndent()
	for _, cs := range s.Body.Cases {
		for _, label := range cs.Labels {
			if label.IsDefault() {
				w.writeLine("default:")
				continue
			}
			w.writeIndent()
			w.out.WriteString("case ")
			w.exprDepth = 0
			w.writeExpression(label.TestExpression)
			w.out.WriteString(":\n")
		}
		w.pushIndent()
		for _, stmt := range cs.Statements {
			w.writeStatement(stmt)
		}
		w.popIndent()
	}
	w.popIndent()
	w.writeLine("}")
}

// needsParentheses reports whether op is wrapped when nested in another
// expression. An assignment is only exempt at statement level and as the
// value of another assignment, which writeAssignedValue handles.
func needsParentheses(op Operator) bool {
	return op.IsUnary() || op.IsBinary() || op == OpConditional || op.IsAssignment()
}

// writeFreshExpression writes an expression in a list position (argument,
// initializer, index) where nesting starts over. A comma expression is
// wrapped so it stays one element.
func (w *Writer) writeFreshExpression(e *Expression) {
	saved := w.exprDepth
	w.exprDepth = 0
	if e.Operator == OpComma {
		w.out.WriteByte('(')
		w.writeExpression(e)
		w.out.WriteByte(')')
	} else {
		w.writeExpression(e)
	}
	w.exprDepth = saved
}

func (w *Writer) writeExpression(e *Expression) {
	paren := w.exprDepth > 0 && needsParentheses(e.Operator)
	if paren {
		w.out.WriteByte('(')
	}
	assignment := e.Operator.IsAssignment()
	if !assignment {
		w.exprDepth++
	}

	switch op := e.Operator; {
	case op == OpIdentifier:
		w.out.WriteString(e.Identifier)

	case op.IsConstant():
		w.out.WriteString(literalText(e))

	case op == OpTypeCast:
		w.out.WriteByte('(')
		w.writeTypeSpecifier(e.TypeSpecifier)
		w.out.WriteByte(')')
		w.writeExpression(e.SubExpressions[0])

	case op.IsUnary():
		w.out.WriteString(op.String())
		w.writeExpression(e.SubExpressions[0])

	case op == OpPostInc || op == OpPostDec:
		w.writeExpression(e.SubExpressions[0])
		w.out.WriteString(op.String())

	case op == OpFieldSelection:
		w.writeExpression(e.SubExpressions[0])
		w.out.WriteByte('.')
		w.out.WriteString(e.Identifier)

	case op == OpArrayIndex:
		w.writeExpression(e.SubExpressions[0])
		w.out.WriteByte('[')
		w.writeFreshExpression(e.SubExpressions[1])
		w.out.WriteByte(']')

	case op == OpFunctionCall:
		w.writeExpression(e.SubExpressions[0])
		w.out.WriteByte('(')
		w.writeExpressionList(e.Expressions)
		w.out.WriteByte(')')

	case op == OpInitializerList:
		w.out.WriteByte('{')
		w.writeExpressionList(e.Expressions)
		w.out.WriteByte('}')

	case op == OpComma:
		w.writeExpression(e.SubExpressions[0])
		w.out.WriteString(", ")
		w.writeExpression(e.SubExpressions[1])

	case assignment:
		w.exprDepth++
		w.writeExpression(e.SubExpressions[0])
		w.exprDepth--
		w.out.WriteByte(' ')
		w.out.WriteString(op.String())
		w.out.WriteByte(' ')
		w.writeAssignedValue(e.SubExpressions[1])

	case op.IsBinary():
		w.writeExpression(e.SubExpressions[0])
		w.out.WriteByte(' ')
		w.out.WriteString(op.String())
		w.out.WriteByte(' ')
		w.writeExpression(e.SubExpressions[1])

	case op == OpConditional:
		w.writeExpression(e.SubExpressions[0])
		w.out.WriteString(" ? ")
		w.writeExpression(e.SubExpressions[1])
		w.out.WriteString(" : ")
		w.writeExpression(e.SubExpressions[2])

	default:
		panic(fmt.Sprintf("hlsl: cannot write operator %s", op))
	}

	if !assignment {
		w.exprDepth--
	}
	if paren {
		w.out.WriteByte(')')
	}
}

// writeAssignedValue writes the right side of an assignment at the
// assignment's own depth, so `a = b = c + d` stays unwrapped. A comma there
// binds looser than `=` and is always wrapped.
func (w *Writer) writeAssignedValue(e *Expression) {
	if w.exprDepth == 0 && e.Operator == OpComma {
		w.out.WriteByte('(')
		w.writeExpression(e)
		w.out.WriteByte(')')
		return
	}
	w.writeExpression(e)
}

func (w *Writer) writeExpressionList(list []*Expression) {
	for i, e := range list {
		if i > 0 {
			w.out.WriteString(", ")
		}
		w.writeFreshExpression(e)
	}
}

// literalText returns the source spelling of a literal. Literals built by
// rewrites have no lexeme and are formatted from their value.
func literalText(e *Expression) string {
	if e.Lexeme != "" {
		return e.Lexeme
	}
	switch e.Operator {
	case OpUintConstant:
		return strconv.FormatUint(uint64(e.UintValue), 10)
	case OpFloatConstant:
		text := strconv.FormatFloat(float64(e.FloatValue), 'g', -1, 32)
		if !strings.ContainsAny(text, ".eEn") {
			text += ".0"
		}
		return text
	case OpBoolConstant:
		return strconv.FormatBool(e.BoolValue)
	}
	panic(fmt.Sprintf("hlsl: %s is not a literal", e.Operator))
}
