// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

// Node is implemented by every AST node. The set of node types is closed:
// only types declared in this package can satisfy it.
type Node interface {
	Pos() Span
	Attrs() []*Attribute
	setAttrs([]*Attribute)
}

// base carries the fields shared by every node.
type base struct {
	Span       Span
	Attributes []*Attribute
}

func (b *base) Pos() Span { return b.Span }
func (b *base) Attrs() []*Attribute { return b.Attributes }
func (b *base) setAttrs(a []*Attribute) { b.Attributes = a }

// Operator identifies the kind of an Expression.
type Operator uint8

const (
	OpInvalid Operator = iota

	// Leaves
	OpIdentifier
	OpUintConstant
	OpFloatConstant
	OpBoolConstant

	// Prefix unary
	OpPlus
	OpNegate
	OpLogicalNot
	OpBitNot
	OpPreInc
	OpPreDec
	OpTypeCast

	// Postfix
	OpPostInc
	OpPostDec
	OpFieldSelection
	OpArrayIndex
	OpFunctionCall
	OpInitializerList

	// Binary
	OpMul
	OpDiv
	OpMod
	OpAdd
	OpSub
	OpShl
	OpShr
	OpLess
	OpGreater
	OpLessEqual
	OpGreaterEqual
	OpEqual
	OpNotEqual
	OpBitAnd
	OpBitXor
	OpBitOr
	OpLogicalAnd
	OpLogicalOr
	OpComma

	OpConditional

	// Assignment
	OpAssign
	OpMulAssign
	OpDivAssign
	OpModAssign
	OpAddAssign
	OpSubAssign
	OpShlAssign
	OpShrAssign
	OpAndAssign
	OpXorAssign
	OpOrAssign

	operatorCount
)

var operatorSpellings = [operatorCount]string{
	OpPlus:         "+",
	OpNegate:       "-",
	OpLogicalNot:   "!",
	OpBitNot:       "~",
	OpPreInc:       "++",
	OpPreDec:       "--",
	OpPostInc:      "++",
	OpPostDec:      "--",
	OpMul:          "*",
	OpDiv:          "/",
	OpMod:          "%",
	OpAdd:          "+",
	OpSub:          "-",
	OpShl:          "<<",
	OpShr:          ">>",
	OpLess:         "<",
	OpGreater:      ">",
	OpLessEqual:    "<=",
	OpGreaterEqual: ">=",
	OpEqual:        "==",
	OpNotEqual:     "!=",
	OpBitAnd:       "&",
	OpBitXor:       "^",
	OpBitOr:        "|",
	OpLogicalAnd:   "&&",
	OpLogicalOr:    "||",
	OpComma:        ",",
	OpAssign:       "=",
	OpMulAssign:    "*=",
	OpDivAssign:    "/=",
	OpModAssign:    "%=",
	OpAddAssign:    "+=",
	OpSubAssign:    "-=",
	OpShlAssign:    "<<=",
	OpShrAssign:    ">>=",
	OpAndAssign:    "&=",
	OpXorAssign:    "^=",
	OpOrAssign:     "|=",
}

var operatorNames = [operatorCount]string{
	OpInvalid:         "Invalid",
	OpIdentifier:      "Identifier",
	OpUintConstant:    "UintConstant",
	OpFloatConstant:   "FloatConstant",
	OpBoolConstant:    "BoolConstant",
	OpTypeCast:        "TypeCast",
	OpFieldSelection:  "FieldSelection",
	OpArrayIndex:      "ArrayIndex",
	OpFunctionCall:    "FunctionCall",
	OpInitializerList: "InitializerList",
	OpConditional:     "?:",
}

// String returns the source spelling of the operator, or its name when it
// has none.
func (op Operator) String() string {
	if op < operatorCount {
		if s := operatorSpellings[op]; s != "" {
			return s
		}
		if s := operatorNames[op]; s != "" {
			return s
		}
	}
	return "Operator(?)"
}

// IsUnary reports whether op is a prefix operator with one operand.
func (op Operator) IsUnary() bool { return op >= OpPlus && op <= OpTypeCast }

// IsBinary reports whether op is an infix operator, assignment excluded.
func (op Operator) IsBinary() bool { return op >= OpMul && op <= OpComma }

// IsAssignment reports whether op belongs to the assignment family.
func (op Operator) IsAssignment() bool { return op >= OpAssign && op <= OpOrAssign }

// IsConstant reports whether op is a literal.
func (op Operator) IsConstant() bool { return op >= OpUintConstant && op <= OpBoolConstant }

// Expression is the single node type for every expression form. The
// operator decides which fields are meaningful:
//
//	literals          Lexeme plus the matching value field
//	OpIdentifier      Identifier (possibly qualified, "Ns::Name")
//	unary / postfix   SubExpressions[0]
//	binary            SubExpressions[0], SubExpressions[1]
//	OpConditional     SubExpressions[0..2]
//	OpTypeCast        TypeSpecifier, SubExpressions[0]
//	OpFieldSelection  SubExpressions[0], Identifier
//	OpArrayIndex      SubExpressions[0], SubExpressions[1]
//	OpFunctionCall    SubExpressions[0] is the callee, Expressions the arguments
//	OpInitializerList Expressions
type Expression struct {
	base
	Operator       Operator
	SubExpressions [3]*Expression
	Identifier     string
	Lexeme         string
	UintValue      uint32
	FloatValue     float32
	BoolValue      bool
	TypeSpecifier  *TypeSpecifier
	Expressions    []*Expression
}

// TypeQualifier is the set of storage, interpolation, matrix order and
// primitive modifiers of a declaration.
type TypeQualifier uint32

const (
	QualConst TypeQualifier = 1 << iota
	QualStatic
	QualIn
	QualOut
	QualInOut
	QualUniform
	QualGroupShared
	QualLinear
	QualCentroid
	QualNoInterpolation
	QualNoPerspective
	QualSample
	QualRowMajor
	QualColumnMajor
	QualPoint
	QualLine
	QualLineAdj
	QualTriangle
	QualTriangleAdj
)

const (
	qualInterpolation = QualLinear | QualCentroid | QualNoInterpolation | QualNoPerspective | QualSample
	qualPrimitive     = QualPoint | QualLine | QualLineAdj | QualTriangle | QualTriangleAdj
)

// qualifierOrder is the order qualifiers are written in.
var qualifierOrder = []struct {
	bit  TypeQualifier
	text string
}{
	{QualPoint, "point"},
	{QualLine, "line"},
	{QualLineAdj, "lineadj"},
	{QualTriangle, "triangle"},
	{QualTriangleAdj, "triangleadj"},
	{QualGroupShared, "groupshared"},
	{QualStatic, "static"},
	{QualConst, "const"},
	{QualIn, "in"},
	{QualOut, "out"},
	{QualInOut, "inout"},
	{QualUniform, "uniform"},
	{QualLinear, "linear"},
	{QualCentroid, "centroid"},
	{QualNoInterpolation, "nointerpolation"},
	{QualNoPerspective, "noperspective"},
	{QualSample, "sample"},
	{QualRowMajor, "row_major"},
	{QualColumnMajor, "column_major"},
}

// Has reports whether every bit of other is set.
func (q TypeQualifier) Has(other TypeQualifier) bool { return q&other == other }

// IsOutput reports whether the declaration is written by the callee.
func (q TypeQualifier) IsOutput() bool { return q&(QualOut|QualInOut) != 0 }

// Interpolation returns only the interpolation modifiers of q.
func (q TypeQualifier) Interpolation() TypeQualifier { return q & qualInterpolation }

// TypeSpecifier names a type: a basic type, a resource with its template
// arguments, a user struct, or an inline struct definition.
type TypeSpecifier struct {
	base
	TypeName            string
	InnerType           string
	TextureMSNumSamples int
	PatchSize           int
	Structure           *StructSpecifier
}

// FullySpecifiedType is a qualifier set applied to a type specifier.
type FullySpecifiedType struct {
	base
	Qualifier TypeQualifier
	Specifier *TypeSpecifier
}

// Declaration is one declarator: `Name[4] : SEMANTIC : register(t0) = init`.
// A nil entry in ArraySize is an unsized dimension.
type Declaration struct {
	base
	Identifier  string
	ArraySize   []*Expression
	Semantic    string
	Register    string
	PackOffset  string
	Initializer *Expression
}

// IsArray reports whether the declarator has array dimensions.
func (d *Declaration) IsArray() bool { return len(d.ArraySize) > 0 }

// DeclaratorList is a type followed by declarators. With no declarators
// and an inline struct it is a struct declaration.
type DeclaratorList struct {
	base
	Type         *FullySpecifiedType
	Declarations []*Declaration
}

// ParameterDeclarator is one function parameter.
type ParameterDeclarator struct {
	base
	Type        *FullySpecifiedType
	Declaration *Declaration
}

// Function is a function prototype.
type Function struct {
	base
	ReturnType     *FullySpecifiedType
	Identifier     string
	ReturnSemantic string
	Parameters     []*ParameterDeclarator
}

// FunctionDefinition is a prototype with its body.
type FunctionDefinition struct {
	base
	Prototype *Function
	Body      *CompoundStatement
}

// StructSpecifier is a struct definition.
type StructSpecifier struct {
	base
	Name       string
	ParentName string
	Members    []*DeclaratorList
}

// CBufferDeclaration is a constant buffer definition.
type CBufferDeclaration struct {
	base
	Name     string
	Register string
	Members  []*DeclaratorList
}

// Pragma is a #pragma line kept verbatim.
type Pragma struct {
	base
	Text string
}

// CompoundStatement is a braced statement block.
type CompoundStatement struct {
	base
	Statements []Node
}

// ExpressionStatement is an expression followed by ';'.
type ExpressionStatement struct {
	base
	Expression *Expression
}

// EmptyStatement is a lone ';'.
type EmptyStatement struct {
	base
}

// SelectionStatement is an if statement with an optional else branch.
type SelectionStatement struct {
	base
	Condition     *Expression
	ThenStatement Node
	ElseStatement Node
}

// IterationKind selects the loop form of an IterationStatement.
type IterationKind uint8

const (
	IterationFor IterationKind = iota
	IterationWhile
	IterationDoWhile
)

// IterationStatement is a for, while or do-while loop. InitStatement is a
// *DeclaratorList or an *ExpressionStatement and only used by for loops.
type IterationStatement struct {
	base
	Kind           IterationKind
	InitStatement  Node
	Condition      *Expression
	RestExpression *Expression
	Body           Node
}

// SwitchStatement is a switch over Condition.
type SwitchStatement struct {
	base
	Condition *Expression
	Body      *SwitchBody
}

// SwitchBody holds the cases of a switch.
type SwitchBody struct {
	base
	Cases []*CaseStatement
}

// CaseStatement is one or more labels followed by statements.
type CaseStatement struct {
	base
	Labels     []*CaseLabel
	Statements []Node
}

// CaseLabel is `case Expr:` or, with a nil TestExpression, `default:`.
type CaseLabel struct {
	base
	TestExpression *Expression
}

// IsDefault reports whether the label is `default:`.
func (l *CaseLabel) IsDefault() bool { return l.TestExpression == nil }

// JumpKind selects the form of a JumpStatement.
type JumpKind uint8

const (
	JumpReturn JumpKind = iota
	JumpBreak
	JumpContinue
	JumpDiscard
)

func (k JumpKind) String() string {
	switch k {
	case JumpReturn:
		return "return"
	case JumpBreak:
		return "break"
	case JumpContinue:
		return "continue"
	case JumpDiscard:
		return "discard"
	}
	return "JumpKind(?)"
}

// JumpStatement is return, break, continue or discard.
type JumpStatement struct {
	base
	Kind               JumpKind
	OptionalExpression *Expression
}

// Attribute is a `[name(args)]` decoration.
type Attribute struct {
	base
	Name      string
	Arguments []*AttributeArgument
}

// AttributeArgument is a string literal or an expression.
type AttributeArgument struct {
	base
	StringArgument string
	Expression     *Expression
}
