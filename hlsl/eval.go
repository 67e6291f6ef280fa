// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package hlsl

import (
	"errors"
	"fmt"

	"github.com/cznic/mathutil"
)

var (
	// ErrNotConstant is returned when an expression cannot be folded.
	ErrNotConstant = errors.New("expression is not constant")

	// ErrDivideByZero is returned when a division or modulo has a folded
	// zero divisor.
	ErrDivideByZero = errors.New("division by zero in constant expression")
)

// ConstantIntValue folds the expression to an integer. Float literals are
// truncated and booleans become 0 or 1.
func (e *Expression) ConstantIntValue() (int64, error) {
	if e == nil {
		return 0, ErrNotConstant
	}

	switch e.Operator {
	case OpUintConstant:
		return int64(e.UintValue), nil
	case OpFloatConstant:
		return int64(e.FloatValue), nil
	case OpBoolConstant:
		return boolToInt(e.BoolValue), nil
	case OpIdentifier:
		return 0, fmt.Errorf("%w: identifier '%s'", ErrNotConstant, e.Identifier)
	case OpTypeCast:
		return e.SubExpressions[0].ConstantIntValue()
	}

	if e.Operator.IsUnary() {
		v, err := e.SubExpressions[0].ConstantIntValue()
		if err != nil {
			return 0, err
		}
		switch e.Operator {
		case OpPlus:
			return v, nil
		case OpNegate:
			return -v, nil
		case OpBitNot:
			return ^v, nil
		case OpLogicalNot:
			return boolToInt(v == 0), nil
		}
		return 0, fmt.Errorf("%w: operator '%s'", ErrNotConstant, e.Operator)
	}

	if e.Operator == OpConditional {
		cond, err := e.SubExpressions[0].ConstantIntValue()
		if err != nil {
			return 0, err
		}
		if cond != 0 {
			return e.SubExpressions[1].ConstantIntValue()
		}
		return e.SubExpressions[2].ConstantIntValue()
	}

	if !e.Operator.IsBinary() || e.Operator == OpComma {
		return 0, fmt.Errorf("%w: operator '%s'", ErrNotConstant, e.Operator)
	}

	lhs, err := e.SubExpressions[0].ConstantIntValue()
	if err != nil {
		return 0, err
	}
	rhs, err := e.SubExpressions[1].ConstantIntValue()
	if err != nil {
		return 0, err
	}
	return foldBinary(e.Operator, lhs, rhs)
}

func foldBinary(op Operator, lhs, rhs int64) (int64, error) {
	switch op {
	case OpAdd:
		return lhs + rhs, nil
	case OpSub:
		return lhs - rhs, nil
	case OpMul:
		return lhs * rhs, nil
	case OpDiv:
		if rhs == 0 {
			return 0, ErrDivideByZero
		}
		return lhs / rhs, nil
	case OpMod:
		if rhs == 0 {
			return 0, ErrDivideByZero
		}
		return lhs % rhs, nil
	case OpShl:
		return lhs << shiftCount(rhs), nil
	case OpShr:
		return lhs >> shiftCount(rhs), nil
	case OpLess:
		return boolToInt(lhs < rhs), nil
	case OpGreater:
		return boolToInt(lhs > rhs), nil
	case OpLessEqual:
		return boolToInt(lhs <= rhs), nil
	case OpGreaterEqual:
		return boolToInt(lhs >= rhs), nil
	case OpEqual:
		return boolToInt(lhs == rhs), nil
	case OpNotEqual:
		return boolToInt(lhs != rhs), nil
	case OpBitAnd:
		return lhs & rhs, nil
	case OpBitXor:
		return lhs ^ rhs, nil
	case OpBitOr:
		return lhs | rhs, nil
	case OpLogicalAnd:
		return boolToInt(lhs != 0 && rhs != 0), nil
	case OpLogicalOr:
		return boolToInt(lhs != 0 || rhs != 0), nil
	}
	return 0, fmt.Errorf("%w: operator '%s'", ErrNotConstant, op)
}

// shiftCount keeps shifts inside the 64-bit range.
func shiftCount(n int64) uint {
	if n > 63 {
		return 63
	}
	return uint(mathutil.Clamp(int(n), 0, 63))
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
