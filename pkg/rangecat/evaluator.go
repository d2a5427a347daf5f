package rangecat

import (
	"fmt"
	"math"

	"github.com/mungbai/rangecat/pkg/rangecat/parser"
)

type Object interface {
	Type() ObjectType
	Inspect() string
}

type ObjectType string

const (
	INTEGER_OBJ = "INTEGER"
	FLOAT_OBJ   = "FLOAT"
	BOOLEAN_OBJ = "BOOLEAN"
	ERROR_OBJ   = "ERROR"
)

type Integer struct {
	Value int64
}

func (i *Integer) Inspect() string  { return fmt.Sprintf("%d", i.Value) }
func (i *Integer) Type() ObjectType { return INTEGER_OBJ }

type Float struct {
	Value float64
}

func (f *Float) Inspect() string  { return fmt.Sprintf("%f", f.Value) }
func (f *Float) Type() ObjectType { return FLOAT_OBJ }

type Boolean struct {
	Value bool
}

func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }
func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }

type Error struct {
	Message string
}

func (e *Error) Inspect() string  { return "ERROR: " + e.Message }
func (e *Error) Type() ObjectType { return ERROR_OBJ }

// Evaluator executes one rule body against one bound integer. It holds
// no shared state, so a fresh value is used per evaluation and the
// compiled AST can be shared across goroutines.
type Evaluator struct {
	param    string
	x        int64
	steps    int
	maxSteps int
}

func NewEvaluator(param string, x int64, maxSteps int) *Evaluator {
	return &Evaluator{
		param:    param,
		x:        x,
		maxSteps: maxSteps,
	}
}

func (e *Evaluator) Eval(node parser.Expression) Object {
	if e.maxSteps > 0 {
		e.steps++
		if e.steps > e.maxSteps {
			return newError("evaluation budget of %d steps exceeded", e.maxSteps)
		}
	}

	switch node := node.(type) {
	case *parser.InfixExpression:
		// and/or short-circuit, so the right side is only reached when
		// the left side did not already decide the result.
		switch node.Operator {
		case "and", "&&":
			return e.evalAndExpression(node)
		case "or", "||":
			return e.evalOrExpression(node)
		}

		left := e.Eval(node.Left)
		if isError(left) {
			return left
		}
		right := e.Eval(node.Right)
		if isError(right) {
			return right
		}
		return e.evalInfixExpression(node.Operator, left, right)

	case *parser.PrefixExpression:
		return e.evalPrefixExpression(node)

	case *parser.CallExpression:
		return e.evalCallExpression(node)

	case *parser.DotExpression:
		return newError("%s is not a value: namespace members can only be called", node.String())

	case *parser.Identifier:
		return e.evalIdentifier(node)

	case *parser.IntegerLiteral:
		return &Integer{Value: node.Value}

	case *parser.FloatLiteral:
		return &Float{Value: node.Value}

	case *parser.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)

	default:
		return newError("unknown node type: %T", node)
	}
}

func (e *Evaluator) evalAndExpression(node *parser.InfixExpression) Object {
	left := e.Eval(node.Left)
	if isError(left) {
		return left
	}
	lb, ok := left.(*Boolean)
	if !ok {
		return newError("operator and requires boolean operands, got %s", left.Type())
	}
	if !lb.Value {
		return FALSE
	}

	right := e.Eval(node.Right)
	if isError(right) {
		return right
	}
	rb, ok := right.(*Boolean)
	if !ok {
		return newError("operator and requires boolean operands, got %s", right.Type())
	}
	return nativeBoolToBooleanObject(rb.Value)
}

func (e *Evaluator) evalOrExpression(node *parser.InfixExpression) Object {
	left := e.Eval(node.Left)
	if isError(left) {
		return left
	}
	lb, ok := left.(*Boolean)
	if !ok {
		return newError("operator or requires boolean operands, got %s", left.Type())
	}
	if lb.Value {
		return TRUE
	}

	right := e.Eval(node.Right)
	if isError(right) {
		return right
	}
	rb, ok := right.(*Boolean)
	if !ok {
		return newError("operator or requires boolean operands, got %s", right.Type())
	}
	return nativeBoolToBooleanObject(rb.Value)
}

func (e *Evaluator) evalPrefixExpression(node *parser.PrefixExpression) Object {
	right := e.Eval(node.Right)
	if isError(right) {
		return right
	}

	switch node.Operator {
	case "-":
		switch r := right.(type) {
		case *Integer:
			if r.Value == math.MinInt64 {
				return newError("integer overflow in -(%d)", r.Value)
			}
			return &Integer{Value: -r.Value}
		case *Float:
			return &Float{Value: -r.Value}
		default:
			return newError("unknown operator: -%s", right.Type())
		}
	case "not", "!":
		b, ok := right.(*Boolean)
		if !ok {
			return newError("operator not requires a boolean, got %s", right.Type())
		}
		return nativeBoolToBooleanObject(!b.Value)
	default:
		return newError("unknown operator: %s%s", node.Operator, right.Type())
	}
}

func (e *Evaluator) evalInfixExpression(operator string, left, right Object) Object {
	switch {
	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return e.evalIntegerInfixExpression(operator, left, right)
	case isNumeric(left) && isNumeric(right):
		return e.evalFloatInfixExpression(operator, left, right)
	case left.Type() == BOOLEAN_OBJ && right.Type() == BOOLEAN_OBJ:
		return e.evalBooleanInfixExpression(operator, left, right)
	default:
		return newError("type mismatch: %s %s %s", left.Type(), operator, right.Type())
	}
}

func (e *Evaluator) evalIntegerInfixExpression(operator string, left, right Object) Object {
	leftVal := left.(*Integer).Value
	rightVal := right.(*Integer).Value

	switch operator {
	case "+":
		result, ok := addInt64(leftVal, rightVal)
		if !ok {
			return newError("integer overflow in %d + %d", leftVal, rightVal)
		}
		return &Integer{Value: result}
	case "-":
		result, ok := subInt64(leftVal, rightVal)
		if !ok {
			return newError("integer overflow in %d - %d", leftVal, rightVal)
		}
		return &Integer{Value: result}
	case "*":
		result, ok := mulInt64(leftVal, rightVal)
		if !ok {
			return newError("integer overflow in %d * %d", leftVal, rightVal)
		}
		return &Integer{Value: result}
	case "/":
		// true division: the result is always a float
		if rightVal == 0 {
			return newError("division by zero")
		}
		return &Float{Value: float64(leftVal) / float64(rightVal)}
	case "%":
		if rightVal == 0 {
			return newError("modulo by zero")
		}
		return &Integer{Value: leftVal % rightVal}
	case "**":
		return e.evalIntegerPow(leftVal, rightVal)
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal)
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal)
	case "<=":
		return nativeBoolToBooleanObject(leftVal <= rightVal)
	case ">=":
		return nativeBoolToBooleanObject(leftVal >= rightVal)
	case "==":
		return nativeBoolToBooleanObject(leftVal == rightVal)
	case "!=":
		return nativeBoolToBooleanObject(leftVal != rightVal)
	default:
		return newError("unknown operator: %s", operator)
	}
}

// evalIntegerPow keeps integer base with non-negative integer exponent
// integral; a negative exponent falls back to floats.
func (e *Evaluator) evalIntegerPow(base, exp int64) Object {
	if exp < 0 {
		return &Float{Value: math.Pow(float64(base), float64(exp))}
	}

	result := int64(1)
	b := base
	n := exp
	for n > 0 {
		if n&1 == 1 {
			r, ok := mulInt64(result, b)
			if !ok {
				return newError("integer overflow in %d ** %d", base, exp)
			}
			result = r
		}
		n >>= 1
		if n > 0 {
			r, ok := mulInt64(b, b)
			if !ok {
				return newError("integer overflow in %d ** %d", base, exp)
			}
			b = r
		}
	}
	return &Integer{Value: result}
}

func (e *Evaluator) evalFloatInfixExpression(operator string, left, right Object) Object {
	leftVal := e.objectToFloat(left)
	rightVal := e.objectToFloat(right)

	switch operator {
	case "+":
		return &Float{Value: leftVal + rightVal}
	case "-":
		return &Float{Value: leftVal - rightVal}
	case "*":
		return &Float{Value: leftVal * rightVal}
	case "/":
		if rightVal == 0 {
			return newError("division by zero")
		}
		return &Float{Value: leftVal / rightVal}
	case "%":
		if rightVal == 0 {
			return newError("modulo by zero")
		}
		return &Float{Value: math.Mod(leftVal, rightVal)}
	case "**":
		return &Float{Value: math.Pow(leftVal, rightVal)}
	case "<":
		return nativeBoolToBooleanObject(leftVal < rightVal)
	case ">":
		return nativeBoolToBooleanObject(leftVal > rightVal)
	case "<=":
		return nativeBoolToBooleanObject(leftVal <= rightVal)
	case ">=":
		return nativeBoolToBooleanObject(leftVal >= rightVal)
	case "==":
		return nativeBoolToBooleanObject(leftVal == rightVal)
	case "!=":
		return nativeBoolToBooleanObject(leftVal != rightVal)
	default:
		return newError("unknown operator: %s", operator)
	}
}

func (e *Evaluator) evalBooleanInfixExpression(operator string, left, right Object) Object {
	leftVal := left.(*Boolean).Value
	rightVal := right.(*Boolean).Value

	switch operator {
	case "==":
		return nativeBoolToBooleanObject(leftVal == rightVal)
	case "!=":
		return nativeBoolToBooleanObject(leftVal != rightVal)
	default:
		return newError("unknown operator: %s", operator)
	}
}

func (e *Evaluator) evalCallExpression(node *parser.CallExpression) Object {
	switch fn := node.Function.(type) {
	case *parser.Identifier:
		args := e.evalExpressions(node.Arguments)
		if len(args) == 1 && isError(args[0]) {
			return args[0]
		}
		return e.callFunction(fn.Value, args)

	case *parser.DotExpression:
		ns, ok := fn.Left.(*parser.Identifier)
		name, ok2 := fn.Right.(*parser.Identifier)
		if !ok || !ok2 || ns.Value != "math" {
			return newError("unknown function: %s", fn.String())
		}
		args := e.evalExpressions(node.Arguments)
		if len(args) == 1 && isError(args[0]) {
			return args[0]
		}
		return e.callMathFunction(name.Value, args)

	default:
		return newError("invalid function call")
	}
}

func (e *Evaluator) evalExpressions(exps []parser.Expression) []Object {
	var result []Object

	for _, exp := range exps {
		evaluated := e.Eval(exp)
		if isError(evaluated) {
			return []Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

func (e *Evaluator) callFunction(name string, args []Object) Object {
	switch name {
	case "abs":
		if len(args) != 1 {
			return newError("wrong number of arguments for abs: got=%d, want=1", len(args))
		}
		switch a := args[0].(type) {
		case *Integer:
			if a.Value == math.MinInt64 {
				return newError("integer overflow in abs(%d)", a.Value)
			}
			if a.Value < 0 {
				return &Integer{Value: -a.Value}
			}
			return &Integer{Value: a.Value}
		case *Float:
			return &Float{Value: math.Abs(a.Value)}
		default:
			return newError("abs requires a number, got %s", args[0].Type())
		}
	case "int":
		if len(args) != 1 {
			return newError("wrong number of arguments for int: got=%d, want=1", len(args))
		}
		switch a := args[0].(type) {
		case *Integer:
			return &Integer{Value: a.Value}
		case *Float:
			return e.truncateFloat(a.Value)
		default:
			return newError("int requires a number, got %s", args[0].Type())
		}
	default:
		return newError("unknown function: %s", name)
	}
}

func (e *Evaluator) callMathFunction(name string, args []Object) Object {
	switch name {
	case "sqrt":
		if len(args) != 1 {
			return newError("wrong number of arguments for math.sqrt: got=%d, want=1", len(args))
		}
		val, ok := e.numericArg(args[0])
		if !ok {
			return newError("math.sqrt requires a number, got %s", args[0].Type())
		}
		if val < 0 {
			return newError("math domain error: sqrt of negative number")
		}
		return &Float{Value: math.Sqrt(val)}
	case "pow":
		if len(args) != 2 {
			return newError("wrong number of arguments for math.pow: got=%d, want=2", len(args))
		}
		base, ok := e.numericArg(args[0])
		exp, ok2 := e.numericArg(args[1])
		if !ok || !ok2 {
			return newError("math.pow requires numbers")
		}
		result := math.Pow(base, exp)
		if math.IsNaN(result) {
			return newError("math domain error: pow(%g, %g)", base, exp)
		}
		if math.IsInf(result, 0) {
			return newError("math range error: pow(%g, %g)", base, exp)
		}
		return &Float{Value: result}
	case "floor":
		if len(args) != 1 {
			return newError("wrong number of arguments for math.floor: got=%d, want=1", len(args))
		}
		switch a := args[0].(type) {
		case *Integer:
			return &Integer{Value: a.Value}
		case *Float:
			return e.truncateFloat(math.Floor(a.Value))
		default:
			return newError("math.floor requires a number, got %s", args[0].Type())
		}
	case "ceil":
		if len(args) != 1 {
			return newError("wrong number of arguments for math.ceil: got=%d, want=1", len(args))
		}
		switch a := args[0].(type) {
		case *Integer:
			return &Integer{Value: a.Value}
		case *Float:
			return e.truncateFloat(math.Ceil(a.Value))
		default:
			return newError("math.ceil requires a number, got %s", args[0].Type())
		}
	default:
		return newError("unknown function: math.%s", name)
	}
}

// truncateFloat converts toward zero, rejecting values an int64 cannot
// represent.
func (e *Evaluator) truncateFloat(val float64) Object {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return newError("cannot convert %f to integer", val)
	}
	truncated := math.Trunc(val)
	if truncated < math.MinInt64 || truncated >= math.MaxInt64 {
		return newError("integer overflow converting %g to integer", val)
	}
	return &Integer{Value: int64(truncated)}
}

func (e *Evaluator) evalIdentifier(node *parser.Identifier) Object {
	if node.Value == e.param {
		return &Integer{Value: e.x}
	}
	return newError("identifier not found: %s", node.Value)
}

func (e *Evaluator) numericArg(obj Object) (float64, bool) {
	switch o := obj.(type) {
	case *Integer:
		return float64(o.Value), true
	case *Float:
		return o.Value, true
	default:
		return 0, false
	}
}

func (e *Evaluator) objectToFloat(obj Object) float64 {
	switch o := obj.(type) {
	case *Integer:
		return float64(o.Value)
	case *Float:
		return o.Value
	default:
		return 0
	}
}

func isNumeric(obj Object) bool {
	return obj.Type() == INTEGER_OBJ || obj.Type() == FLOAT_OBJ
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

func newError(format string, a ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, a...)}
}

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

func addInt64(a, b int64) (int64, bool) {
	sum := a + b
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
		return 0, false
	}
	return sum, true
}

func subInt64(a, b int64) (int64, bool) {
	diff := a - b
	if (a >= 0 && b < 0 && diff < 0) || (a < 0 && b > 0 && diff >= 0) {
		return 0, false
	}
	return diff, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	// MinInt64 * -1 would also make the check division below trap
	if a == math.MinInt64 && b == -1 || a == -1 && b == math.MinInt64 {
		return 0, false
	}
	product := a * b
	if product/b != a {
		return 0, false
	}
	return product, true
}

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)
