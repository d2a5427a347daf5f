package parser

import (
	"bytes"
	"strings"
)

type Node interface {
	TokenLiteral() string
	String() string
}

type Expression interface {
	Node
	expressionNode()
}

// Rule is the root node: a single-parameter lambda whose body is one
// boolean expression over that parameter.
type Rule struct {
	Token Token // the 'lambda' token
	Param *Identifier
	Body  Expression
}

func (r *Rule) TokenLiteral() string { return r.Token.Literal }

func (r *Rule) String() string {
	var out bytes.Buffer
	out.WriteString("lambda ")
	if r.Param != nil {
		out.WriteString(r.Param.String())
	}
	out.WriteString(": ")
	if r.Body != nil {
		out.WriteString(r.Body.String())
	}
	return out.String()
}

// CountNodes reports the total number of AST nodes in the rule. The
// compiler rejects rules above a configured complexity limit.
func (r *Rule) CountNodes() int {
	count := 1
	if r.Param != nil {
		count++
	}
	return count + countExpressionNodes(r.Body)
}

func countExpressionNodes(expr Expression) int {
	switch e := expr.(type) {
	case nil:
		return 0
	case *PrefixExpression:
		return 1 + countExpressionNodes(e.Right)
	case *InfixExpression:
		return 1 + countExpressionNodes(e.Left) + countExpressionNodes(e.Right)
	case *CallExpression:
		count := 1 + countExpressionNodes(e.Function)
		for _, arg := range e.Arguments {
			count += countExpressionNodes(arg)
		}
		return count
	case *DotExpression:
		return 1 + countExpressionNodes(e.Left) + countExpressionNodes(e.Right)
	default:
		return 1
	}
}

type Identifier struct {
	Token Token // the IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

type IntegerLiteral struct {
	Token Token // the INT token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

type FloatLiteral struct {
	Token Token // the FLOAT token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FloatLiteral) String() string       { return fl.Token.Literal }

type BooleanLiteral struct {
	Token Token // the True or False token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }

type InfixExpression struct {
	Token    Token // the operator token, e.g. +, -, *, /, %, **, ==, <
	Left     Expression
	Operator string
	Right    Expression
}

func (oe *InfixExpression) expressionNode()      {}
func (oe *InfixExpression) TokenLiteral() string { return oe.Token.Literal }
func (oe *InfixExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	if oe.Left != nil {
		out.WriteString(oe.Left.String())
	}
	out.WriteString(" " + oe.Operator + " ")
	if oe.Right != nil {
		out.WriteString(oe.Right.String())
	}
	out.WriteString(")")
	return out.String()
}

type PrefixExpression struct {
	Token    Token // the prefix token, e.g. not, -
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(pe.Operator)
	if pe.Operator == "not" {
		out.WriteString(" ")
	}
	if pe.Right != nil {
		out.WriteString(pe.Right.String())
	}
	out.WriteString(")")
	return out.String()
}

type CallExpression struct {
	Token     Token      // the '(' token
	Function  Expression // Identifier or DotExpression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	var out bytes.Buffer
	var args []string
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}
	if ce.Function != nil {
		out.WriteString(ce.Function.String())
	}
	out.WriteString("(")
	out.WriteString(strings.Join(args, ", "))
	out.WriteString(")")
	return out.String()
}

type DotExpression struct {
	Token Token // the '.' token
	Left  Expression
	Right Expression
}

func (de *DotExpression) expressionNode()      {}
func (de *DotExpression) TokenLiteral() string { return de.Token.Literal }
func (de *DotExpression) String() string {
	var out bytes.Buffer
	if de.Left != nil {
		out.WriteString(de.Left.String())
	}
	out.WriteString(".")
	if de.Right != nil {
		out.WriteString(de.Right.String())
	}
	return out.String()
}
