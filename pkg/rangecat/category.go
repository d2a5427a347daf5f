package rangecat

import (
	"github.com/mungbai/rangecat/pkg/rangecat/errors"
	"github.com/mungbai/rangecat/pkg/rangecat/parser"
)

// Category is a named predicate applied to every number in an analyzed
// range. Implementations are immutable after construction and safe for
// concurrent use.
type Category interface {
	// Label is the display name from configuration.
	Label() string
	// Source is the rule specification the category was built from.
	Source() string
	// Matches reports whether x belongs to the category. A non-nil
	// error means the rule faulted for this x; callers treat the
	// category as non-matching for that number only.
	Matches(x int64) (bool, error)
}

// builtinCategory backs the reserved rule tags. The predicates are pure
// arithmetic and never fail.
type builtinCategory struct {
	label  string
	source string
	fn     func(int64) bool
}

func (c *builtinCategory) Label() string  { return c.label }
func (c *builtinCategory) Source() string { return c.source }

func (c *builtinCategory) Matches(x int64) (bool, error) {
	return c.fn(x), nil
}

func isEven(x int64) bool {
	return x%2 == 0
}

func isOdd(x int64) bool {
	return !isEven(x)
}

func isPrime(x int64) bool {
	if x < 2 {
		return false
	}
	if x == 2 {
		return true
	}
	if x%2 == 0 {
		return false
	}
	// d <= x/d avoids overflowing d*d near the int64 limit
	for d := int64(3); d <= x/d; d += 2 {
		if x%d == 0 {
			return false
		}
	}
	return true
}

// exprCategory wraps a compiled rule expression. Each Matches call runs
// a fresh evaluator over the shared AST, so instances can be used from
// multiple goroutines.
type exprCategory struct {
	label    string
	source   string
	rule     *parser.Rule
	maxSteps int
}

func (c *exprCategory) Label() string  { return c.label }
func (c *exprCategory) Source() string { return c.source }

func (c *exprCategory) Matches(x int64) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			matched = false
			err = errors.Newf(errors.ErrRuleEval, "panic during rule evaluation: %v", r).
				WithDetail("category", c.label).
				WithDetail("number", x)
		}
	}()

	evaluator := NewEvaluator(c.rule.Param.Value, x, c.maxSteps)
	result := evaluator.Eval(c.rule.Body)

	if errObj, ok := result.(*Error); ok {
		return false, errors.Newf(errors.ErrRuleEval, "%s", errObj.Message).
			WithDetail("category", c.label).
			WithDetail("number", x)
	}

	b, ok := result.(*Boolean)
	if !ok {
		return false, errors.Newf(errors.ErrRuleEval, "rule produced %s, want BOOLEAN", result.Type()).
			WithDetail("category", c.label).
			WithDetail("number", x)
	}

	return b.Value, nil
}
