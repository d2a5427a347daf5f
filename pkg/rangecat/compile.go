package rangecat

import (
	"fmt"
	"strings"

	"github.com/mungbai/rangecat/pkg/rangecat/errors"
	"github.com/mungbai/rangecat/pkg/rangecat/logging"
	"github.com/mungbai/rangecat/pkg/rangecat/parser"
)

// RuleSpec pairs a display label with its rule specification as
// configured. The rule is either one of the reserved tags (even, odd,
// prime; exact match) or a lambda expression.
type RuleSpec struct {
	Label string
	Rule  string
}

// CompileCategories resolves every rule specification into a Category,
// preserving order. A rule that fails to compile is skipped with a
// diagnostic and reported in the returned error list; one bad rule
// never aborts the load.
func CompileCategories(specs []RuleSpec, limits Limits) ([]Category, []error) {
	log := logging.GetLogger("compiler")

	categories := make([]Category, 0, len(specs))
	var skipped []error

	for _, spec := range specs {
		category, err := compileCategory(spec, limits)
		if err != nil {
			log.Warn().
				Str("label", spec.Label).
				Str("rule", spec.Rule).
				Err(err).
				Msg("Skipping category: rule failed to compile")
			skipped = append(skipped, err)
			continue
		}
		log.Debug().
			Str("label", category.Label()).
			Str("rule", category.Source()).
			Msg("Compiled category")
		categories = append(categories, category)
	}

	return categories, skipped
}

func compileCategory(spec RuleSpec, limits Limits) (Category, error) {
	switch spec.Rule {
	case "even":
		return &builtinCategory{label: spec.Label, source: spec.Rule, fn: isEven}, nil
	case "odd":
		return &builtinCategory{label: spec.Label, source: spec.Rule, fn: isOdd}, nil
	case "prime":
		return &builtinCategory{label: spec.Label, source: spec.Rule, fn: isPrime}, nil
	default:
		return compileExpression(spec, limits)
	}
}

func compileExpression(spec RuleSpec, limits Limits) (Category, error) {
	lexer := parser.NewLexer(spec.Rule)
	p := parser.New(lexer)
	rule := p.ParseRule()

	if errs := p.Errors(); len(errs) > 0 {
		return nil, errors.Newf(errors.ErrRuleCompile, "parse errors: %s", strings.Join(errs, "; ")).
			WithDetail("label", spec.Label).
			WithDetail("rule", spec.Rule)
	}

	complexity := rule.CountNodes()
	if complexity > limits.MaxRuleComplexity {
		return nil, errors.Newf(errors.ErrRuleCompile, "rule complexity (%d nodes) exceeds limit (%d)", complexity, limits.MaxRuleComplexity).
			WithDetail("label", spec.Label).
			WithDetail("rule", spec.Rule)
	}

	if err := validateExpression(rule.Body, rule.Param.Value); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleCompile, "rule references names outside the allowlist").
			WithDetail("label", spec.Label).
			WithDetail("rule", spec.Rule)
	}

	return &exprCategory{
		label:    spec.Label,
		source:   spec.Rule,
		rule:     rule,
		maxSteps: limits.MaxEvalSteps,
	}, nil
}

// validateExpression rejects, at compile time, any name the sandbox
// does not expose: only the rule parameter, abs, int, and the math
// namespace resolve.
func validateExpression(expr parser.Expression, param string) error {
	switch e := expr.(type) {
	case *parser.IntegerLiteral, *parser.FloatLiteral, *parser.BooleanLiteral:
		return nil
	case *parser.Identifier:
		if e.Value != param {
			return fmt.Errorf("name %q is not defined", e.Value)
		}
		return nil
	case *parser.PrefixExpression:
		return validateExpression(e.Right, param)
	case *parser.InfixExpression:
		if err := validateExpression(e.Left, param); err != nil {
			return err
		}
		return validateExpression(e.Right, param)
	case *parser.CallExpression:
		if err := validateCallTarget(e.Function, param); err != nil {
			return err
		}
		for _, arg := range e.Arguments {
			if err := validateExpression(arg, param); err != nil {
				return err
			}
		}
		return nil
	case *parser.DotExpression:
		return fmt.Errorf("%s is not a value: namespace members can only be called", e.String())
	case nil:
		return fmt.Errorf("empty expression")
	default:
		return fmt.Errorf("unsupported expression %q", expr.String())
	}
}

func validateCallTarget(fn parser.Expression, param string) error {
	switch f := fn.(type) {
	case *parser.Identifier:
		switch f.Value {
		case "abs", "int":
			return nil
		}
		if f.Value == param {
			return fmt.Errorf("%s is not callable", f.Value)
		}
		return fmt.Errorf("unknown function: %s", f.Value)
	case *parser.DotExpression:
		ns, ok := f.Left.(*parser.Identifier)
		name, ok2 := f.Right.(*parser.Identifier)
		if !ok || !ok2 {
			return fmt.Errorf("invalid call target: %s", f.String())
		}
		if ns.Value != "math" {
			return fmt.Errorf("unknown namespace: %s", ns.Value)
		}
		switch name.Value {
		case "sqrt", "pow", "floor", "ceil":
			return nil
		}
		return fmt.Errorf("unknown function: math.%s", name.Value)
	default:
		return fmt.Errorf("invalid call target")
	}
}
