// Package rangecat analyzes inclusive integer ranges and tags each
// number with the labels of every category it matches. Categories mix
// built-in predicates (even, odd, prime) with user-supplied rules
// written as Python-style lambda expressions and compiled by a
// sandboxed expression engine.
//
// # Overview
//
// Rules come from configuration as (label, rule) pairs. Reserved tags
// bind to built-in predicates; anything else is compiled once into an
// executable predicate by a restricted expression parser. A fault in
// one rule never aborts a run: compile failures skip that category,
// and evaluation failures only suppress that category's label for the
// number that faulted.
//
// # Quick Start
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/mungbai/rangecat/pkg/rangecat"
//	)
//
//	func main() {
//		specs := []rangecat.RuleSpec{
//			{Label: "Even", Rule: "even"},
//			{Label: "DivBy3", Rule: "lambda x: x % 3 == 0"},
//		}
//		categories, _ := rangecat.CompileCategories(specs, rangecat.DefaultLimits())
//
//		engine := rangecat.NewEngine(categories, rangecat.DefaultLimits())
//		records, err := engine.Analyze(context.Background(), 1, 20)
//		if err != nil {
//			panic(err)
//		}
//		for _, record := range records {
//			fmt.Println(record.Number, record.Labels)
//		}
//	}
//
// # Rule Language
//
// A rule is a single-parameter lambda over one integer:
//
//	lambda x: <boolean expression>
//
// Supported operators: + - * / % ** (with / as true division),
// comparisons == != < > <= >=, and boolean connectives and/or/not
// (also spelled &&, ||, !). Literals: integers, floats, True, False.
//
// The sandbox resolves exactly one variable (the lambda parameter) and
// a fixed allowlist of callables:
//
//   - abs(n): absolute value
//   - int(n): truncate toward zero
//   - math.sqrt, math.pow, math.floor, math.ceil
//
// Nothing else resolves: no imports, no attribute access, no ambient
// names. Disallowed references are rejected at compile time.
//
// # Fault Containment
//
// Evaluation uses explicit error results instead of panics. Division
// by zero, overflow, domain errors, non-boolean results, and exhausted
// step budgets surface as per-number evaluation errors; the analyzer
// treats the category as non-matching for that number and continues.
//
// # Resource Limits
//
// Limits bound rule complexity (AST nodes at compile time), the
// per-evaluation step budget, and the practical size of an analyzed
// range. See DefaultLimits for the defaults.
package rangecat
