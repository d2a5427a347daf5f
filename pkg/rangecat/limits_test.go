package rangecat_test

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mungbai/rangecat/pkg/rangecat"
	"github.com/mungbai/rangecat/pkg/rangecat/errors"
	"github.com/mungbai/rangecat/pkg/rangecat/parser"
)

func TestResourceLimits(t *testing.T) {
	t.Run("Defaults", testDefaultLimits)
	t.Run("CustomLimitsRoundTrip", testCustomLimitsRoundTrip)
	t.Run("ComplexityBoundary", testComplexityBoundary)
	t.Run("WideRuleRejectedByDefaults", testWideRuleRejectedByDefaults)
	t.Run("StepBudgetContainedInRun", testStepBudgetContainedInRun)
	t.Run("StepBudgetDisabled", testStepBudgetDisabled)
	t.Run("PracticalLimitBoundary", testPracticalLimitBoundary)
	t.Run("BoundsAreInclusive", testBoundsAreInclusive)
	t.Run("WarningThresholdIsAdvisory", testWarningThresholdIsAdvisory)
}

func testDefaultLimits(t *testing.T) {
	limits := rangecat.DefaultLimits()

	assert.Equal(t, int64(math.MinInt64), limits.MinValue)
	assert.Equal(t, int64(math.MaxInt64), limits.MaxValue)
	assert.Equal(t, int64(500), limits.RangeWarning)
	assert.Equal(t, int64(1_000_000), limits.PracticalLimit)
	assert.Equal(t, 200, limits.MaxRuleComplexity)
	assert.Equal(t, 10_000, limits.MaxEvalSteps)

	// the warning fires before the hard cap is anywhere near
	assert.Less(t, limits.RangeWarning, limits.PracticalLimit)
}

func testCustomLimitsRoundTrip(t *testing.T) {
	custom := rangecat.Limits{
		MinValue:          -1000,
		MaxValue:          1000,
		RangeWarning:      10,
		PracticalLimit:    100,
		MaxRuleComplexity: 50,
		MaxEvalSteps:      500,
	}

	engine := rangecat.NewEngine(nil, custom)
	assert.Equal(t, custom, engine.Limits())

	// limits are per engine, not shared state
	other := rangecat.NewEngine(nil, rangecat.DefaultLimits())
	assert.Equal(t, int64(1_000_000), other.Limits().PracticalLimit)
	assert.Equal(t, int64(100), engine.Limits().PracticalLimit)
}

func testComplexityBoundary(t *testing.T) {
	// "lambda x: x % 2 == 0" is exactly 7 nodes
	const rule = "lambda x: x % 2 == 0"

	limits := rangecat.DefaultLimits()
	limits.MaxRuleComplexity = 7
	categories, skipped := rangecat.CompileCategories(
		[]rangecat.RuleSpec{{Label: "AtLimit", Rule: rule}},
		limits,
	)
	assert.Empty(t, skipped, "a rule exactly at the limit must compile")
	assert.Len(t, categories, 1)

	limits.MaxRuleComplexity = 6
	categories, skipped = rangecat.CompileCategories(
		[]rangecat.RuleSpec{{Label: "OverLimit", Rule: rule}},
		limits,
	)
	assert.Empty(t, categories)
	require.Len(t, skipped, 1)
	assert.True(t, errors.IsErrorCode(skipped[0], errors.ErrRuleCompile))
	assert.Contains(t, skipped[0].Error(), "rule complexity (7 nodes) exceeds limit (6)")
}

// wideRule builds "lambda x: x > 0 and x > 1 and ..." with the given
// number of comparisons. Each comparison costs 3 nodes and each "and"
// one more, so the total is 4*clauses + 1.
func wideRule(clauses int) string {
	var b strings.Builder
	b.WriteString("lambda x: x > 0")
	for i := 1; i < clauses; i++ {
		fmt.Fprintf(&b, " and x > %d", i)
	}
	return b.String()
}

func testWideRuleRejectedByDefaults(t *testing.T) {
	limits := rangecat.DefaultLimits()

	categories, skipped := rangecat.CompileCategories(
		[]rangecat.RuleSpec{{Label: "Wide", Rule: wideRule(10)}},
		limits,
	)
	assert.Empty(t, skipped, "41 nodes is well inside the default limit")
	assert.Len(t, categories, 1)

	categories, skipped = rangecat.CompileCategories(
		[]rangecat.RuleSpec{{Label: "TooWide", Rule: wideRule(60)}},
		limits,
	)
	assert.Empty(t, categories)
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0].Error(), "rule complexity (241 nodes) exceeds limit (200)")
}

func testStepBudgetContainedInRun(t *testing.T) {
	limits := rangecat.DefaultLimits()
	limits.MaxEvalSteps = 3

	// the expression needs more than 3 steps, so it faults at every
	// number; the builtin does not run through the evaluator at all
	categories, skipped := rangecat.CompileCategories([]rangecat.RuleSpec{
		{Label: "Cheap", Rule: "even"},
		{Label: "Costly", Rule: "lambda x: x % 2 == 0"},
	}, limits)
	require.Empty(t, skipped)

	engine := rangecat.NewEngine(categories, limits)
	records, err := engine.Analyze(context.Background(), 1, 50)
	require.NoError(t, err, "budget exhaustion must never abort the run")
	require.Len(t, records, 50)

	for _, record := range records {
		if record.Number%2 == 0 {
			assert.Equal(t, []string{"Cheap"}, record.Labels, "number %d", record.Number)
		} else {
			assert.Empty(t, record.Labels, "number %d", record.Number)
		}
	}
}

func testStepBudgetDisabled(t *testing.T) {
	limits := rangecat.DefaultLimits()
	limits.MaxEvalSteps = 0

	categories, skipped := rangecat.CompileCategories(
		[]rangecat.RuleSpec{{Label: "Wide", Rule: wideRule(40)}},
		limits,
	)
	require.Empty(t, skipped)
	require.Len(t, categories, 1)

	matched, err := categories[0].Matches(100)
	require.NoError(t, err, "a zero budget disables step counting")
	assert.True(t, matched)
}

func testPracticalLimitBoundary(t *testing.T) {
	limits := rangecat.DefaultLimits()
	limits.PracticalLimit = 10
	engine := rangecat.NewEngine(nil, limits)

	records, err := engine.Analyze(context.Background(), 1, 10)
	require.NoError(t, err, "a range exactly at the practical limit is allowed")
	assert.Len(t, records, 10)

	records, err = engine.Analyze(context.Background(), 1, 11)
	assert.Nil(t, records)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRangeTooLarge))
	assert.True(t, errors.IsFatal(err))
}

func testBoundsAreInclusive(t *testing.T) {
	limits := rangecat.DefaultLimits()
	limits.MinValue = -100
	limits.MaxValue = 100
	engine := rangecat.NewEngine(nil, limits)

	records, err := engine.Analyze(context.Background(), -100, 100)
	require.NoError(t, err)
	assert.Len(t, records, 201)

	_, err = engine.Analyze(context.Background(), -101, 0)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRangeInvalid))

	_, err = engine.Analyze(context.Background(), 0, 101)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRangeInvalid))
}

func testWarningThresholdIsAdvisory(t *testing.T) {
	// the warning threshold is for callers that prompt before large
	// runs; the engine itself only enforces the practical limit
	limits := rangecat.DefaultLimits()
	limits.RangeWarning = 5
	engine := rangecat.NewEngine(nil, limits)

	records, err := engine.Analyze(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Len(t, records, 50)
}

func TestRuleComplexityCalculation(t *testing.T) {
	tests := []struct {
		name string
		rule string
		want int
	}{
		{"minimal", "lambda x: True", 3},
		{"comparison", "lambda x: x > 0", 5},
		{"parens_are_transparent", "lambda x: ((((x > 0))))", 5},
		{"modulo_check", "lambda x: x % 2 == 0", 7},
		{"prefix_not", "lambda x: not (x < 0)", 6},
		{"namespace_call", "lambda x: math.sqrt(x) > 2", 9},
		{"two_clauses", "lambda n: n % 3 == 0 and n % 5 == 0", 13},
		{"perfect_square", "lambda x: int(x ** 0.5) ** 2 == x", 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parser.New(parser.NewLexer(tt.rule))
			rule := p.ParseRule()
			require.Empty(t, p.Errors(), "parse errors for %q", tt.rule)
			assert.Equal(t, tt.want, rule.CountNodes())
		})
	}
}

func TestStepBudgetParallelContainment(t *testing.T) {
	limits := rangecat.DefaultLimits()
	limits.MaxEvalSteps = 3

	categories, skipped := rangecat.CompileCategories([]rangecat.RuleSpec{
		{Label: "Cheap", Rule: "odd"},
		{Label: "Costly", Rule: "lambda x: x % 2 == 1"},
	}, limits)
	require.Empty(t, skipped)

	serial := rangecat.NewEngine(categories, limits)
	serialRecords, err := serial.Analyze(context.Background(), 1, 10000)
	require.NoError(t, err)

	parallel := rangecat.NewEngine(categories, limits)
	parallel.SetWorkers(4)
	parallelRecords, err := parallel.Analyze(context.Background(), 1, 10000)
	require.NoError(t, err)

	assert.Equal(t, serialRecords, parallelRecords,
		"faulting rules must degrade identically under parallel evaluation")
}
