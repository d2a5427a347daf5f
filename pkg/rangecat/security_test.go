package rangecat_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mungbai/rangecat/pkg/rangecat"
	"github.com/mungbai/rangecat/pkg/rangecat/errors"
)

// WARNING: this file contains attack patterns for security testing
// only. Do not lift them into documentation or example configs.

func compileHostile(t *testing.T, rule string) []error {
	t.Helper()
	categories, skipped := rangecat.CompileCategories(
		[]rangecat.RuleSpec{{Label: "Hostile", Rule: rule}},
		rangecat.DefaultLimits(),
	)
	assert.Empty(t, categories, "hostile rule must not produce a category")
	return skipped
}

func TestSecurityPatterns(t *testing.T) {
	// every pattern must be rejected at compile time: the evaluator
	// never sees a name outside the allowlist
	attackPatterns := []struct {
		name        string
		rule        string
		wantErr     string
		description string
	}{
		{
			name:        "environment_probe",
			rule:        "lambda x: os.getenv(x) == 0",
			wantErr:     "unknown namespace: os",
			description: "attempts to read environment variables",
		},
		{
			name:        "command_execution",
			rule:        "lambda x: subprocess.call(x) == 0",
			wantErr:     "unknown namespace: subprocess",
			description: "attempts to spawn a process",
		},
		{
			name:        "import_smuggling",
			rule:        "lambda x: __import__(x) > 0",
			wantErr:     "unknown function: __import__",
			description: "attempts to pull in a module by name",
		},
		{
			name:        "eval_injection",
			rule:        "lambda x: eval(x) == x",
			wantErr:     "unknown function: eval",
			description: "attempts nested evaluation",
		},
		{
			name:        "exec_injection",
			rule:        "lambda x: exec(x) == 0",
			wantErr:     "unknown function: exec",
			description: "attempts statement execution",
		},
		{
			name:        "file_access",
			rule:        "lambda x: open(x) != 0",
			wantErr:     "unknown function: open",
			description: "attempts to open a file handle",
		},
		{
			name:        "string_payload",
			rule:        `lambda x: open("/etc/passwd") != 0`,
			wantErr:     "parse errors",
			description: "string literals are not even part of the grammar",
		},
		{
			name:        "attribute_traversal",
			rule:        "lambda x: x.__class__ == 0",
			wantErr:     "is not a value",
			description: "attempts attribute access on the parameter",
		},
		{
			name:        "dunder_chain",
			rule:        "lambda x: x.__class__.__bases__ == 0",
			wantErr:     "is not a value",
			description: "attempts to walk an attribute chain",
		},
		{
			name:        "reflection_probe",
			rule:        "lambda x: getattr(x, 0) == 0",
			wantErr:     "unknown function: getattr",
			description: "attempts reflective attribute lookup",
		},
		{
			name:        "scope_probe",
			rule:        "lambda x: globals() == 0",
			wantErr:     "unknown function: globals",
			description: "attempts to enumerate the enclosing scope",
		},
		{
			name:        "builtins_namespace",
			rule:        "lambda x: builtins.open(x) == 0",
			wantErr:     "unknown namespace: builtins",
			description: "attempts to reach builtins explicitly",
		},
		{
			name:        "math_namespace_escape",
			rule:        "lambda x: math.system(x) == 0",
			wantErr:     "unknown function: math.system",
			description: "the math namespace only exposes its four functions",
		},
		{
			name:        "free_variable",
			rule:        "lambda x: secret > 0",
			wantErr:     `name "secret" is not defined`,
			description: "only the declared parameter resolves",
		},
		{
			name:        "parameter_shadowing",
			rule:        "lambda open: open(1) > 0",
			wantErr:     "open is not callable",
			description: "naming the parameter after a builtin grants nothing",
		},
	}

	for _, tc := range attackPatterns {
		t.Run(tc.name, func(t *testing.T) {
			skipped := compileHostile(t, tc.rule)
			require.Len(t, skipped, 1, tc.description)
			assert.True(t, errors.IsErrorCode(skipped[0], errors.ErrRuleCompile))
			assert.Contains(t, skipped[0].Error(), tc.wantErr, tc.description)
		})
	}
}

func TestSecurityPatterns_RejectionCarriesRuleDetails(t *testing.T) {
	skipped := compileHostile(t, "lambda x: os.getenv(x) == 0")
	require.Len(t, skipped, 1)

	details := errors.GetErrorDetails(skipped[0])
	assert.Equal(t, "Hostile", details["label"])
	assert.Equal(t, "lambda x: os.getenv(x) == 0", details["rule"])
}

func TestResourceExhaustionPatterns(t *testing.T) {
	t.Run("deep_nesting", func(t *testing.T) {
		// grouping parentheses do not add AST nodes, so pathological
		// nesting neither trips the complexity limit nor the evaluator
		rule := "lambda x: " + strings.Repeat("(", 400) + "x > 0" + strings.Repeat(")", 400)

		categories, skipped := rangecat.CompileCategories(
			[]rangecat.RuleSpec{{Label: "Nested", Rule: rule}},
			rangecat.DefaultLimits(),
		)
		require.Empty(t, skipped)
		require.Len(t, categories, 1)

		matched, err := categories[0].Matches(5)
		require.NoError(t, err)
		assert.True(t, matched)
	})

	t.Run("token_flood", func(t *testing.T) {
		rule := "lambda x: x" + strings.Repeat(" + 1", 1000) + " == 0"

		skipped := compileHostile(t, rule)
		require.Len(t, skipped, 1)
		assert.Contains(t, skipped[0].Error(), "rule complexity")
	})

	t.Run("long_identifier", func(t *testing.T) {
		rule := "lambda x: " + strings.Repeat("a", 10_000) + " > 0"

		skipped := compileHostile(t, rule)
		require.Len(t, skipped, 1)
		assert.Contains(t, skipped[0].Error(), "is not defined")
	})

	t.Run("exponent_tower", func(t *testing.T) {
		// compiles fine, then hits checked arithmetic at evaluation
		categories, skipped := rangecat.CompileCategories(
			[]rangecat.RuleSpec{{Label: "Tower", Rule: "lambda x: 9 ** 9 ** 9 ** 9 > 0"}},
			rangecat.DefaultLimits(),
		)
		require.Empty(t, skipped)
		require.Len(t, categories, 1)

		matched, err := categories[0].Matches(1)
		assert.False(t, matched)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrRuleEval))
		assert.Contains(t, err.Error(), "integer overflow")
	})
}

func TestEngineSurvivesHostileConfig(t *testing.T) {
	specs := []rangecat.RuleSpec{
		{Label: "Shell", Rule: "lambda x: os.system(x) == 0"},
		{Label: "Even", Rule: "even"},
		{Label: "Reader", Rule: `lambda x: open("data") != 0`},
		{Label: "Flood", Rule: "lambda x: x" + strings.Repeat(" + 1", 1000) + " == 0"},
	}

	categories, skipped := rangecat.CompileCategories(specs, rangecat.DefaultLimits())
	require.Len(t, categories, 1)
	assert.Equal(t, "Even", categories[0].Label())
	require.Len(t, skipped, 3)

	engine := rangecat.NewEngine(categories, rangecat.DefaultLimits())
	records, err := engine.Analyze(context.Background(), 1, 20)
	require.NoError(t, err, "surviving categories keep working after hostile ones are dropped")
	require.Len(t, records, 20)

	for _, record := range records {
		if record.Number%2 == 0 {
			assert.Equal(t, []string{"Even"}, record.Labels, "number %d", record.Number)
		} else {
			assert.Empty(t, record.Labels, "number %d", record.Number)
		}
	}
}

func TestInputSanitization(t *testing.T) {
	maliciousInputs := []struct {
		name  string
		input string
	}{
		{"null_byte", "lambda x: x > 0\x00 and open(x)"},
		{"ansi_escape", "lambda x: \x1b[31mx\x1b[0m > 0"},
		{"non_ascii_identifier", "lambda x: пароль > 0"},
		{"bidi_override", "lambda x: ‮0 < x‭"},
		{"emoji_flood", "lambda x: " + strings.Repeat("\U0001f525", 500) + " > 0"},
	}

	for _, tc := range maliciousInputs {
		t.Run(tc.name, func(t *testing.T) {
			skipped := compileHostile(t, tc.input)
			require.Len(t, skipped, 1)
			assert.True(t, errors.IsErrorCode(skipped[0], errors.ErrRuleCompile))
			assert.Contains(t, skipped[0].Error(), "parse errors")
		})
	}
}
