package errors_test

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mungbai/rangecat/pkg/rangecat/errors"
)

func TestError_Format(t *testing.T) {
	plain := errors.New(errors.ErrRuleEval, "division by zero")
	assert.Equal(t, "[RULE_EVAL] division by zero", plain.Error())

	wrapped := errors.Wrap(io.EOF, errors.ErrConfigParse, "failed to read configuration")
	assert.Equal(t, "[CONFIG_PARSE] failed to read configuration: EOF", wrapped.Error())

	formatted := errors.Newf(errors.ErrRangeInvalid, "minimum %d is greater than maximum %d", 10, 5)
	assert.Equal(t, "[RANGE_INVALID] minimum 10 is greater than maximum 5", formatted.Error())
}

func TestErrorCode_Extraction(t *testing.T) {
	err := errors.New(errors.ErrRangeTooLarge, "too big")

	assert.True(t, errors.IsErrorCode(err, errors.ErrRangeTooLarge))
	assert.False(t, errors.IsErrorCode(err, errors.ErrRangeInvalid))
	assert.Equal(t, errors.ErrRangeTooLarge, errors.GetErrorCode(err))

	t.Run("through_fmt_wrapping", func(t *testing.T) {
		outer := fmt.Errorf("while validating: %w", err)
		assert.True(t, errors.IsErrorCode(outer, errors.ErrRangeTooLarge))
		assert.Equal(t, errors.ErrRangeTooLarge, errors.GetErrorCode(outer))
	})

	t.Run("plain_error", func(t *testing.T) {
		assert.False(t, errors.IsErrorCode(io.EOF, errors.ErrRangeTooLarge))
		assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(io.EOF))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, errors.IsErrorCode(nil, errors.ErrRangeTooLarge))
		assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(nil))
	})
}

func TestWrap_NilPassthrough(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "never happens"))
	assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "never %s", "happens"))
}

func TestUnwrap_PreservesCause(t *testing.T) {
	err := errors.Wrap(io.EOF, errors.ErrOutputWrite, "failed to flush")

	assert.True(t, stderrors.Is(err, io.EOF))
	assert.Equal(t, io.EOF, stderrors.Unwrap(err))
}

func TestIs_MatchesByCode(t *testing.T) {
	a := errors.New(errors.ErrRangeInvalid, "first")
	b := errors.New(errors.ErrRangeInvalid, "second")
	c := errors.New(errors.ErrRangeTooLarge, "third")

	assert.True(t, stderrors.Is(a, b), "same code should match regardless of message")
	assert.False(t, stderrors.Is(a, c))
}

func TestDetails(t *testing.T) {
	err := errors.New(errors.ErrRuleCompile, "bad rule").
		WithDetail("label", "Even").
		WithDetail("rule", "lambda x: x ++ 1")

	details := errors.GetErrorDetails(err)
	require.NotNil(t, details)
	assert.Equal(t, "Even", details["label"])
	assert.Equal(t, "lambda x: x ++ 1", details["rule"])

	t.Run("bulk_merge", func(t *testing.T) {
		err := errors.New(errors.ErrInternal, "x").WithDetails(map[string]interface{}{
			"min": int64(1),
			"max": int64(9),
		})
		details := errors.GetErrorDetails(err)
		assert.Equal(t, int64(1), details["min"])
		assert.Equal(t, int64(9), details["max"])
	})

	t.Run("overwrite", func(t *testing.T) {
		err := errors.New(errors.ErrInternal, "x").
			WithDetail("n", 1).
			WithDetail("n", 2)
		assert.Equal(t, 2, errors.GetErrorDetails(err)["n"])
	})

	t.Run("plain_error_has_none", func(t *testing.T) {
		assert.Nil(t, errors.GetErrorDetails(io.EOF))
	})
}

func TestIsFatal(t *testing.T) {
	fatal := []errors.ErrorCode{
		errors.ErrConfigNotFound,
		errors.ErrConfigParse,
		errors.ErrConfigInvalid,
		errors.ErrRangeInvalid,
		errors.ErrRangeTooLarge,
	}
	for _, code := range fatal {
		assert.True(t, errors.IsFatal(errors.New(code, "x")), "%s should be fatal", code)
	}

	contained := []errors.ErrorCode{
		errors.ErrRuleCompile,
		errors.ErrRuleEval,
		errors.ErrOutputCreate,
		errors.ErrOutputWrite,
		errors.ErrInternal,
		errors.ErrInvalidInput,
		errors.ErrUnknown,
	}
	for _, code := range contained {
		assert.False(t, errors.IsFatal(errors.New(code, "x")), "%s should not be fatal", code)
	}

	assert.False(t, errors.IsFatal(io.EOF))
	assert.False(t, errors.IsFatal(nil))
}
