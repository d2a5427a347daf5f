package rangecat

import (
	"context"
	"math"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mungbai/rangecat/pkg/rangecat/errors"
	"github.com/mungbai/rangecat/pkg/rangecat/logging"
)

// Limits bounds rule compilation, rule evaluation, and range size.
type Limits struct {
	MinValue          int64 // smallest analyzable number
	MaxValue          int64 // largest analyzable number
	RangeWarning      int64 // range size above which callers should warn
	PracticalLimit    int64 // hard cap on range size
	MaxRuleComplexity int   // maximum AST nodes per rule
	MaxEvalSteps      int   // per-evaluation step budget
}

// DefaultLimits returns reasonable default limits
func DefaultLimits() Limits {
	return Limits{
		MinValue:          math.MinInt64,
		MaxValue:          math.MaxInt64,
		RangeWarning:      500,
		PracticalLimit:    1_000_000,
		MaxRuleComplexity: 200,
		MaxEvalSteps:      10_000,
	}
}

// Record is one analyzed number with the labels of every matching
// category, in configured category order.
type Record struct {
	Number int64    `json:"number"`
	Labels []string `json:"labels"`
}

// Engine applies an ordered category set to integer ranges. It is
// immutable after construction apart from the worker count, and safe
// for concurrent use.
type Engine struct {
	categories []Category
	limits     Limits
	workers    int
	log        zerolog.Logger
}

// NewEngine creates an analysis engine over the given compiled
// categories. Use CompileCategories to build the set from
// configuration.
func NewEngine(categories []Category, limits Limits) *Engine {
	return &Engine{
		categories: categories,
		limits:     limits,
		workers:    1,
		log:        logging.GetLogger("engine"),
	}
}

// SetWorkers selects how many goroutines Analyze may use. Values below
// 2 keep the serial path. Output order is identical either way.
func (e *Engine) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	e.workers = n
}

// Categories returns the active category set in configured order.
func (e *Engine) Categories() []Category {
	return e.categories
}

// Limits returns the limits the engine was built with.
func (e *Engine) Limits() Limits {
	return e.limits
}

// RangeSize reports the number of integers in [min, max]. It is exact
// even when the span does not fit in an int64, except for the full
// int64 domain, whose size 2^64 wraps to 0.
func RangeSize(min, max int64) uint64 {
	return uint64(max) - uint64(min) + 1
}

// ValidateRange is the entry guard for every analysis: it rejects
// inverted ranges, bounds violations, and ranges beyond the practical
// limit before any iteration starts.
func (e *Engine) ValidateRange(min, max int64) error {
	if min > max {
		return errors.Newf(errors.ErrRangeInvalid, "invalid range: minimum %d is greater than maximum %d", min, max).
			WithDetail("min", min).
			WithDetail("max", max)
	}
	if min < e.limits.MinValue || max > e.limits.MaxValue {
		return errors.Newf(errors.ErrRangeInvalid, "range [%d, %d] is outside the allowed bounds [%d, %d]", min, max, e.limits.MinValue, e.limits.MaxValue).
			WithDetail("min", min).
			WithDetail("max", max)
	}
	size := RangeSize(min, max)
	if size == 0 {
		// RangeSize wrapped: only the full int64 domain does this
		return errors.Newf(errors.ErrRangeTooLarge, "range spans the full integer domain, exceeding the practical limit of %d", e.limits.PracticalLimit).
			WithDetail("min", min).
			WithDetail("max", max).
			WithDetail("limit", e.limits.PracticalLimit)
	}
	if size > uint64(e.limits.PracticalLimit) {
		return errors.Newf(errors.ErrRangeTooLarge, "range of %d numbers exceeds the practical limit of %d", size, e.limits.PracticalLimit).
			WithDetail("size", size).
			WithDetail("limit", e.limits.PracticalLimit)
	}
	return nil
}

// Stream produces one Record per number in [min, max] in ascending
// order, passing each to fn as it is ready. It stops early if fn
// returns an error or ctx is cancelled between numbers.
func (e *Engine) Stream(ctx context.Context, min, max int64, fn func(Record) error) error {
	if err := e.ValidateRange(min, max); err != nil {
		return err
	}

	var done uint64
	for x := min; ; x++ {
		if done%1024 == 0 {
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), errors.ErrInternal, "analysis cancelled")
			default:
			}
		}
		done++

		if err := fn(e.analyzeNumber(x)); err != nil {
			return err
		}

		// incrementing past max would overflow at the int64 limit
		if x == max {
			return nil
		}
	}
}

// Analyze materializes the full record set for [min, max]. With a
// worker count above 1 the range is analyzed in parallel blocks and
// reassembled in ascending order.
func (e *Engine) Analyze(ctx context.Context, min, max int64) ([]Record, error) {
	if e.workers > 1 {
		return e.analyzeParallel(ctx, min, max)
	}

	records := make([]Record, 0, boundedSize(min, max))
	err := e.Stream(ctx, min, max, func(record Record) error {
		records = append(records, record)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (e *Engine) analyzeNumber(x int64) Record {
	labels := make([]string, 0, len(e.categories))
	for _, category := range e.categories {
		matched, err := category.Matches(x)
		if err != nil {
			e.log.Debug().
				Str("category", category.Label()).
				Int64("number", x).
				Err(err).
				Msg("Rule evaluation failed, treating as non-match")
			continue
		}
		if matched {
			labels = append(labels, category.Label())
		}
	}
	return Record{Number: x, Labels: labels}
}

// analysisBlockSize balances scheduling overhead against parallelism:
// blocks are large enough that channel traffic is negligible next to
// rule evaluation.
const analysisBlockSize = 4096

type analysisBlock struct {
	index int
	min   int64
	max   int64
}

func (e *Engine) analyzeParallel(ctx context.Context, min, max int64) ([]Record, error) {
	if err := e.ValidateRange(min, max); err != nil {
		return nil, err
	}

	size := RangeSize(min, max)
	numBlocks := int((size + analysisBlockSize - 1) / analysisBlockSize)

	jobs := make(chan analysisBlock, numBlocks)
	results := make([][]Record, numBlocks)

	var cancelled sync.Once
	var cancelErr error

	var wg sync.WaitGroup
	workers := e.workers
	if workers > numBlocks {
		workers = numBlocks
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for block := range jobs {
				select {
				case <-ctx.Done():
					cancelled.Do(func() {
						cancelErr = errors.Wrap(ctx.Err(), errors.ErrInternal, "analysis cancelled")
					})
					continue
				default:
				}

				records := make([]Record, 0, RangeSize(block.min, block.max))
				for x := block.min; ; x++ {
					records = append(records, e.analyzeNumber(x))
					if x == block.max {
						break
					}
				}
				results[block.index] = records
			}
		}()
	}

	for i := 0; i < numBlocks; i++ {
		offset := uint64(i) * analysisBlockSize
		blockMin := int64(uint64(min) + offset)
		blockMax := max
		if remaining := RangeSize(blockMin, max); remaining > analysisBlockSize {
			blockMax = int64(uint64(blockMin) + analysisBlockSize - 1)
		}
		jobs <- analysisBlock{index: i, min: blockMin, max: blockMax}
	}
	close(jobs)
	wg.Wait()

	if cancelErr != nil {
		return nil, cancelErr
	}

	records := make([]Record, 0, boundedSize(min, max))
	for _, block := range results {
		records = append(records, block...)
	}
	return records, nil
}

// boundedSize caps preallocation so a hostile limit override cannot
// trigger a giant allocation up front.
func boundedSize(min, max int64) int {
	size := RangeSize(min, max)
	if size > 1<<20 {
		return 1 << 20
	}
	return int(size)
}
