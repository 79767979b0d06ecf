package batch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KilimcininKorOglu/tcpvalidator/internal/logging"
	"github.com/KilimcininKorOglu/tcpvalidator/internal/validate"
)

// Config holds the configuration for a batch run.
type Config struct {
	// Workers is the number of concurrent validations (default: 4)
	Workers int

	// Strict aborts the run on the first item that cannot be validated.
	// Otherwise such items are reported as FAIL with their error.
	Strict bool

	// Logger receives per-item diagnostics (default: discarded)
	Logger logrus.FieldLogger

	// OnOutcome is called for each outcome in input order as soon as all
	// earlier outcomes are available (streaming output)
	OnOutcome func(o *Outcome)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Workers: 4,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Workers < 1 || c.Workers > 256 {
		return ErrInvalidWorkers
	}
	return nil
}

// Outcome is the validation result of one item.
type Outcome struct {
	Item   Item
	Result validate.Result
	Err    error

	// Checked is set once the addresses parsed and Result was filled in
	Checked bool
}

// Verdict returns the item's verdict; items with an error always FAIL.
func (o *Outcome) Verdict() validate.Verdict {
	if o.Err != nil {
		return validate.Fail
	}
	return o.Result.Verdict
}

// Summary holds aggregate counts of a run.
type Summary struct {
	Total      int
	Passed     int
	Failed     int // includes Errors
	Errors     int
	DurationMs float64
}

// Report contains the complete result of a batch run.
type Report struct {
	Source    string
	Timestamp time.Time
	Strict    bool
	Outcomes  []Outcome
	Summary   Summary
}

// Runner validates items from a source.
type Runner struct {
	config *Config
	log    logrus.FieldLogger
}

// New creates a runner.
func New(config *Config) (*Runner, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	log := config.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &Runner{config: config, log: log}, nil
}

// Run loads the source and validates every item.
func (r *Runner) Run(ctx context.Context, src Source) (*Report, error) {
	items, err := src.Items(ctx)
	if err != nil {
		return nil, err
	}
	return r.RunItems(ctx, src.Name(), items)
}

// RunItems validates items and returns a report whose outcomes are in the
// same order as items.
func (r *Runner) RunItems(ctx context.Context, name string, items []Item) (*Report, error) {
	start := time.Now()

	if len(items) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoItems, name)
	}

	outcomes, err := r.runConcurrent(ctx, items)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Source:    name,
		Timestamp: start,
		Strict:    r.config.Strict,
		Outcomes:  outcomes,
	}
	report.Summary = summarize(outcomes)
	report.Summary.DurationMs = float64(time.Since(start).Microseconds()) / 1000

	return report, nil
}

// indexedOutcome carries an outcome with its input position.
type indexedOutcome struct {
	pos     int
	outcome Outcome
}

// runConcurrent fans items out to a worker pool and collects the outcomes
// back into input order.
func (r *Runner) runConcurrent(ctx context.Context, items []Item) ([]Outcome, error) {
	workers := r.config.Workers
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan int, len(items))
	results := make(chan indexedOutcome, len(items))

	// In strict mode workers skip only positions after the earliest
	// failure seen so far, so every earlier position is still checked.
	var abortAt atomic.Int64
	abortAt.Store(int64(len(items)))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, items, &abortAt, jobs, results)
		}()
	}

	for pos := range items {
		jobs <- pos
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	outcomes := make([]Outcome, len(items))
	done := make([]bool, len(items))
	next := 0
	abortPos := -1
	var abortErr error

	for res := range results {
		outcomes[res.pos] = res.outcome
		done[res.pos] = true

		if err := res.outcome.Err; err != nil {
			label := res.outcome.Item.Label
			if r.config.Strict {
				if abortPos < 0 || res.pos < abortPos {
					abortPos = res.pos
					abortErr = fmt.Errorf("%s: %w", label, err)
				}
			} else {
				r.log.WithFields(logrus.Fields{
					"item":  label,
					"error": err,
				}).Warn("segment could not be validated")
			}
		}

		if abortErr != nil {
			continue
		}
		for next < len(items) && done[next] {
			if r.config.OnOutcome != nil {
				r.config.OnOutcome(&outcomes[next])
			}
			next++
		}
	}

	if abortErr != nil {
		return nil, abortErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return outcomes, nil
}

// worker validates items whose positions arrive on jobs. A strict-mode
// failure lowers abortAt; later positions are skipped from then on.
func (r *Runner) worker(ctx context.Context, items []Item, abortAt *atomic.Int64, jobs <-chan int, results chan<- indexedOutcome) {
	for pos := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if int64(pos) > abortAt.Load() {
			continue
		}

		outcome := r.check(items[pos])
		if r.config.Strict && outcome.Err != nil {
			lowerTo(abortAt, int64(pos))
		}
		results <- indexedOutcome{pos: pos, outcome: outcome}
	}
}

// lowerTo sets v to pos unless it already holds a smaller value.
func lowerTo(v *atomic.Int64, pos int64) {
	for {
		cur := v.Load()
		if pos >= cur || v.CompareAndSwap(cur, pos) {
			return
		}
	}
}

// check validates a single item.
func (r *Runner) check(item Item) Outcome {
	outcome := Outcome{Item: item}
	if item.Err != nil {
		outcome.Err = item.Err
		return outcome
	}

	src, dst, err := validate.ParseAddressPair(item.Addresses)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	outcome.Checked = true
	outcome.Result, outcome.Err = validate.Check(src, dst, item.Segment)
	if outcome.Err == nil {
		r.log.WithFields(logrus.Fields{
			"item":     item.Label,
			"embedded": fmt.Sprintf("0x%04x", outcome.Result.Embedded),
			"computed": fmt.Sprintf("0x%04x", outcome.Result.Computed),
			"verdict":  outcome.Result.Verdict,
		}).Debug("segment checked")
	}

	return outcome
}

// summarize counts verdicts and errors.
func summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes)}
	for i := range outcomes {
		o := &outcomes[i]
		if o.Err != nil {
			s.Errors++
		}
		if o.Verdict() == validate.Pass {
			s.Passed++
		} else {
			s.Failed++
		}
	}
	return s
}
