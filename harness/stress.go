package harness

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/amp-labs/flatsort/datasets"
	"github.com/amp-labs/flatsort/hashing"
	"github.com/amp-labs/flatsort/instrumented"
	"github.com/amp-labs/flatsort/logger"
	"github.com/amp-labs/flatsort/records"
	"github.com/amp-labs/flatsort/simultaneously"
	"github.com/google/uuid"
	"go.uber.org/atomic"
	"gonum.org/v1/gonum/stat"
)

var ErrTrialFailed = errors.New("stress trial failed")

var (
	errUnordered     = errors.New("range is not ordered")
	errHeadChanged   = errors.New("records before the range changed")
	errTailChanged   = errors.New("records after the range changed")
	errNotPermuted   = errors.New("range does not hold the same records")
	errPayloadBroken = errors.New("record payload does not match its key")
)

const (
	histLowest  = 1
	histHighest = 60_000_000_000
	histSigFigs = 2
)

// Summary describes a finished Stress run. Durations are per trial sort call.
type Summary struct {
	RunID    string
	Trials   int
	Failures int
	Records  int64

	P50 time.Duration
	P99 time.Duration
	Max time.Duration

	// ComparisonRatioMean and ComparisonRatioStdDev describe comparisons per
	// n·log2(n) over the trials that sorted at least two records.
	ComparisonRatioMean   float64
	ComparisonRatioStdDev float64

	// FirstFailure is the lowest-numbered failing trial's error.
	FirstFailure error
}

type collector struct {
	mu       sync.Mutex
	hist     *hdrhistogram.Histogram
	ratios   []float64
	failures map[int]error

	failed  *atomic.Int64
	records *atomic.Int64
}

func newCollector() *collector {
	return &collector{
		hist:     hdrhistogram.New(histLowest, histHighest, histSigFigs),
		failures: make(map[int]error),
		failed:   atomic.NewInt64(0),
		records:  atomic.NewInt64(0),
	}
}

func (c *collector) observe(ctx context.Context, latency time.Duration, ratio float64, hasRatio bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.hist.RecordValue(max(latency.Nanoseconds(), histLowest)); err != nil {
		logger.Get(ctx).Warn("latency outside histogram range", "latency", latency, "error", err)
	}

	if hasRatio {
		c.ratios = append(c.ratios, ratio)
	}
}

func (c *collector) fail(trial int, err error) {
	c.failed.Inc()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.failures[trial] = err
}

// Stress runs cfg.Trials randomized trials on at most cfg.Workers goroutines.
// Every trial owns its buffer. A trial sorts a random sub-range by field 0 and
// then checks the result four ways: the range is ordered, records outside the
// range are untouched, the range holds the same records as before, and every
// record's payload still matches its key.
//
// Trial failures are counted in the Summary, not returned. The error is
// non-nil only for an invalid config, a cancelled context or a panic.
func Stress(ctx context.Context, cfg Config) (Summary, error) {
	if err := cfg.Validate(); err != nil {
		return Summary{}, err
	}

	runID := uuid.New().String()
	ctx = logger.With(ctx, "run_id", runID)

	logger.Get(ctx).Info("starting stress run",
		"trials", cfg.Trials,
		"workers", cfg.Workers,
		"seed", cfg.Seed)

	col := newCollector()
	kinds := cfg.kinds()
	callbacks := make([]func(context.Context) error, cfg.Trials)

	for i := range cfg.Trials {
		callbacks[i] = func(ctx context.Context) error {
			ctx = logger.WithMuted(logger.With(ctx, "trial", i), cfg.Quiet)

			return runTrial(ctx, cfg, kinds, i, col)
		}
	}

	start := time.Now()

	if err := simultaneously.DoCtx(ctx, cfg.Workers, callbacks...); err != nil {
		if ctx.Err() != nil {
			return Summary{}, ctx.Err()
		}

		return Summary{}, err
	}

	summary := col.summarize(runID, cfg.Trials)

	logger.Get(ctx).Info("stress run finished",
		"elapsed", time.Since(start),
		"failures", summary.Failures,
		"records", summary.Records,
		"p50", summary.P50,
		"p99", summary.P99,
		"max", summary.Max,
		"comparison_ratio_mean", summary.ComparisonRatioMean)

	return summary, nil
}

func (c *collector) summarize(runID string, trials int) Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	summary := Summary{
		RunID:    runID,
		Trials:   trials,
		Failures: int(c.failed.Load()),
		Records:  c.records.Load(),
		P50:      time.Duration(c.hist.ValueAtQuantile(50)),
		P99:      time.Duration(c.hist.ValueAtQuantile(99)),
		Max:      time.Duration(c.hist.Max()),
	}

	if len(c.ratios) > 0 {
		summary.ComparisonRatioMean, summary.ComparisonRatioStdDev = stat.MeanStdDev(c.ratios, nil)
	}

	if len(c.failures) > 0 {
		first := slices.Min(keys(c.failures))
		summary.FirstFailure = c.failures[first]
	}

	return summary
}

func keys(m map[int]error) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}

type trial struct {
	index   int
	kind    datasets.Kind
	eleSize int
	count   int
	rng     records.Range
}

func planTrial(cfg Config, kinds []datasets.Kind, index int) trial {
	r := rand.New(rand.NewPCG(cfg.Seed, uint64(index))) //nolint:gosec

	count := r.IntN(cfg.MaxRecords + 1)
	begin := r.IntN(count + 1)
	end := begin + r.IntN(count-begin+1)

	return trial{
		index:   index,
		kind:    kinds[r.IntN(len(kinds))],
		eleSize: 1 + r.IntN(cfg.MaxEleSize),
		count:   count,
		rng:     records.Span(begin, end),
	}
}

func runTrial(ctx context.Context, cfg Config, kinds []datasets.Kind, index int, col *collector) error {
	tr := planTrial(cfg, kinds, index)
	buf := datasets.Generate(tr.kind, tr.count, tr.eleSize, cfg.Seed+uint64(index))
	original := slices.Clone(buf)

	before, err := fingerprints(buf, tr)
	if err != nil {
		return err
	}

	start := time.Now()
	stats, sortErr := instrumented.ByField(ctx, buf, tr.eleSize, 0, tr.rng)
	elapsed := time.Since(start)

	n := tr.rng.Len()
	ratio, hasRatio := 0.0, n >= 2

	if hasRatio {
		ratio = float64(stats.Comparisons) / (float64(n) * math.Log2(float64(n)))
	}

	col.observe(ctx, elapsed, ratio, hasRatio)
	col.records.Add(int64(n))

	err = sortErr
	if err == nil {
		err = verify(ctx, buf, original, before, tr)
	}

	if err != nil {
		err = logger.AnnotateError(fmt.Errorf("%w: %w", ErrTrialFailed, err),
			"trial", tr.index,
			"kind", string(tr.kind),
			"ele_size", tr.eleSize,
			"records", tr.count,
			"range", tr.rng)

		logger.Get(ctx).Error("stress trial failed", "error", err)
		stressTrials.WithLabelValues(trialFailed).Inc()
		col.fail(index, err)

		return nil
	}

	stressTrials.WithLabelValues(trialPassed).Inc()

	return nil
}

type trialFingerprints struct {
	head, tail, inside uint64
}

func fingerprints(buf []float64, tr trial) (trialFingerprints, error) {
	head, err := hashing.Digest(buf, tr.eleSize, records.Span(0, tr.rng.Begin))
	if err != nil {
		return trialFingerprints{}, err
	}

	tail, err := hashing.Digest(buf, tr.eleSize, records.Span(tr.rng.End, tr.count))
	if err != nil {
		return trialFingerprints{}, err
	}

	inside, err := hashing.Multiset(buf, tr.eleSize, tr.rng)
	if err != nil {
		return trialFingerprints{}, err
	}

	return trialFingerprints{head: head, tail: tail, inside: inside}, nil
}

func verify(ctx context.Context, buf, original []float64, before trialFingerprints, tr trial) error {
	ok, err := instrumented.RecordsByField(ctx, buf, tr.eleSize, 0, tr.rng)
	if err != nil {
		return err
	}

	if !ok {
		return errUnordered
	}

	after, err := fingerprints(buf, tr)
	if err != nil {
		return err
	}

	switch {
	case after.head != before.head:
		return errHeadChanged
	case after.tail != before.tail:
		return errTailChanged
	case after.inside != before.inside:
		return errNotPermuted
	}

	return checkPayloads(buf, original, tr)
}

// checkPayloads uses the generator's layout: every payload slot holds the
// record's original index.
func checkPayloads(buf, original []float64, tr trial) error {
	if tr.eleSize < 2 {
		return nil
	}

	for i := tr.rng.Begin; i < tr.rng.End; i++ {
		rec := records.Record(buf, tr.eleSize, i)
		from := int(rec[1])

		if !tr.rng.Contains(from) {
			return logger.AnnotateError(fmt.Errorf("%w: record came from outside the range", errPayloadBroken),
				"record", i, "from", from)
		}

		for f := 2; f < tr.eleSize; f++ {
			if rec[f] != rec[1] {
				return logger.AnnotateError(fmt.Errorf("%w: mixed payload", errPayloadBroken),
					"record", i, "payload", slices.Clone(rec))
			}
		}

		if want := records.Key(original, tr.eleSize, 0, from); rec[0] != want {
			return logger.AnnotateError(fmt.Errorf("%w: key does not match its origin", errPayloadBroken),
				"record", i, "from", from, "key", rec[0], "want_key", want)
		}
	}

	return nil
}
