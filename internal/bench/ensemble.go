// Package bench runs independent headless particle fields concurrently and
// measures how long each frame's Step takes.
package bench

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/storage"
)

type Config struct {
	Field     field.Config
	Width     float64
	Height    float64
	Frames    int
	Runs      int
	SeedStart int64
	// Workers bounds concurrent runs; zero means one goroutine per run.
	Workers int
}

type Result struct {
	Run     int
	Seed    int64
	Steps   *metrics.FrameStats
	Records []storage.FrameRecord
}

type Ensemble struct {
	cfg Config
	log *zap.Logger
}

func NewEnsemble(cfg Config, log *zap.Logger) (*Ensemble, error) {
	if cfg.Frames < 1 {
		return nil, fmt.Errorf("bench: frames must be at least 1, got %d", cfg.Frames)
	}
	if cfg.Runs < 1 {
		return nil, fmt.Errorf("bench: runs must be at least 1, got %d", cfg.Runs)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("bench: viewport %gx%g must be positive", cfg.Width, cfg.Height)
	}
	if err := cfg.Field.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Ensemble{cfg: cfg, log: log}, nil
}

// Run executes every run to completion or until ctx is cancelled. Run i is
// seeded with SeedStart+i, so results are reproducible in everything but
// timing.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.cfg.Runs)

	g, ctx := errgroup.WithContext(ctx)
	if e.cfg.Workers > 0 {
		g.SetLimit(e.cfg.Workers)
	}
	for i := 0; i < e.cfg.Runs; i++ {
		idx := i
		g.Go(func() error {
			res, err := e.runOne(ctx, idx)
			if err != nil {
				return err
			}
			results[idx] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (e *Ensemble) runOne(ctx context.Context, idx int) (*Result, error) {
	seed := e.cfg.SeedStart + int64(idx)
	res := &Result{
		Run:     idx,
		Seed:    seed,
		Steps:   metrics.NewFrameStats("step", metrics.StepThresholds, e.cfg.Frames),
		Records: make([]storage.FrameRecord, 0, e.cfg.Frames),
	}

	tally := &field.Tally{}
	host := field.NewHeadless(tally, e.cfg.Width, e.cfg.Height)
	r := field.NewRenderer(e.cfg.Field,
		field.WithSeed(seed),
		field.WithFrameHook(func(_ time.Time, d time.Duration) {
			res.Steps.Observe(d)
			res.Records = append(res.Records, storage.FrameRecord{
				Run:     idx,
				Frame:   len(res.Records),
				StepMs:  float64(d) / float64(time.Millisecond),
				Circles: tally.Circles,
				Lines:   tally.Lines,
			})
			tally.Reset()
		}),
	)

	if !r.Mount(host) {
		return nil, fmt.Errorf("bench: run %d did not mount", idx)
	}
	defer r.Unmount()

	for len(res.Records) < e.cfg.Frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		host.Advance(1)
	}

	e.log.Debug("bench run finished",
		zap.Int("run", idx),
		zap.Int64("seed", seed),
		zap.Float64("mean_step_ms", res.Steps.Value()))
	return res, nil
}

// Summarize aggregates step timings and paint counts over all runs.
func Summarize(results []*Result) map[string]float64 {
	all := metrics.NewFrameStats("step", metrics.StepThresholds, totalFrames(results))
	var circles, lines, frames float64
	for _, res := range results {
		for _, rec := range res.Records {
			all.Observe(time.Duration(rec.StepMs * float64(time.Millisecond)))
			circles += float64(rec.Circles)
			lines += float64(rec.Lines)
			frames++
		}
	}
	if frames == 0 {
		return map[string]float64{}
	}
	return map[string]float64{
		"mean_step_ms":      all.Value(),
		"p50_step_ms":       all.Percentile(50),
		"p95_step_ms":       all.Percentile(95),
		"max_step_ms":       all.Percentile(100),
		"circles_per_frame": circles / frames,
		"lines_per_frame":   lines / frames,
	}
}

// Records flattens every run's frames in run order.
func Records(results []*Result) []storage.FrameRecord {
	out := make([]storage.FrameRecord, 0, totalFrames(results))
	for _, res := range results {
		out = append(out, res.Records...)
	}
	return out
}

func totalFrames(results []*Result) int {
	n := 0
	for _, res := range results {
		n += len(res.Records)
	}
	return n
}
