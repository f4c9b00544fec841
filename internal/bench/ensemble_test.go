package bench

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/particles/internal/field"
)

func testConfig() Config {
	return Config{
		Field:     field.DefaultConfig(),
		Width:     800,
		Height:    600,
		Frames:    20,
		Runs:      4,
		SeedStart: 100,
	}
}

func TestEnsembleRun(t *testing.T) {
	e, err := NewEnsemble(testConfig(), nil)
	if err != nil {
		t.Fatalf("new ensemble: %v", err)
	}

	results, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	for i, res := range results {
		if res.Run != i {
			t.Errorf("result %d has run %d", i, res.Run)
		}
		if res.Seed != 100+int64(i) {
			t.Errorf("run %d: expected seed %d, got %d", i, 100+i, res.Seed)
		}
		if len(res.Records) != 20 {
			t.Errorf("run %d: expected 20 frames, got %d", i, len(res.Records))
		}
		if res.Steps.Samples() != 20 {
			t.Errorf("run %d: expected 20 step samples, got %d", i, res.Steps.Samples())
		}
		for j, rec := range res.Records {
			if rec.Frame != j {
				t.Errorf("run %d: record %d has frame %d", i, j, rec.Frame)
			}
			if rec.Circles != field.DefaultCount {
				t.Errorf("run %d frame %d: expected %d circles, got %d", i, j, field.DefaultCount, rec.Circles)
			}
		}
	}
}

func TestEnsembleDeterministicPaints(t *testing.T) {
	cfg := testConfig()
	cfg.Runs = 1

	lines := func() []int {
		e, err := NewEnsemble(cfg, nil)
		if err != nil {
			t.Fatal(err)
		}
		results, err := e.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		out := make([]int, 0, cfg.Frames)
		for _, rec := range results[0].Records {
			out = append(out, rec.Lines)
		}
		return out
	}

	a, b := lines(), lines()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("frame %d: %d lines vs %d", i, a[i], b[i])
		}
	}
}

func TestEnsembleCancelled(t *testing.T) {
	e, err := NewEnsemble(testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := e.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewEnsembleValidates(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero frames", func(c *Config) { c.Frames = 0 }},
		{"zero runs", func(c *Config) { c.Runs = 0 }},
		{"no viewport", func(c *Config) { c.Width = 0 }},
		{"bad field", func(c *Config) { c.Field.Count = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.modify(&cfg)
			if _, err := NewEnsemble(cfg, nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	e, err := NewEnsemble(testConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	results, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	sum := Summarize(results)
	if sum["circles_per_frame"] != float64(field.DefaultCount) {
		t.Errorf("expected %d circles per frame, got %f", field.DefaultCount, sum["circles_per_frame"])
	}
	if sum["p95_step_ms"] > sum["max_step_ms"] {
		t.Errorf("p95 %f above max %f", sum["p95_step_ms"], sum["max_step_ms"])
	}
	if got := len(Records(results)); got != 80 {
		t.Errorf("expected 80 records, got %d", got)
	}

	if len(Summarize(nil)) != 0 {
		t.Error("expected empty summary for no results")
	}
}
