package store

import (
	"testing"

	"github.com/ctrlkit/pid/internal/loop"
)

func TestSaveListLoadRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	result := &loop.Result{
		Times:     []float64{0, 0.01, 0.02},
		Setpoints: []float64{1, 1, 1},
		Outputs:   []float64{0, 0.3, 0.55},
		Controls:  []float64{2, 1.4, 0.9},
		Metrics:   map[string]float64{"ise": 0.42},
	}
	meta := RunMetadata{
		Plant:    "firstorder",
		Dt:       0.01,
		Duration: 0.02,
		Kp:       2,
		Ki:       0.5,
	}

	runID, err := s.Save(meta, result)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].ID != runID {
		t.Errorf("listed id = %q, want %q", runs[0].ID, runID)
	}
	if runs[0].Plant != "firstorder" {
		t.Errorf("listed plant = %q, want firstorder", runs[0].Plant)
	}
	if runs[0].Metrics["ise"] != 0.42 {
		t.Errorf("listed ise = %v, want 0.42", runs[0].Metrics["ise"])
	}

	series, err := s.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series: %v", err)
	}
	if len(series.Times) != 3 {
		t.Fatalf("got %d samples, want 3", len(series.Times))
	}
	if series.Outputs[2] != 0.55 {
		t.Errorf("outputs[2] = %v, want 0.55", series.Outputs[2])
	}
	if series.Controls[0] != 2 {
		t.Errorf("controls[0] = %v, want 2", series.Controls[0])
	}
}

func TestSaveAssignsDistinctRunIDs(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	result := &loop.Result{
		Times:     []float64{0, 0.01},
		Setpoints: []float64{1, 1},
		Outputs:   []float64{0, 0.5},
		Controls:  []float64{2, 1},
		Metrics:   map[string]float64{},
	}
	meta := RunMetadata{Plant: "firstorder", Dt: 0.01, Duration: 0.01}

	// back-to-back saves of the same plant must not collide
	id1, err := s.Save(meta, result)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	id2, err := s.Save(meta, result)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("both saves got run id %q", id1)
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d runs, want 2", len(runs))
	}
}

func TestLoadMissingRun(t *testing.T) {
	s := New(t.TempDir())
	if _, err := s.Load("no_such_run"); err == nil {
		t.Fatal("expected error for missing run")
	}
	if _, err := s.LoadSeries("no_such_run"); err == nil {
		t.Fatal("expected error for missing series")
	}
}
