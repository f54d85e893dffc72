package stat

import (
	"encoding/json"
	"math"
	"path/filepath"
	"testing"
)

func TestRunningMoments(t *testing.T) {
	var r Running
	if !math.IsNaN(r.Variance()) {
		t.Fatal("variance of empty accumulator must be NaN")
	}

	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		r.Add(x)
	}
	if r.Count != 8 {
		t.Fatalf("count = %d, want 8", r.Count)
	}
	if r.Mean != 5 {
		t.Fatalf("mean = %g, want 5", r.Mean)
	}
	if got := r.Variance(); math.Abs(got-32.0/7.0) > 1e-12 {
		t.Fatalf("variance = %g, want %g", got, 32.0/7.0)
	}
	if r.Min != 2 || r.Max != 9 {
		t.Fatalf("min/max = %g/%g, want 2/9", r.Min, r.Max)
	}
}

func TestRunningSingleObservation(t *testing.T) {
	var r Running
	r.Add(42)
	if r.Mean != 42 || r.Min != 42 || r.Max != 42 {
		t.Fatalf("single observation moments wrong: %+v", r)
	}
	if !math.IsNaN(r.Variance()) {
		t.Fatal("variance with one observation must be NaN")
	}
}

func TestBinsTally(t *testing.T) {
	bins, err := NewBins([]float64{0, 10, 100, 1000})
	if err != nil {
		t.Fatalf("new bins: %v", err)
	}

	for _, x := range []float64{-5, 0, 3, 10, 99, 100, 999.9, 1000, 5000} {
		bins.Add(x)
	}
	if bins.Underflow != 1 {
		t.Fatalf("underflow = %d, want 1", bins.Underflow)
	}
	if bins.Overflow != 2 {
		t.Fatalf("overflow = %d, want 2", bins.Overflow)
	}
	want := []int64{2, 2, 2}
	for i, c := range bins.Counts {
		if c != want[i] {
			t.Fatalf("counts = %v, want %v", bins.Counts, want)
		}
	}
	if bins.Total() != 9 {
		t.Fatalf("total = %d, want 9", bins.Total())
	}
}

func TestBinsRejectsUnsortedBoundaries(t *testing.T) {
	if _, err := NewBins([]float64{0, 10, 5}); err == nil {
		t.Fatal("unsorted boundaries must error")
	}
	if _, err := NewBins([]float64{0, 10, 10}); err == nil {
		t.Fatal("duplicate boundaries must error")
	}
}

func TestStatsJSONRoundTrip(t *testing.T) {
	stats, err := NewStats([]float64{0, 50, 500})
	if err != nil {
		t.Fatalf("new stats: %v", err)
	}
	for _, x := range []float64{12, 70, 33, 450, 800} {
		stats.Add(x)
	}

	raw, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored Stats
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if restored.Running.Count != stats.Running.Count || restored.Running.Mean != stats.Running.Mean {
		t.Fatalf("running mismatch after round trip: %+v vs %+v", restored.Running, stats.Running)
	}
	// The second moment must survive so variance keeps accumulating correctly.
	if restored.Running.Variance() != stats.Running.Variance() {
		t.Fatal("variance lost in serialization")
	}
	restored.Add(100)
	if restored.Running.Count != stats.Running.Count+1 {
		t.Fatal("restored accumulator must keep accepting observations")
	}
}

func TestStatsEncryptedSnapshot(t *testing.T) {
	stats, err := NewStats(nil)
	if err != nil {
		t.Fatalf("new stats: %v", err)
	}
	stats.Add(1)
	stats.Add(2)

	path := filepath.Join(t.TempDir(), "stats.enc")
	if err := stats.Save(path, "test-secret"); err != nil {
		t.Fatalf("save: %v", err)
	}
	restored, err := LoadStats(path, "test-secret")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if restored.Running.Count != 2 || restored.Running.Mean != 1.5 {
		t.Fatalf("restored stats wrong: %+v", restored.Running)
	}
	if _, err := LoadStats(path, "wrong-secret"); err == nil {
		t.Fatal("wrong secret must fail to decrypt")
	}
}
