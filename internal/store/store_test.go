package store

import (
	"strings"
	"testing"

	"github.com/celbio/methanosim/internal/params"
	"github.com/celbio/methanosim/internal/reactor"
)

func sampleTrajectory() *reactor.Trajectory {
	return &reactor.Trajectory{
		Times: []float64{0, 1, 2},
		States: []reactor.State{
			{2.5e-6, 1e-6, 0.27},
			{2.0e-6, 2e-6, 0.26},
			{1.8e-6, 3e-6, 0.25},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Integrator: "rk45",
		Horizon:    600,
		Samples:    400,
		Tolerance:  1e-8,
		Parameters: params.Default(),
	}

	id, err := st.Save(meta, sampleTrajectory())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated run id")
	}

	loaded, err := st.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Integrator != "rk45" {
		t.Errorf("expected rk45, got %s", loaded.Integrator)
	}
	if loaded.Parameters.CH4PPM != 1.8 {
		t.Errorf("expected 1.8 ppm, got %f", loaded.Parameters.CH4PPM)
	}
	if loaded.Timestamp.IsZero() {
		t.Error("expected timestamp to be filled in")
	}

	tr, err := st.LoadTrajectory(id)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	want := sampleTrajectory()
	if tr.Len() != want.Len() {
		t.Fatalf("expected %d samples, got %d", want.Len(), tr.Len())
	}
	for i := range want.Times {
		if tr.Times[i] != want.Times[i] {
			t.Errorf("time %d: expected %g, got %g", i, want.Times[i], tr.Times[i])
		}
		for j := range want.States[i] {
			if tr.States[i][j] != want.States[i][j] {
				t.Errorf("state %d/%d: expected %g, got %g", i, j, want.States[i][j], tr.States[i][j])
			}
		}
	}
}

func TestListSkipsCorrupted(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if _, err := st.Save(RunMetadata{ID: "good"}, sampleTrajectory()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	// a directory without metadata.json must not break listing
	if err := New(st.baseDir + "/corrupt").Init(); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != "good" {
		t.Errorf("expected good, got %s", runs[0].ID)
	}
}

func TestListMissingDir(t *testing.T) {
	st := New("/nonexistent/methanosim-data")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestWriteTrajectoryCSVHeader(t *testing.T) {
	var b strings.Builder
	if err := WriteTrajectoryCSV(&b, sampleTrajectory()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}
	if lines[0] != "time_s,ch4,methanol,o2" {
		t.Errorf("unexpected header: %s", lines[0])
	}
}

func TestExportJSON(t *testing.T) {
	var b strings.Builder
	meta := RunMetadata{ID: "x", Integrator: "rk4"}
	if err := ExportJSON(&b, meta, sampleTrajectory()); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	out := b.String()
	for _, frag := range []string{`"id": "x"`, `"times"`, `"states"`} {
		if !strings.Contains(out, frag) {
			t.Errorf("output missing %s", frag)
		}
	}
}
