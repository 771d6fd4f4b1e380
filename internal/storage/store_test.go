package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/bigmod/internal/bench"
)

func sampleResult() *bench.Result {
	return &bench.Result{
		Mode:        bench.ModeModPow,
		Runs:        3,
		Bits:        256,
		Seed:        42,
		Accelerated: false,
		FacadeTotal: 3 * time.Millisecond,
		RefTotal:    6 * time.Millisecond,
		Samples: []bench.Sample{
			{Run: 0, Facade: time.Millisecond, Reference: 2 * time.Millisecond},
			{Run: 1, Facade: time.Millisecond, Reference: 2 * time.Millisecond},
			{Run: 2, Facade: time.Millisecond, Reference: 2 * time.Millisecond},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runID, err := store.Save(sampleResult(), 0)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.ID != runID || meta.Mode != "modpow" || meta.Runs != 3 || meta.Bits != 256 {
		t.Errorf("metadata mangled: %+v", meta)
	}
	if meta.FacadeTotal != 3*time.Millisecond || meta.RefTotal != 6*time.Millisecond {
		t.Errorf("totals mangled: %+v", meta)
	}
}

func TestSaveWritesSamplesCSV(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}
	runID, err := store.Save(sampleResult(), 3)
	if err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, runID, "samples.csv"))
	if err != nil {
		t.Fatalf("samples.csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header plus 3 samples", len(rows))
	}
	if rows[0][0] != "run" || rows[0][1] != "facade_ns" || rows[0][2] != "reference_ns" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][1] != "1000000" {
		t.Errorf("facade_ns = %q, want 1000000", rows[1][1])
	}
}

func TestList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatal(err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("fresh store lists %d runs", len(runs))
	}

	if _, err := store.Save(sampleResult(), 0); err != nil {
		t.Fatal(err)
	}
	runs, err = store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Mode != "modpow" {
		t.Errorf("List = %+v", runs)
	}
}

func TestListMissingBaseDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := store.List()
	if err != nil {
		t.Fatalf("List on a missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("got %d runs", len(runs))
	}
}
