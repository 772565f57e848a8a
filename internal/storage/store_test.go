package storage

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Series: []sim.Sample{
			{Time: 1.0 / 60, Count: 0, Kinetic: 0},
			{Time: 2.0 / 60, Count: 1, Kinetic: 1234.5678},
		},
		Frames: []sim.Frame{
			{Index: 0, Time: 1.0 / 60},
			{Index: 1, Time: 2.0 / 60, Objects: []sim.ObjectSnapshot{
				{X: 500.25, Y: 219.875, Radius: 7.5, Color: color.RGBA{R: 10, G: 20, B: 30, A: 255}},
			}},
			{Index: 3, Time: 4.0 / 60, Objects: []sim.ObjectSnapshot{
				{X: 501, Y: 260, Radius: 7.5, Color: color.RGBA{R: 10, G: 20, B: 30, A: 255}},
				{X: 500, Y: 200, Radius: 3, Color: color.RGBA{R: 255, A: 255}},
			}},
		},
		Metrics:   map[string]float64{"kinetic_energy": 42},
		FramesRun: 4,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(RunMetadata{Preset: "default", Seed: 42, Config: config.DefaultConfig()}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 || meta.Frames != 4 || meta.Objects != 1 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["kinetic_energy"] != 42 {
		t.Errorf("expected kinetic_energy 42, got %f", meta.Metrics["kinetic_energy"])
	}
	if meta.Config == nil || meta.Config.SubSteps != config.DefaultSubSteps {
		t.Errorf("config not persisted: %+v", meta.Config)
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	want := testResult()
	if len(series) != 2 || series[1] != want.Series[1] {
		t.Errorf("series mismatch: %+v", series)
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames))
	}
	if frames[0].Index != 0 || len(frames[0].Objects) != 0 {
		t.Errorf("empty frame not preserved: %+v", frames[0])
	}
	if len(frames[2].Objects) != 2 || frames[2].Index != 3 {
		t.Errorf("unexpected frame %+v", frames[2])
	}
	if frames[1].Objects[0] != want.Frames[1].Objects[0] {
		t.Errorf("object mismatch: %+v vs %+v", frames[1].Objects[0], want.Frames[1].Objects[0])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(RunMetadata{Preset: "dense"}, testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{}, testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, seriesFile, framesFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}
