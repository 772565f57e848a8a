package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/verletsim/internal/config"
	"github.com/san-kum/verletsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	seriesFile   = "series.csv"
	framesFile   = "frames.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Path returns the location of a file inside a run directory.
func (s *Store) Path(runID, name string) string {
	return filepath.Join(s.baseDir, runID, name)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Frames    int                `json:"frames"`
	Objects   int                `json:"objects"`
	Config    *config.Config     `json:"config"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory and returns its id. Preset, Seed and Config
// are taken from meta; the rest is filled from result.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	name := meta.Preset
	if name == "" {
		name = "custom"
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now
	meta.Frames = result.FramesRun
	meta.Metrics = result.Metrics
	if n := len(result.Series); n > 0 {
		meta.Objects = result.Series[n-1].Count
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), result.Series); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, header []string, rows func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := rows(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func ff(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func writeSeries(path string, series []sim.Sample) error {
	return writeCSV(path, []string{"time", "count", "kinetic"}, func(w *csv.Writer) error {
		for _, s := range series {
			if err := w.Write([]string{ff(s.Time), strconv.Itoa(s.Count), ff(s.Kinetic)}); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFrames(path string, frames []sim.Frame) error {
	header := []string{"frame", "time", "index", "x", "y", "radius", "r", "g", "b"}
	return writeCSV(path, header, func(w *csv.Writer) error {
		for _, f := range frames {
			if len(f.Objects) == 0 {
				// index -1 marks a sampled frame that had no objects yet
				row := []string{strconv.Itoa(f.Index), ff(f.Time), "-1", "0", "0", "0", "0", "0", "0"}
				if err := w.Write(row); err != nil {
					return err
				}
				continue
			}
			for i, o := range f.Objects {
				row := []string{
					strconv.Itoa(f.Index), ff(f.Time), strconv.Itoa(i),
					ff(o.X), ff(o.Y), ff(o.Radius),
					strconv.Itoa(int(o.Color.R)), strconv.Itoa(int(o.Color.G)), strconv.Itoa(int(o.Color.B)),
				}
				if err := w.Write(row); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(s.Path(runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func readRecords(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, nil
	}
	return records[1:], nil
}

func (s *Store) LoadSeries(runID string) ([]sim.Sample, error) {
	records, err := readRecords(s.Path(runID, seriesFile))
	if err != nil {
		return nil, err
	}

	series := make([]sim.Sample, 0, len(records))
	for i, rec := range records {
		if len(rec) < 3 {
			return nil, fmt.Errorf("%s line %d: expected 3 fields, got %d", seriesFile, i+2, len(rec))
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", seriesFile, i+2, err)
		}
		count, err := strconv.Atoi(rec[1])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", seriesFile, i+2, err)
		}
		kinetic, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", seriesFile, i+2, err)
		}
		series = append(series, sim.Sample{Time: t, Count: count, Kinetic: kinetic})
	}
	return series, nil
}

func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	records, err := readRecords(s.Path(runID, framesFile))
	if err != nil {
		return nil, err
	}

	var frames []sim.Frame
	for i, rec := range records {
		if len(rec) < 9 {
			return nil, fmt.Errorf("%s line %d: expected 9 fields, got %d", framesFile, i+2, len(rec))
		}
		idx, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, i+2, err)
		}
		vals := make([]float64, 4)
		for j, field := range []string{rec[1], rec[3], rec[4], rec[5]} {
			if vals[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("%s line %d: %w", framesFile, i+2, err)
			}
		}
		var rgb [3]uint8
		for j := range rgb {
			c, err := strconv.ParseUint(rec[6+j], 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", framesFile, i+2, err)
			}
			rgb[j] = uint8(c)
		}

		if len(frames) == 0 || frames[len(frames)-1].Index != idx {
			frames = append(frames, sim.Frame{Index: idx, Time: vals[0]})
		}
		if rec[2] == "-1" {
			continue
		}
		f := &frames[len(frames)-1]
		f.Objects = append(f.Objects, sim.ObjectSnapshot{
			X:      vals[1],
			Y:      vals[2],
			Radius: vals[3],
			Color:  color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255},
		})
	}
	return frames, nil
}
