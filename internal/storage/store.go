package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/boxsim/internal/sim"
	"github.com/san-kum/boxsim/internal/world"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var framesHeader = []string{"time", "id", "name", "fixed", "x", "y", "size", "vx", "vy"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo describes the scene a result came from.
type RunInfo struct {
	Scene    string
	Seed     int64
	Dt       float64
	Duration float64
	Width    float64
	Height   float64
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Bodies    int                `json:"bodies"`
	Removed   int                `json:"removed"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes a run directory holding metadata.json and frames.csv and
// returns its ID.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.makeRunDir(fmt.Sprintf("%s_%d", safeName(info.Scene), now.Unix()))
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     info.Scene,
		Timestamp: now,
		Seed:      info.Seed,
		Dt:        info.Dt,
		Duration:  info.Duration,
		Width:     info.Width,
		Height:    info.Height,
		Bodies:    len(result.Final().Bodies),
		Removed:   len(result.Removed),
		Metrics:   result.Metrics,
	}

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}

	return runID, nil
}

// safeName turns a scene name into a single path element that stays inside
// the store.
func safeName(scene string) string {
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == filepath.Separator {
			return '_'
		}
		return r
	}, scene)
	name = strings.Trim(name, ". ")
	if name == "" {
		return "run"
	}
	return name
}

// makeRunDir creates base, or base_1, base_2... if a run with the same
// second-resolution ID already exists.
func (s *Store) makeRunDir(base string) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}

	runID := base
	for i := 1; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// writeFrames emits one row per live body per frame. A frame with no bodies
// gets a single row with only the time set so it survives a reload.
func writeFrames(path string, frames []sim.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(framesHeader); err != nil {
		return err
	}

	for _, fr := range frames {
		ts := formatFloat(fr.Time)
		if len(fr.Bodies) == 0 {
			if err := w.Write([]string{ts, "", "", "", "", "", "", "", ""}); err != nil {
				return err
			}
			continue
		}
		for _, b := range fr.Bodies {
			row := []string{
				ts,
				strconv.FormatUint(uint64(b.ID), 10),
				b.Name,
				strconv.FormatBool(b.Fixed),
				formatFloat(b.X),
				formatFloat(b.Y),
				formatFloat(b.Size),
				formatFloat(b.VX),
				formatFloat(b.VY),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, newest first.
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

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadFrames reads frames.csv back. Consecutive rows sharing a time value
// belong to the same frame.
func (s *Store) LoadFrames(runID string) ([]sim.Frame, error) {
	file, err := s.openFrames(runID)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(framesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	frames := make([]sim.Frame, 0)
	if len(records) < 2 {
		return frames, nil
	}

	lastTime := ""
	for i, record := range records[1:] {
		line := i + 2
		if record[0] != lastTime || len(frames) == 0 {
			t, err := strconv.ParseFloat(record[0], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: time: %w", line, err)
			}
			frames = append(frames, sim.Frame{Time: t, Bodies: make([]world.Body, 0)})
			lastTime = record[0]
		}

		if record[1] == "" {
			continue
		}

		b, err := parseBody(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cur := &frames[len(frames)-1]
		cur.Bodies = append(cur.Bodies, b)
	}

	return frames, nil
}

func (s *Store) openFrames(runID string) (*os.File, error) {
	return os.Open(filepath.Join(s.baseDir, runID, framesFile))
}

func parseBody(record []string) (world.Body, error) {
	var b world.Body

	id, err := strconv.ParseUint(record[1], 10, 64)
	if err != nil {
		return b, fmt.Errorf("id: %w", err)
	}
	fixed, err := strconv.ParseBool(record[3])
	if err != nil {
		return b, fmt.Errorf("fixed: %w", err)
	}

	b.ID = world.BodyID(id)
	b.Name = record[2]
	b.Fixed = fixed

	fields := []*float64{&b.X, &b.Y, &b.Size, &b.VX, &b.VY}
	for i, dst := range fields {
		col := 4 + i
		v, err := strconv.ParseFloat(record[col], 64)
		if err != nil {
			return b, fmt.Errorf("%s: %w", framesHeader[col], err)
		}
		*dst = v
	}

	return b, nil
}
