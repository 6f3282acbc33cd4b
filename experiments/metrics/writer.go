package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// LoadConfig describes one throughput run: Games games spread over
// Goroutines workers, each game played for Rounds full rounds.
type LoadConfig struct {
	ID         int
	Goroutines int
	Games      int
	Rounds     int
	BoardSize  int
	OceanWidth int
}

type RunRecord struct {
	Config LoadConfig
	RunMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped directory under root for one experiment.
func NewWriter(root string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, "throughput", timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteLoadConfigs(configs []LoadConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, c := range configs {
		rows = append(rows, []string{
			strconv.Itoa(c.ID),
			strconv.Itoa(c.Goroutines),
			strconv.Itoa(c.Games),
			strconv.Itoa(c.Rounds),
			strconv.Itoa(c.BoardSize),
			strconv.Itoa(c.OceanWidth),
		})
	}
	header := []string{"id", "goroutines", "games", "rounds", "board_size", "ocean_width"}
	return w.write("load_configs.csv", header, rows)
}

func (w *Writer) WriteRunRecords(records []RunRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(r.Config.ID),
			strconv.Itoa(r.Games),
			strconv.Itoa(r.Accepted),
			strconv.Itoa(r.Rejected),
			strconv.Itoa(r.Settlements),
			r.Duration.String(),
			strconv.FormatFloat(r.MovesPerSecond(), 'f', 1, 64),
		})
	}
	header := []string{"config", "games", "accepted", "rejected", "settlements", "duration", "moves_per_second"}
	return w.write("run_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
