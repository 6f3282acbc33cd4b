package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

var recordHeader = []string{"step", "player", "action", "subject", "from", "to", "amount", "accepted", "error", "round", "hash"}

// WriteRecords writes one CSV row per scripted move.
func WriteRecords(w io.Writer, records []Record) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(recordHeader); err != nil {
		return fmt.Errorf("failed to write records header: %w", err)
	}
	for _, r := range records {
		to, amount, errText, round := "", "", "", ""
		if r.Move.To != nil {
			to = r.Move.To.String()
		}
		if r.Move.Amount != nil {
			amount = strconv.FormatFloat(*r.Move.Amount, 'g', -1, 64)
		}
		if r.Err != nil {
			errText = r.Err.Error()
		}
		if r.Result != nil {
			round = strconv.Itoa(r.Result.Round)
		}
		row := []string{
			strconv.Itoa(r.Step),
			r.Player,
			r.Move.Action.String(),
			r.Move.Subject,
			r.Move.From.String(),
			to,
			amount,
			strconv.FormatBool(r.Accepted()),
			errText,
			round,
			strconv.FormatUint(r.Hash, 16),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteRecordsFile writes the records to path, creating parent directories.
func WriteRecordsFile(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create records file: %w", err)
	}
	defer f.Close()
	return WriteRecords(f, records)
}
