package faq

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// expected header columns, in order.
var header = []string{"question", "answer", "category", "intent"}

// Load reads the FAQ corpus from a CSV file with a
// question,answer,category,intent header row.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus %s: %w", path, err)
	}
	defer f.Close()

	entries, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading corpus %s: %w", path, err)
	}
	return entries, nil
}

// Read parses FAQ entries from CSV data.
func Read(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	first, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("corpus is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, col := range header {
		if strings.TrimSpace(strings.ToLower(first[i])) != col {
			return nil, fmt.Errorf("unexpected header column %d: got %q, want %q", i, first[i], col)
		}
	}

	var entries []Entry
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(entries)+2, err)
		}
		entries = append(entries, Entry{
			Question: rec[0],
			Answer:   rec[1],
			Category: rec[2],
			Intent:   rec[3],
		})
	}

	return entries, nil
}

// Write serializes entries back to CSV with the standard header. The same
// format is used for both the corpus source file and the persisted
// metadata table, so an index's metadata round-trips through this.
func Write(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Question, e.Answer, e.Category, e.Intent}); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
