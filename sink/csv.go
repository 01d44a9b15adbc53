package sink

import (
	"fmt"
	"os"

	"github.com/paragrep-io/paragrep/types"
)

// Header is the fixed CSV header, written once at creation.
const Header = "process_id,file_offset,bytes_read,elapsed_time,found"

// CSVSink appends one CSV row per released chunk to a log file.
// The file is overwrite-created; fields are comma-separated with no quoting
// (no field can contain a comma), and elapsed_time carries six decimals.
type CSVSink struct {
	file *os.File
}

// NewCSVSink creates the log file at path, truncating any existing file,
// and writes the header.
func NewCSVSink(path string) (*CSVSink, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sink: create log file: %w", err)
	}
	if _, err := fmt.Fprintln(file, Header); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("sink: write header: %w", err)
	}
	return &CSVSink{file: file}, nil
}

// WriteRow appends one row. Each row is a single unbuffered write, so rows
// already on disk survive a crashed run.
func (s *CSVSink) WriteRow(row types.LogRow) error {
	found := 0
	if row.Found {
		found = 1
	}
	_, err := fmt.Fprintf(s.file, "%d,%d,%d,%.6f,%d\n",
		row.WorkerID, row.Offset, row.BytesRead, row.Elapsed, found)
	if err != nil {
		return fmt.Errorf("sink: write row: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (s *CSVSink) Close() error {
	return s.file.Close()
}

// Verify CSVSink implements RowSink.
var _ RowSink = (*CSVSink)(nil)
