// Package reader parses scan log files back into typed rows for the
// read-only inspection commands.
package reader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paragrep-io/paragrep/iox"
	"github.com/paragrep-io/paragrep/sink"
	"github.com/paragrep-io/paragrep/types"
)

// ReadLog reads a scan log CSV, validating the header, and returns its rows
// in file order.
func ReadLog(path string) ([]types.LogRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reader: open log: %w", err)
	}
	defer iox.DiscardClose(file)

	return parseLog(file)
}

// parseLog parses scan log CSV content from r.
func parseLog(r io.Reader) ([]types.LogRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 5

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("reader: empty log file")
	}
	if err != nil {
		return nil, fmt.Errorf("reader: read header: %w", err)
	}
	if strings.Join(header, ",") != sink.Header {
		return nil, fmt.Errorf("reader: unexpected header %q", strings.Join(header, ","))
	}

	var rows []types.LogRow
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reader: line %d: %w", line, err)
		}

		row, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("reader: line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
}

// parseRow converts one CSV record into a LogRow.
func parseRow(record []string) (types.LogRow, error) {
	workerID, err := strconv.ParseInt(record[0], 10, 32)
	if err != nil {
		return types.LogRow{}, fmt.Errorf("process_id %q: %w", record[0], err)
	}
	offset, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return types.LogRow{}, fmt.Errorf("file_offset %q: %w", record[1], err)
	}
	bytesRead, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return types.LogRow{}, fmt.Errorf("bytes_read %q: %w", record[2], err)
	}
	elapsed, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return types.LogRow{}, fmt.Errorf("elapsed_time %q: %w", record[3], err)
	}

	var found bool
	switch record[4] {
	case "0":
		found = false
	case "1":
		found = true
	default:
		return types.LogRow{}, fmt.Errorf("found %q: must be 0 or 1", record[4])
	}

	return types.LogRow{
		WorkerID:  int32(workerID),
		Offset:    offset,
		BytesRead: bytesRead,
		Elapsed:   elapsed,
		Found:     found,
	}, nil
}
