package sink

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paragrep-io/paragrep/types"
)

func TestCSVSink_HeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.log")

	s, err := NewCSVSink(path)
	if err != nil {
		t.Fatalf("NewCSVSink failed: %v", err)
	}

	rows := []types.LogRow{
		{WorkerID: 0, Offset: 0, BytesRead: 8190, Elapsed: 0.000125, Found: true},
		{WorkerID: 3, Offset: 8190, BytesRead: 4096, Elapsed: 1.5, Found: false},
	}
	for _, row := range rows {
		if err := s.WriteRow(row); err != nil {
			t.Fatalf("WriteRow failed: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	want := "process_id,file_offset,bytes_read,elapsed_time,found\n" +
		"0,0,8190,0.000125,1\n" +
		"3,8190,4096,1.500000,0\n"
	if string(data) != want {
		t.Errorf("log contents =\n%q\nwant\n%q", data, want)
	}
}

func TestCSVSink_OverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.log")
	if err := os.WriteFile(path, []byte("stale contents\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	s, err := NewCSVSink(path)
	if err != nil {
		t.Fatalf("NewCSVSink failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if strings.Contains(string(data), "stale") {
		t.Error("log file was not truncated at creation")
	}
	if !strings.HasPrefix(string(data), Header+"\n") {
		t.Errorf("log starts with %q, want header", data)
	}
}

func TestCSVSink_CreateFailure(t *testing.T) {
	if _, err := NewCSVSink(filepath.Join(t.TempDir(), "missing", "scan.log")); err == nil {
		t.Error("NewCSVSink in missing directory should fail")
	}
}

func TestStubSink_Records(t *testing.T) {
	s := NewStubSink()

	row := types.LogRow{WorkerID: 1, Offset: 42, BytesRead: 7, Elapsed: 0.1, Found: true}
	if err := s.WriteRow(row); err != nil {
		t.Fatalf("WriteRow failed: %v", err)
	}

	rows := s.Snapshot()
	if len(rows) != 1 || rows[0] != row {
		t.Errorf("Snapshot = %+v, want [%+v]", rows, row)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !s.Closed {
		t.Error("Closed = false after Close")
	}
}
