package reader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paragrep-io/paragrep/types"
)

func writeLog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.log")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

const validLog = `process_id,file_offset,bytes_read,elapsed_time,found
0,0,8190,0.000125,1
1,8190,8184,0.000098,0
0,16374,4096,0.000054,1
`

func TestReadLog_Valid(t *testing.T) {
	rows, err := ReadLog(writeLog(t, validLog))
	if err != nil {
		t.Fatalf("ReadLog failed: %v", err)
	}

	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	want := types.LogRow{WorkerID: 0, Offset: 0, BytesRead: 8190, Elapsed: 0.000125, Found: true}
	if rows[0] != want {
		t.Errorf("rows[0] = %+v, want %+v", rows[0], want)
	}
	if rows[1].Found {
		t.Error("rows[1].Found = true, want false")
	}
}

func TestReadLog_HeaderOnly(t *testing.T) {
	rows, err := ReadLog(writeLog(t, "process_id,file_offset,bytes_read,elapsed_time,found\n"))
	if err != nil {
		t.Fatalf("ReadLog failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %d, want 0", len(rows))
	}
}

func TestReadLog_Errors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"empty file", ""},
		{"wrong header", "pid,off,bytes,time,hit\n"},
		{"bad found flag", "process_id,file_offset,bytes_read,elapsed_time,found\n0,0,10,0.1,2\n"},
		{"non-numeric offset", "process_id,file_offset,bytes_read,elapsed_time,found\n0,xyz,10,0.1,1\n"},
		{"missing fields", "process_id,file_offset,bytes_read,elapsed_time,found\n0,0,10\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadLog(writeLog(t, tt.contents)); err == nil {
				t.Error("ReadLog should fail")
			}
		})
	}
}

func TestReadLog_MissingFile(t *testing.T) {
	if _, err := ReadLog(filepath.Join(t.TempDir(), "nope.log")); err == nil {
		t.Error("ReadLog of missing file should fail")
	}
}

func TestSummarize(t *testing.T) {
	rows, err := parseLog(strings.NewReader(validLog))
	if err != nil {
		t.Fatalf("parseLog failed: %v", err)
	}

	s := Summarize(rows)
	if s.Rows != 3 {
		t.Errorf("Rows = %d, want 3", s.Rows)
	}
	if s.TotalBytes != 8190+8184+4096 {
		t.Errorf("TotalBytes = %d, want %d", s.TotalBytes, 8190+8184+4096)
	}
	if s.MatchedChunks != 2 {
		t.Errorf("MatchedChunks = %d, want 2", s.MatchedChunks)
	}
	if s.Workers != 2 {
		t.Errorf("Workers = %d, want 2", s.Workers)
	}
	if !s.Ordered {
		t.Error("Ordered = false, want true (contiguous cover)")
	}
	wantTotal := 0.000125 + 0.000098 + 0.000054
	if diff := s.TotalElapsed - wantTotal; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("TotalElapsed = %v, want %v", s.TotalElapsed, wantTotal)
	}
}

func TestSummarize_DetectsGap(t *testing.T) {
	rows := []types.LogRow{
		{Offset: 0, BytesRead: 100},
		{Offset: 150, BytesRead: 50}, // gap at 100
	}
	if s := Summarize(rows); s.Ordered {
		t.Error("Ordered = true, want false for gapped cover")
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.Rows != 0 || s.MeanElapsed != 0 {
		t.Errorf("Summarize(nil) = %+v, want zero values", s)
	}
}

func TestByWorker(t *testing.T) {
	rows, err := parseLog(strings.NewReader(validLog))
	if err != nil {
		t.Fatalf("parseLog failed: %v", err)
	}

	stats := ByWorker(rows)
	if len(stats) != 2 {
		t.Fatalf("stats = %d entries, want 2", len(stats))
	}
	if stats[0].WorkerID != 0 || stats[0].Chunks != 2 || stats[0].Bytes != 8190+4096 {
		t.Errorf("stats[0] = %+v", stats[0])
	}
	if stats[1].WorkerID != 1 || stats[1].Chunks != 1 {
		t.Errorf("stats[1] = %+v", stats[1])
	}
}
