package cmd

import (
	"testing"

	"github.com/paragrep-io/paragrep/cli/config"
)

func TestResolveScanArgs_FourPositionals(t *testing.T) {
	meta, err := resolveScanArgs([]string{"needle", "input.txt", "4", "scan.log"}, nil)
	if err != nil {
		t.Fatalf("resolveScanArgs failed: %v", err)
	}
	if meta.Pattern != "needle" || meta.File != "input.txt" {
		t.Errorf("meta = %+v", meta)
	}
	if meta.Workers != 4 {
		t.Errorf("Workers = %d, want 4", meta.Workers)
	}
	if meta.Logfile != "scan.log" {
		t.Errorf("Logfile = %q, want scan.log", meta.Logfile)
	}
}

func TestResolveScanArgs_ConfigDefaults(t *testing.T) {
	cfg := &config.Config{Workers: 8, Logfile: "default.log"}

	meta, err := resolveScanArgs([]string{"needle", "input.txt"}, cfg)
	if err != nil {
		t.Fatalf("resolveScanArgs failed: %v", err)
	}
	if meta.Workers != 8 || meta.Logfile != "default.log" {
		t.Errorf("meta = %+v, want config defaults applied", meta)
	}

	// Positionals override config.
	meta, err = resolveScanArgs([]string{"needle", "input.txt", "2", "cli.log"}, cfg)
	if err != nil {
		t.Fatalf("resolveScanArgs failed: %v", err)
	}
	if meta.Workers != 2 || meta.Logfile != "cli.log" {
		t.Errorf("meta = %+v, want positionals to win", meta)
	}
}

func TestResolveScanArgs_ThreePositionalsWithConfigLogfile(t *testing.T) {
	cfg := &config.Config{Logfile: "default.log"}

	meta, err := resolveScanArgs([]string{"needle", "input.txt", "3"}, cfg)
	if err != nil {
		t.Fatalf("resolveScanArgs failed: %v", err)
	}
	if meta.Workers != 3 || meta.Logfile != "default.log" {
		t.Errorf("meta = %+v", meta)
	}
}

func TestResolveScanArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		cfg  *config.Config
	}{
		{"no args", nil, nil},
		{"one arg", []string{"needle"}, nil},
		{"five args", []string{"a", "b", "1", "c", "d"}, nil},
		{"two args without config", []string{"needle", "input.txt"}, nil},
		{"non-integer workers", []string{"needle", "input.txt", "four", "scan.log"}, nil},
		{"zero workers", []string{"needle", "input.txt", "0", "scan.log"}, nil},
		{"too many workers", []string{"needle", "input.txt", "33", "scan.log"}, nil},
		{"negative workers", []string{"needle", "input.txt", "-1", "scan.log"}, nil},
		{"config without logfile", []string{"needle", "input.txt", "2"}, &config.Config{Workers: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := resolveScanArgs(tt.args, tt.cfg); err == nil {
				t.Errorf("resolveScanArgs(%v) should fail", tt.args)
			}
		})
	}
}
