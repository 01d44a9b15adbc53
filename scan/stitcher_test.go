package scan

import (
	"bytes"
	"testing"
)

func newTestStitcher(t *testing.T, pattern string) (*Stitcher, *bytes.Buffer) {
	t.Helper()
	re, err := CompilePattern(pattern)
	if err != nil {
		t.Fatalf("CompilePattern(%q) failed: %v", pattern, err)
	}
	var out bytes.Buffer
	return NewStitcher(&out, re), &out
}

func TestStitcher_SingleChunkMatch(t *testing.T) {
	s, out := newTestStitcher(t, "fox")

	found, err := s.Append([]byte("Alpha beta.\n\nThe quick brown fox.\n\nDone.\n"))
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if !found {
		t.Error("found = false, want true")
	}
	if got := out.String(); got != "The quick brown fox.\n\n" {
		t.Errorf("output = %q, want %q", got, "The quick brown fox.\n\n")
	}

	// "Done.\n" is a trailing fragment: no delimiter yet.
	if s.CarryLen() != len("Done.\n") {
		t.Errorf("CarryLen = %d, want %d", s.CarryLen(), len("Done.\n"))
	}
}

func TestStitcher_NoMatch(t *testing.T) {
	s, out := newTestStitcher(t, "cat")

	found, err := s.Append([]byte("Alpha beta.\n\nThe quick brown fox.\n\nDone.\n"))
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if found {
		t.Error("found = true, want false")
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want empty", out.String())
	}

	matched, err := s.Flush()
	if err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if matched {
		t.Error("trailing flush matched, want no match")
	}
	if out.Len() != 0 {
		t.Errorf("output after flush = %q, want empty", out.String())
	}
}

// A paragraph split across appends at a line boundary must be printed
// exactly once, attributed to the append that completes it.
func TestStitcher_ParagraphSpansChunks(t *testing.T) {
	s, out := newTestStitcher(t, "Needle")

	found, err := s.Append([]byte("A long paragraph with a Needle\n"))
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if found {
		t.Error("first chunk completed no paragraph; found should be false")
	}
	if out.Len() != 0 {
		t.Errorf("output after first chunk = %q, want empty", out.String())
	}

	found, err = s.Append([]byte("that continues here.\n\nTail.\n"))
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if !found {
		t.Error("second chunk completes the paragraph; found should be true")
	}

	want := "A long paragraph with a Needle\nthat continues here.\n\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestStitcher_FlushTrailingParagraph(t *testing.T) {
	tests := []struct {
		name  string
		carry string
		want  string
	}{
		{"trailing newline kept", "Final Needle paragraph.\n", "Final Needle paragraph.\n"},
		{"newline added when absent", "Final Needle paragraph.", "Final Needle paragraph.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, out := newTestStitcher(t, "Needle")

			if _, err := s.Append([]byte(tt.carry)); err != nil {
				t.Fatalf("Append failed: %v", err)
			}
			matched, err := s.Flush()
			if err != nil {
				t.Fatalf("Flush failed: %v", err)
			}
			if !matched {
				t.Error("matched = false, want true")
			}
			if got := out.String(); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
			if s.CarryLen() != 0 {
				t.Errorf("CarryLen = %d after flush, want 0", s.CarryLen())
			}
		})
	}
}

func TestStitcher_MultipleParagraphsPerChunk(t *testing.T) {
	s, out := newTestStitcher(t, "ipsum")

	found, err := s.Append([]byte("Lorem ipsum.\n\nDolor sit.\n\nIpsum ipsum.\n\n"))
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if !found {
		t.Error("found = false, want true")
	}

	want := "Lorem ipsum.\n\nIpsum ipsum.\n\n"
	if got := out.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
	if s.ParagraphsEmitted() != 3 {
		t.Errorf("ParagraphsEmitted = %d, want 3", s.ParagraphsEmitted())
	}
	if s.ParagraphsMatched() != 2 {
		t.Errorf("ParagraphsMatched = %d, want 2", s.ParagraphsMatched())
	}
}

func TestStitcher_EmptyFlush(t *testing.T) {
	s, out := newTestStitcher(t, "x")

	matched, err := s.Flush()
	if err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if matched {
		t.Error("empty flush matched, want no match")
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want empty", out.String())
	}
}
