package scan

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/paragrep-io/paragrep/types"
)

// Stitcher accumulates released chunk bytes in a carry buffer, splits them
// into paragraphs on the double-newline delimiter, and writes matching
// paragraphs to out. A chunk ends at a line boundary, at end-of-file, or,
// when it holds no newline at all, mid-line; because payloads are appended
// to one carry buffer, delimiters are detected no matter which chunk they
// fall in, and a paragraph longer than one chunk simply accumulates across
// appends until its delimiter arrives.
type Stitcher struct {
	out   io.Writer
	re    *regexp.Regexp
	carry []byte

	paragraphsEmitted int64
	paragraphsMatched int64
}

// NewStitcher creates a stitcher matching against re and writing matching
// paragraphs to out.
func NewStitcher(out io.Writer, re *regexp.Regexp) *Stitcher {
	return &Stitcher{out: out, re: re}
}

// Append adds a released chunk's payload to the carry buffer and emits every
// paragraph it completes. Returns true iff any completed paragraph matched;
// that flag belongs to this chunk's log row — a paragraph spanning several
// chunks is attributed to the one that completes it.
func (s *Stitcher) Append(payload []byte) (bool, error) {
	s.carry = append(s.carry, payload...)

	found := false
	for {
		idx := bytes.Index(s.carry, types.ParagraphDelimiter)
		if idx < 0 {
			break
		}
		paragraph := s.carry[:idx]
		s.paragraphsEmitted++
		if s.re.Match(paragraph) {
			found = true
			s.paragraphsMatched++
			if _, err := s.out.Write(s.carry[:idx+len(types.ParagraphDelimiter)]); err != nil {
				return found, fmt.Errorf("stitcher: write paragraph: %w", err)
			}
		}
		s.carry = s.carry[idx+len(types.ParagraphDelimiter):]
	}
	return found, nil
}

// Flush tests the trailing fragment after all chunks have been released.
// A match is printed with a single trailing newline appended only if absent,
// and does not contribute to any chunk's found flag. The carry buffer is
// cleared either way.
func (s *Stitcher) Flush() (bool, error) {
	if len(s.carry) == 0 {
		return false, nil
	}

	matched := s.re.Match(s.carry)
	if matched {
		s.paragraphsMatched++
		if _, err := s.out.Write(s.carry); err != nil {
			return matched, fmt.Errorf("stitcher: write trailing paragraph: %w", err)
		}
		if s.carry[len(s.carry)-1] != '\n' {
			if _, err := s.out.Write([]byte{'\n'}); err != nil {
				return matched, fmt.Errorf("stitcher: write trailing newline: %w", err)
			}
		}
	}
	s.paragraphsEmitted++
	s.carry = s.carry[:0]
	return matched, nil
}

// CarryLen is the number of bytes awaiting a paragraph delimiter.
func (s *Stitcher) CarryLen() int {
	return len(s.carry)
}

// ParagraphsEmitted is the count of paragraphs examined so far.
func (s *Stitcher) ParagraphsEmitted() int64 {
	return s.paragraphsEmitted
}

// ParagraphsMatched is the count of paragraphs that matched so far.
func (s *Stitcher) ParagraphsMatched() int64 {
	return s.paragraphsMatched
}
