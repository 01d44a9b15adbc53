package iox

import (
	"errors"
	"testing"
)

type recordingCloser struct {
	closed bool
	err    error
}

func (c *recordingCloser) Close() error {
	c.closed = true
	return c.err
}

func TestDiscardClose(t *testing.T) {
	c := &recordingCloser{err: errors.New("close failed")}
	DiscardClose(c)
	if !c.closed {
		t.Error("Close was not called")
	}
}

func TestCloseFunc(t *testing.T) {
	c := &recordingCloser{}
	fn := CloseFunc(c)
	if c.closed {
		t.Error("Close called before the returned func ran")
	}
	fn()
	if !c.closed {
		t.Error("Close was not called")
	}
}

func TestDiscardErr(t *testing.T) {
	called := false
	DiscardErr(func() error {
		called = true
		return errors.New("flush failed")
	})
	if !called {
		t.Error("fn was not called")
	}
}
