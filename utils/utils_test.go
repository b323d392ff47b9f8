package utils

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStringSetNoDuplicates(t *testing.T) {
	s := NewStringSet()

	if !s.Add("octavia.pdf") {
		t.Error("first Add should return true")
	}
	if s.Add("octavia.pdf") {
		t.Error("second Add of same key should return false")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, Logger: NewDiscardLogger()}

	calls := 0
	err := r.Do("flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, Logger: NewDiscardLogger()}
	sentinel := errors.New("disk full")

	calls := 0
	err := r.Do("write", func() error {
		calls++
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
	if calls != 2 {
		t.Errorf("calls: got %d, want 2", calls)
	}
}

func TestRetryZeroAttemptsRunsOnce(t *testing.T) {
	r := &RetryConfig{}
	calls := 0
	_ = r.Do("once", func() error {
		calls++
		return nil
	})
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}

func TestLoggerDebugRequiresVerbose(t *testing.T) {
	var out bytes.Buffer
	l := NewLoggerTo(&out, &out)

	l.Debug("hidden %d", 1)
	if out.Len() != 0 {
		t.Fatalf("debug output without verbose: %q", out.String())
	}

	l.SetVerbose(true)
	l.Debug("shown %d", 2)
	if !strings.Contains(out.String(), "shown 2") {
		t.Errorf("debug output missing: %q", out.String())
	}
}

func TestLoggerErrorGoesToErrorWriter(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut)

	l.Error("boom")
	l.Warn("careful")

	if !strings.Contains(errOut.String(), "boom") {
		t.Errorf("error writer: got %q", errOut.String())
	}
	if !strings.Contains(out.String(), "careful") || strings.Contains(out.String(), "boom") {
		t.Errorf("standard writer: got %q", out.String())
	}
}
