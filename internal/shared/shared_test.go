package shared

import (
	"bytes"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)
	logger.Info("hello", "key", "value")

	out := buf.String()
	if out == "" {
		t.Fatal("expected log output")
	}
	if !bytes.Contains(buf.Bytes(), []byte("hello")) {
		t.Errorf("log output missing message: %q", out)
	}
}

func TestGenerateState(t *testing.T) {
	a := GenerateState()
	b := GenerateState()
	if a == "" || b == "" {
		t.Fatal("state must not be empty")
	}
	if a == b {
		t.Error("states must be unique")
	}
}
