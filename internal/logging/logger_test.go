package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", "topics", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("expected info message filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "topics=3") {
		t.Fatalf("expected warn message with key/value, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	for _, level := range []string{"", "info", "DEBUG", "warn", "warning", " error "} {
		if _, err := ParseLevel(level); err != nil {
			t.Fatalf("ParseLevel(%q) returned error: %v", level, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestOpen_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "zhihu.log")

	logger, closer, err := Open(path, "info")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	logger.Info("first")
	if err := closer.Close(); err != nil {
		t.Fatalf("close returned error: %v", err)
	}

	logger, closer, err = Open(path, "info")
	if err != nil {
		t.Fatalf("second Open returned error: %v", err)
	}
	logger.Info("second")
	_ = closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "first") || !strings.Contains(string(data), "second") {
		t.Fatalf("expected both entries, got %q", string(data))
	}
}

func TestOpen_RequiresPath(t *testing.T) {
	if _, _, err := Open("  ", "info"); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.Error("nothing happens")
}
