package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "codetype.log")
	logger, err := New(path, false)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("saved result", zap.String("snippet", "go-1"))
	logger.Debug("hidden")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"msg":"saved result"`) || !strings.Contains(out, `"snippet":"go-1"`) {
		t.Fatalf("unexpected log output: %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry written at info level: %s", out)
	}
}

func TestNewEmptyPathIsNop(t *testing.T) {
	logger, err := New("", true)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Info("dropped")
}
