package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewTextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelDebug, Output: &buf})

	logger.Debug("loading documents", Root("/work/.github/instructions"))

	out := buf.String()
	if !strings.Contains(out, "loading documents") {
		t.Errorf("output missing message: %q", out)
	}
	if !strings.Contains(out, "root=/work/.github/instructions") {
		t.Errorf("output missing root attribute: %q", out)
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Output: &buf, JSON: true})

	logger.Info("matched", Doc("ts.md"), Count(3))

	out := buf.String()
	if !strings.Contains(out, `"doc":"ts.md"`) {
		t.Errorf("output missing doc attribute: %q", out)
	}
	if !strings.Contains(out, `"count":3`) {
		t.Errorf("output missing count attribute: %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelWarn, Output: &buf})

	logger.Info("should be filtered")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Errorf("info message leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn message missing: %q", out)
	}
}

func TestAttributeHelpers(t *testing.T) {
	tests := map[string]struct {
		attr slog.Attr
		key  string
	}{
		"doc":     {attr: Doc("a.md"), key: KeyDoc},
		"path":    {attr: Path("/p"), key: KeyPath},
		"root":    {attr: Root("/r"), key: KeyRoot},
		"pattern": {attr: Pattern("**"), key: KeyPattern},
		"target":  {attr: Target("src/a.ts"), key: KeyTarget},
		"count":   {attr: Count(2), key: KeyCount},
		"err":     {attr: Err(errors.New("boom")), key: KeyError},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.attr.Key != tt.key {
				t.Errorf("attr key = %q, want %q", tt.attr.Key, tt.key)
			}
		})
	}
}

func TestErrNil(t *testing.T) {
	attr := Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty attr", attr.Key)
	}
}

func TestContextCarriage(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Output: &buf})

	ctx := NewContext(context.Background(), logger)
	if FromContext(ctx) != logger {
		t.Error("FromContext did not return the attached logger")
	}
	if FromContext(context.Background()) == nil {
		t.Error("FromContext without logger should fall back to default")
	}
}
