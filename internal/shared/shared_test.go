package shared

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLevel(t *testing.T) {
	tc := []struct {
		name  string
		input string
		want  log.Level
	}{
		{name: "debug", input: "debug", want: log.DebugLevel},
		{name: "mixed case and whitespace", input: "  WARN ", want: log.WarnLevel},
		{name: "empty defaults to info", input: "", want: log.InfoLevel},
		{name: "unknown defaults to info", input: "verbose", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatPrice(t *testing.T) {
	tc := []struct {
		amount float64
		want   string
	}{
		{0, "$0.00"},
		{35, "$35.00"},
		{19.999, "$20.00"},
	}

	for _, tt := range tc {
		if got := FormatPrice(tt.amount); got != tt.want {
			t.Errorf("FormatPrice(%v) = %s, want %s", tt.amount, got, tt.want)
		}
	}
}

func TestLogger(t *testing.T) {
	t.Run("WithLogger adds fields", func(t *testing.T) {
		var buf bytes.Buffer
		logger := WithLogger(NewLogger(&buf), "component", "cart")
		logger.Info("hello")

		if !strings.Contains(buf.String(), "component=cart") {
			t.Errorf("expected field in output, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel filters", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		SetLogLevel(logger, log.ErrorLevel)
		logger.Info("hidden")

		if buf.Len() != 0 {
			t.Errorf("expected no output below error level, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "hookx.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("written")
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected unique non-empty ids, got %q and %q", a, b)
	}
}

func TestBrowserCommand(t *testing.T) {
	t.Run("linux uses xdg-open", func(t *testing.T) {
		cmd, err := browserCommand("linux", "https://example.test")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if filepath.Base(cmd.Path) != "xdg-open" && cmd.Args[0] != "xdg-open" {
			t.Errorf("expected xdg-open, got %v", cmd.Args)
		}
	})

	t.Run("unsupported platform", func(t *testing.T) {
		if _, err := browserCommand("plan9", "https://example.test"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})

	t.Run("empty url", func(t *testing.T) {
		if err := OpenBrowser(""); err == nil {
			t.Error("expected error for empty url")
		}
	})
}
