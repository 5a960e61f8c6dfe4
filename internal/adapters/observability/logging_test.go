package observability

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger_TagsServiceAndFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "prod", "listing-api", "warn")

	l.Info().Msg("dropped")
	l.Warn().Str("kind", "zones").Msg("kept")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["service"] != "listing-api" || rec["message"] != "kept" || rec["level"] != "warn" {
		t.Fatalf("unexpected record %v", rec)
	}
	if _, ok := rec["time"]; !ok {
		t.Fatal("missing timestamp")
	}
}

func TestNewLogger_BadLevelMeansInfo(t *testing.T) {
	for _, level := range []string{"", "loud"} {
		var buf bytes.Buffer
		l := newLogger(&buf, "prod", "svc", level)
		l.Debug().Msg("debug")
		l.Info().Msg("info")
		if strings.Contains(buf.String(), `"debug"`) || !strings.Contains(buf.String(), `"info"`) {
			t.Fatalf("level %q: %s", level, buf.String())
		}
	}
}

func TestNewLogger_DevIsConsole(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "dev", "svc", "info")
	l.Info().Msg("hello")
	if json.Valid(buf.Bytes()) {
		t.Fatalf("dev output should be console text: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Fatalf("missing message: %s", buf.String())
	}
}
