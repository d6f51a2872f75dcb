package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/apex/log"
)

func TestSetupJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup(&buf, "json", "debug"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	log.WithField("rows", 3).Debug("loaded")
	out := buf.String()
	if !strings.Contains(out, `"message":"loaded"`) || !strings.Contains(out, `"rows":3`) {
		t.Fatalf("unexpected json log: %s", out)
	}
}

func TestSetupLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup(&buf, "text", "warn"); err != nil {
		t.Fatalf("setup: %v", err)
	}
	log.Info("hidden")
	log.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("level filter not applied: %q", out)
	}
}

func TestSetupRejectsUnknown(t *testing.T) {
	var buf bytes.Buffer
	if err := Setup(&buf, "xml", "info"); err == nil {
		t.Fatal("expected error for unknown format")
	}
	if err := Setup(&buf, "cli", "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
