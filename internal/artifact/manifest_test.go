package artifact_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/jknstat/internal/artifact"
)

func TestManifestRecordSaveLoad(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "summary_dashboard.png")
	html := filepath.Join(dir, "interactive_bar.html")
	for _, p := range []string{png, html} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m, err := artifact.LoadOrNew(dir, "data.csv")
	if err != nil {
		t.Fatalf("load or new: %v", err)
	}
	if m.RunID == "" {
		t.Fatalf("expected run id")
	}
	if err := m.Record(png, "visualize"); err != nil {
		t.Fatalf("record png: %v", err)
	}
	if err := m.Record(html, "visualize"); err != nil {
		t.Fatalf("record html: %v", err)
	}
	if err := m.Record(filepath.Join(dir, "missing.png"), "visualize"); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if err := m.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := artifact.Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	list := loaded.List()
	if len(list) != 2 || list[0].Name != "interactive_bar.html" || list[1].Kind != "image" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list[0].Kind != "chart" || list[1].Size != 1 || loaded.Source != "data.csv" {
		t.Fatalf("unexpected entries: %+v", list)
	}

	again, err := artifact.LoadOrNew(dir, "")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.RunID == loaded.RunID || len(again.Artifacts) != 2 || again.Source != "data.csv" {
		t.Fatalf("reload should keep entries and start a new run")
	}
}

func TestLoadMissingManifest(t *testing.T) {
	if _, err := artifact.Load(t.TempDir()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestKindOf(t *testing.T) {
	cases := map[string]string{
		"a.PNG":                 "image",
		"b.html":                "chart",
		"data_cleaned.csv":      "data",
		"statistics_report.txt": "report",
		"artifacts.json":        "file",
	}
	for in, want := range cases {
		if got := artifact.KindOf(in); got != want {
			t.Errorf("KindOf(%q) = %q, want %q", in, got, want)
		}
	}
}
