package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"

	"github.com/KaramelBytes/jknstat/internal/artifact"
	"github.com/KaramelBytes/jknstat/internal/dataset"
)

// loadOptions builds dataset options from config and per-command flags.
func loadOptions(sheetName string, sheetIndex int, delimiter string) (dataset.Options, error) {
	opt := dataset.DefaultOptions()
	opt.SheetName = cfg.SheetName
	opt.SheetIndex = cfg.SheetIndex
	if sheetName != "" {
		opt.SheetName = sheetName
	}
	if sheetIndex > 0 {
		opt.SheetIndex = sheetIndex
	}
	switch strings.ToLower(delimiter) {
	case "":
	case ",", "comma":
		opt.Delimiter = ','
	case "\t", "tab":
		opt.Delimiter = '\t'
	case ";", "semicolon":
		opt.Delimiter = ';'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s (use ','|';'|'tab')", delimiter)
	}
	return opt, nil
}

// loadSource loads input when given. Otherwise it prefers the cleaned file
// and falls back to the original workbook.
func loadSource(w io.Writer, input string, opt dataset.Options) (*dataset.Table, string, error) {
	if input != "" {
		t, err := dataset.Load(input, opt)
		if err != nil {
			return nil, "", fmt.Errorf("load %s: %w", input, err)
		}
		return t, input, nil
	}
	t, src, err := dataset.LoadFirst([]string{cfg.CleanedFile, cfg.InputFile}, opt)
	if err != nil {
		return nil, "", fmt.Errorf("load dataset: %w", err)
	}
	if src != cfg.CleanedFile {
		fmt.Fprintf(w, "⚠ %s not found, using original data %s\n", cfg.CleanedFile, src)
	}
	return t, src, nil
}

// recordArtifacts adds the written files to the manifest in the static dir.
// Failures are logged and never abort the command.
func recordArtifacts(command, source string, paths ...string) {
	if len(paths) == 0 {
		return
	}
	m, err := artifact.LoadOrNew(cfg.StaticDir, source)
	if err != nil {
		log.WithError(err).Warn("load artifact manifest")
		return
	}
	for _, p := range paths {
		if err := m.Record(p, command); err != nil {
			log.WithError(err).WithField("path", p).Warn("record artifact")
		}
	}
	if err := m.Save(); err != nil {
		log.WithError(err).Warn("save artifact manifest")
	}
}
