// Package logging configures the process-wide apex/log logger.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// Setup installs a handler writing to w in the given format and sets the level.
// Supported formats are cli, text and json.
func Setup(w io.Writer, format, level string) error {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	switch strings.ToLower(format) {
	case "", "cli":
		log.SetHandler(cli.New(w))
	case "text":
		log.SetHandler(text.New(w))
	case "json":
		log.SetHandler(json.New(w))
	default:
		return fmt.Errorf("unsupported log format: %s", format)
	}
	log.SetLevel(lvl)
	return nil
}
