package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/jknstat/internal/server"
)

var (
	srvHost       string
	srvPort       int
	srvInput      string
	srvSheetName  string
	srvSheetIndex int
	srvDelimiter  string
	srvTitle      string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard and the JSON chart API",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		opt, err := loadOptions(srvSheetName, srvSheetIndex, srvDelimiter)
		if err != nil {
			return err
		}
		t, src, err := loadSource(out, srvInput, opt)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Loaded %s: %d rows, %d columns\n", src, t.Len(), t.Width())

		listen := *cfg
		if srvHost != "" {
			listen.Host = srvHost
		}
		if srvPort > 0 {
			listen.Port = srvPort
		}
		addr := listen.Addr()
		s := server.New(t, server.Options{
			Addr:            addr,
			StaticDir:       cfg.StaticDir,
			Title:           srvTitle,
			PreviewRows:     cfg.PreviewRows,
			ShutdownTimeout: time.Duration(cfg.ShutdownTimeout) * time.Second,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(out, "✓ Dashboard on http://%s (Ctrl+C to stop)\n", addr)
		return s.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&srvHost, "host", "", "listen host (default from config)")
	serveCmd.Flags().IntVar(&srvPort, "port", 0, "listen port (default from config)")
	serveCmd.Flags().StringVarP(&srvInput, "input", "i", "", "input file (default: cleaned CSV, then original workbook)")
	serveCmd.Flags().StringVar(&srvSheetName, "sheet-name", "", "XLSX sheet name")
	serveCmd.Flags().IntVar(&srvSheetIndex, "sheet-index", 0, "XLSX sheet index (1-based)")
	serveCmd.Flags().StringVar(&srvDelimiter, "delimiter", "", "CSV delimiter: ','|';'|'tab' (default: auto)")
	serveCmd.Flags().StringVar(&srvTitle, "title", "", "dashboard title")
}
