package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `tahun,kelompok,jenis kelamin,jumlah,biaya
2020,PBI,Laki-laki,100,1000
2020,PBI,Perempuan,120,1100
2020,PPU,Laki-laki,80,900
2021,PPU,Perempuan,,950
2021,BP,Laki-laki,60,700
2021,BP,Laki-laki,60,700
2022,PBI,Perempuan,110,1050
2022,PPU,Laki-laki,90,980
2022,BP,Perempuan,5000,990
`

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// runCmd is a helper to execute the root command with args and capture stdout.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execCmd(args...)
	require.NoError(t, err, "command %v failed:\n%s", args, out)
	return out
}

func execCmd(args ...string) (string, error) {
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// setupWorkspace writes the sample table and a config pointing every path
// into a temp dir. It returns the dir and the config path.
func setupWorkspace(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	input := filepath.Join(dir, "peserta.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0o644))

	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := strings.Join([]string{
		"input_file: " + input,
		"cleaned_file: " + filepath.Join(dir, "data_cleaned.csv"),
		"static_dir: " + filepath.Join(dir, "static"),
		"report_file: " + filepath.Join(dir, "statistics_report.txt"),
		"dpi: 72",
		"log_level: error",
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o644))
	return dir, cfgPath
}

func TestCLI_Preprocess_Analyze_Visualize(t *testing.T) {
	dir, cfgPath := setupWorkspace(t)

	out := runCmd(t, "--config", cfgPath, "preprocess")
	assert.Contains(t, out, "Cleaned data saved to")
	assert.Contains(t, out, "Found 1 duplicate row(s)")
	cleaned, err := os.ReadFile(filepath.Join(dir, "data_cleaned.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(cleaned)), "\n")
	assert.Equal(t, "tahun,kelompok,jenis kelamin,jumlah,biaya", lines[0])
	// header plus 9 rows minus the duplicate; capping keeps the outlier row
	assert.Len(t, lines, 9)
	assert.NotContains(t, string(cleaned), "5000")

	out = runCmd(t, "--config", cfgPath, "analyze")
	assert.NotContains(t, out, "not found, using original data")
	assert.Contains(t, out, "Report saved to")
	report, err := os.ReadFile(filepath.Join(dir, "statistics_report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(report), "DESCRIPTIVE STATISTICS REPORT")
	assert.FileExists(t, filepath.Join(dir, "static", "correlation_matrix.png"))

	out = runCmd(t, "--config", cfgPath, "visualize", "--no-progress")
	assert.NotContains(t, out, "chart(s) skipped")
	for _, name := range []string{
		"summary_dashboard.png",
		"distribution_plots.png",
		"correlation_heatmap.png",
		"interactive_scatter.html",
		"interactive_bar.html",
		"artifacts.json",
	} {
		assert.FileExists(t, filepath.Join(dir, "static", name))
	}
	manifest, err := os.ReadFile(filepath.Join(dir, "static", "artifacts.json"))
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "statistics_report.txt")
	assert.Contains(t, string(manifest), "interactive_bar.html")
}

func TestCLI_AnalyzeFallsBackToOriginal(t *testing.T) {
	_, cfgPath := setupWorkspace(t)
	out := runCmd(t, "--config", cfgPath, "analyze", "--no-heatmap")
	assert.Contains(t, out, "not found, using original data")
}

func TestCLI_PreprocessRemoveMethod(t *testing.T) {
	dir, cfgPath := setupWorkspace(t)
	xlsx := filepath.Join(dir, "cleaned.xlsx")
	out := runCmd(t, "--config", cfgPath, "preprocess", "--method", "remove", "--xlsx", xlsx)
	assert.Contains(t, out, "removed")
	assert.FileExists(t, xlsx)

	cleaned, err := os.ReadFile(filepath.Join(dir, "data_cleaned.csv"))
	require.NoError(t, err)
	assert.NotContains(t, string(cleaned), "5000")
}

func TestCLI_InvalidMethod(t *testing.T) {
	_, cfgPath := setupWorkspace(t)
	_, err := execCmd("--config", cfgPath, "preprocess", "--method", "winsorize")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported outlier method")
}

func TestCLI_MissingInput(t *testing.T) {
	dir, cfgPath := setupWorkspace(t)
	_, err := execCmd("--config", cfgPath, "preprocess", "--input", filepath.Join(dir, "nope.csv"))
	require.Error(t, err)
}

func TestCLI_ConfigSetShow(t *testing.T) {
	_, cfgPath := setupWorkspace(t)
	out := runCmd(t, "--config", cfgPath, "config", "set", "port", "8081")
	assert.Contains(t, out, "Saved config")

	out = runCmd(t, "--config", cfgPath, "config", "show")
	assert.Contains(t, out, "port: 8081")
	assert.Contains(t, out, "dpi: 72")

	_, err := execCmd("--config", cfgPath, "config", "set", "port", "0")
	require.Error(t, err)
	_, err = execCmd("--config", cfgPath, "config", "set", "outlier_method", "drop")
	require.Error(t, err)
	_, err = execCmd("--config", cfgPath, "config", "set", "colour", "red")
	require.Error(t, err)
}
