package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Inputs and outputs
	InputFile   string `mapstructure:"input_file" yaml:"input_file" validate:"required"`
	CleanedFile string `mapstructure:"cleaned_file" yaml:"cleaned_file" validate:"required"`
	StaticDir   string `mapstructure:"static_dir" yaml:"static_dir" validate:"required"`
	ReportFile  string `mapstructure:"report_file" yaml:"report_file" validate:"required"`
	SheetName   string `mapstructure:"sheet_name" yaml:"sheet_name"`
	SheetIndex  int    `mapstructure:"sheet_index" yaml:"sheet_index" validate:"gte=1"`

	// Cleaning
	OutlierMethod string `mapstructure:"outlier_method" yaml:"outlier_method" validate:"oneof=cap remove"`

	// Charts
	DPI int `mapstructure:"dpi" yaml:"dpi" validate:"gte=36,lte=600"`

	// Web dashboard
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port" validate:"gte=1,lte=65535"`
	PreviewRows     int    `mapstructure:"preview_rows" yaml:"preview_rows" validate:"gte=1"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec" validate:"gte=0"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error fatal"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=cli text json"`
}

// Addr returns the listen address of the web dashboard.
func (c *Global) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.jknstat/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("JKNSTAT")
	v.AutomaticEnv()

	for k, val := range defaults() {
		v.SetDefault(k, val)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.OutlierMethod = strings.ToLower(strings.TrimSpace(c.OutlierMethod))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the configuration used when no file or environment is present.
func Default() *Global {
	return &Global{
		InputFile:       "jmlh_psn_rwt_jln_mnrt_klnk_brdsrkn_jk_11.xlsx",
		CleanedFile:     "data_cleaned.csv",
		StaticDir:       "static",
		ReportFile:      "statistics_report.txt",
		SheetIndex:      1,
		OutlierMethod:   "cap",
		DPI:             150,
		Host:            "0.0.0.0",
		Port:            5000,
		PreviewRows:     100,
		ShutdownTimeout: 10,
		LogLevel:        "info",
		LogFormat:       "cli",
	}
}

func defaults() map[string]any {
	d := Default()
	return map[string]any{
		"input_file":           d.InputFile,
		"cleaned_file":         d.CleanedFile,
		"static_dir":           d.StaticDir,
		"report_file":          d.ReportFile,
		"sheet_name":           d.SheetName,
		"sheet_index":          d.SheetIndex,
		"outlier_method":       d.OutlierMethod,
		"dpi":                  d.DPI,
		"host":                 d.Host,
		"port":                 d.Port,
		"preview_rows":         d.PreviewRows,
		"shutdown_timeout_sec": d.ShutdownTimeout,
		"log_level":            d.LogLevel,
		"log_format":           d.LogFormat,
	}
}

var validate = validator.New()

// Validate checks field constraints declared in struct tags.
func Validate(c *Global) error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".jknstat"), nil
}
