package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/loykin/cmdrec/internal/env"
	"github.com/loykin/cmdrec/internal/logger"
	"github.com/spf13/viper"
)

const (
	// BasePathEnv overrides the platform default base path (not an explicit flag).
	BasePathEnv = "CMDREC_BASE_PATH"
	// AppDirName is appended to the temp directory for the default base path.
	AppDirName = "cmdrec"
)

// FileConfig represents the top-level TOML structure.
//
//	base_path = "/var/tmp/cmdrec"
//	env = ["LANG=C"]
//	env_files = ["./record.env"]
//
//	[log]
//	level = "info"
//	file = "/var/log/cmdrec.log"
//
//	[metrics]
//	textfile = "/var/lib/node_exporter/cmdrec.prom"
type FileConfig struct {
	BasePath string         `toml:"base_path" mapstructure:"base_path"`
	Env      []string       `toml:"env" mapstructure:"env"`
	EnvFiles []string       `toml:"env_files" mapstructure:"env_files"`
	Log      *LogConfig     `toml:"log" mapstructure:"log"`
	Metrics  *MetricsConfig `toml:"metrics" mapstructure:"metrics"`
}

type LogConfig struct {
	Level      string `toml:"level" mapstructure:"level"`
	Format     string `toml:"format" mapstructure:"format"`
	Color      bool   `toml:"color" mapstructure:"color"`
	TimeStamps bool   `toml:"timestamps" mapstructure:"timestamps"`
	Source     bool   `toml:"source" mapstructure:"source"`
	File       string `toml:"file" mapstructure:"file"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress"`
}

type MetricsConfig struct {
	Textfile string `toml:"textfile" mapstructure:"textfile"`
}

// Load parses the TOML file at path. An empty path yields an empty config.
func Load(path string) (*FileConfig, error) {
	if path == "" {
		return &FileConfig{}, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// LoggerConfig converts the [log] table into a logger.Config.
func (fc *FileConfig) LoggerConfig() (logger.Config, error) {
	var cfg logger.Config
	if fc == nil || fc.Log == nil {
		return cfg, nil
	}
	lvl, err := logger.ParseLevel(fc.Log.Level)
	if err != nil {
		return cfg, err
	}
	format, err := logger.ParseFormat(fc.Log.Format)
	if err != nil {
		return cfg, err
	}
	cfg.Slog = logger.SlogConfig{
		Level:      lvl,
		Format:     format,
		Color:      fc.Log.Color,
		TimeStamps: fc.Log.TimeStamps,
		Source:     fc.Log.Source,
	}
	cfg.File = logger.FileConfig{
		Path:       fc.Log.File,
		MaxSizeMB:  fc.Log.MaxSizeMB,
		MaxBackups: fc.Log.MaxBackups,
		MaxAgeDays: fc.Log.MaxAgeDays,
		Compress:   fc.Log.Compress,
	}
	return cfg, nil
}

// MetricsTextfile returns the configured textfile path, or "".
func (fc *FileConfig) MetricsTextfile() string {
	if fc == nil || fc.Metrics == nil {
		return ""
	}
	return fc.Metrics.Textfile
}

// RecordEnv returns the extra environment for recorded commands: env_files
// contents in order, then the top-level env list overriding last.
func (fc *FileConfig) RecordEnv() ([]string, error) {
	if fc == nil {
		return nil, nil
	}
	var out []string
	for _, p := range fc.EnvFiles {
		pairs, err := LoadEnvFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, pairs...)
	}
	return append(out, fc.Env...), nil
}

// ResolveBasePath picks the base path with precedence flag, then the
// CMDREC_BASE_PATH entry of e, then the config file value, then
// tempDir()/cmdrec. It only reads its arguments.
func ResolveBasePath(flag, fileBase string, e *env.Env, tempDir func() string) string {
	if flag != "" {
		return flag
	}
	if e != nil {
		// set but empty counts as unset
		if v, ok := e.Lookup(BasePathEnv); ok && v != "" {
			return v
		}
	}
	if fileBase != "" {
		return fileBase
	}
	if tempDir == nil {
		tempDir = os.TempDir
	}
	return filepath.Join(tempDir(), AppDirName)
}

// LoadEnvFile parses a simple .env file and returns a slice of "KEY=VALUE" entries
// in file order.
func LoadEnvFile(path string) ([]string, error) {
	// Mitigate G304: sanitize user-provided path by cleaning it before use.
	clean := filepath.Clean(path)
	b, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	var out []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if i := strings.IndexByte(line, '='); i > 0 {
			k := strings.TrimSpace(line[:i])
			v := strings.TrimSpace(line[i+1:])
			out = append(out, k+"="+v)
		}
	}
	return out, nil
}
