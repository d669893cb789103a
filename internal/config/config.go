package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir       string    `yaml:"data_dir" mapstructure:"data_dir"`
	StudentsFile  string    `yaml:"students_file" mapstructure:"students_file"`
	LanguagesFile string    `yaml:"languages_file" mapstructure:"languages_file"`
	StrictLoad    bool      `yaml:"strict_load" mapstructure:"strict_load"`
	Log           LogConfig `yaml:"log" mapstructure:"log"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:       defaultDataDir(),
		StudentsFile:  "students.json",
		LanguagesFile: "languages.txt",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "roster")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "roster")
}

// Dir is where config.yaml is looked up and written by default.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "roster")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "roster")
}

// Load reads configuration from path, or when path is empty from
// config.yaml in the working directory or Dir(). ROSTER_* environment
// variables override file values. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("students_file", cfg.StudentsFile)
	v.SetDefault("languages_file", cfg.LanguagesFile)
	v.SetDefault("strict_load", cfg.StrictLoad)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(Dir())
	}

	v.SetEnvPrefix("ROSTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.DataDir = expandHome(cfg.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: data_dir is required")
	}
	for key, name := range map[string]string{"students_file": c.StudentsFile, "languages_file": c.LanguagesFile} {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("config: %s is required", key)
		}
		if filepath.Base(name) != name {
			return fmt.Errorf("config: %s %q must be a file name, not a path", key, name)
		}
	}
	if c.StudentsFile == c.LanguagesFile {
		return fmt.Errorf("config: students_file and languages_file must differ")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log.format %q must be text or json", c.Log.Format)
	}
	return nil
}

// SaveDefault writes the default configuration to path, refusing to
// overwrite an existing file.
func SaveDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
