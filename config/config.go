// Package config loads the YAML configuration shared by the service and the
// client.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"sepsisguard/logging"
	"sepsisguard/ml"
)

// Config 服务与客户端配置
type Config struct {
	HTTP   HTTPConfig     `yaml:"http"`
	Models ModelsConfig   `yaml:"models"`
	Log    logging.Config `yaml:"log"`
	Client ClientConfig   `yaml:"client"`
}

type HTTPConfig struct {
	Port           int           `yaml:"port"`
	Timeout        time.Duration `yaml:"timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`
}

type ModelsConfig struct {
	Dir         string       `yaml:"dir"`
	EncoderFile string       `yaml:"encoder_file"`
	Watch       bool         `yaml:"watch"`
	Entries     []ModelEntry `yaml:"entries"`
}

type ModelEntry struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

type ClientConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	DefaultModel string        `yaml:"default_model"`
}

// Default 默认配置
func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Port:           8000,
			Timeout:        30 * time.Second,
			AllowedOrigins: []string{"*"},
			MaxBodyBytes:   1 << 20,
		},
		Models: ModelsConfig{
			Dir:         "./Models",
			EncoderFile: "label_encoder.json",
			Watch:       true,
			Entries: []ModelEntry{
				{Name: "DecisionTree", File: "Decision_Tree_tunedb_pipeline.json"},
				{Name: "LogisticRegression", File: "Logistic_Regression_tunedb_pipeline.json"},
				{Name: "GradientBoosting", File: "Gradient_Boosting_tunedb_pipeline.json"},
				{Name: "SVM", File: "SVM_tunedb_pipeline.json"},
			},
		},
		Log: logging.DefaultConfig(),
		Client: ClientConfig{
			BaseURL:      "http://127.0.0.1:8000",
			Timeout:      30 * time.Second,
			DefaultModel: "LogisticRegression",
		},
	}
}

// Load reads path over the defaults, then applies .env and SEPSIS_*
// environment overrides. An empty path means defaults only.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := Default()
	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("SEPSIS_HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SEPSIS_HTTP_PORT: %w", err)
		}
		c.HTTP.Port = port
	}
	if v := os.Getenv("SEPSIS_MODEL_DIR"); v != "" {
		c.Models.Dir = v
	}
	if v := os.Getenv("SEPSIS_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("SEPSIS_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	if v := os.Getenv("SEPSIS_API_URL"); v != "" {
		c.Client.BaseURL = v
	}
	return nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.HTTP.Port)
	}
	if c.HTTP.Timeout <= 0 {
		return errors.New("http.timeout must be positive")
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return errors.New("http.max_body_bytes must be positive")
	}
	if c.Models.Dir == "" {
		return errors.New("models.dir is required")
	}
	if c.Models.EncoderFile == "" {
		return errors.New("models.encoder_file is required")
	}
	if len(c.Models.Entries) == 0 {
		return errors.New("models.entries must list at least one model")
	}
	seen := make(map[string]bool, len(c.Models.Entries))
	for i, e := range c.Models.Entries {
		if e.Name == "" || e.File == "" {
			return fmt.Errorf("models.entries[%d]: name and file are required", i)
		}
		if strings.ContainsAny(e.Name, "/?#% ") {
			return fmt.Errorf("models.entries[%d]: name %q is not usable in a URL path", i, e.Name)
		}
		if seen[e.Name] {
			return fmt.Errorf("models.entries[%d]: duplicate name %q", i, e.Name)
		}
		seen[e.Name] = true
	}
	if c.Client.Timeout <= 0 {
		return errors.New("client.timeout must be positive")
	}
	return nil
}

// ModelSpecs converts the configured entries for ml.LoadRegistry.
func (c *Config) ModelSpecs() []ml.ModelSpec {
	specs := make([]ml.ModelSpec, len(c.Models.Entries))
	for i, e := range c.Models.Entries {
		specs[i] = ml.ModelSpec{Name: e.Name, File: e.File}
	}
	return specs
}

// ModelNames lists the configured model names in order.
func (c *Config) ModelNames() []string {
	names := make([]string, len(c.Models.Entries))
	for i, e := range c.Models.Entries {
		names[i] = e.Name
	}
	return names
}
