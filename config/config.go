// Package config holds the magnet configuration and its YAML and JSON loaders.
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/pablor21/magnet/logger"
)

//go:embed config.yml
var defaultConfigFile embed.FS

type Config struct {
	Scanning ScanningConfig   `json:"scanning" yaml:"scanning"`
	Output   OutputConfig     `json:"output" yaml:"output"`
	Schema   SchemaConfig     `json:"schema" yaml:"schema"`
	LogLevel *logger.LogLevel `json:"logLevel" yaml:"logLevel"`
}

type ScanningConfig struct {
	Packages []string `json:"packages" yaml:"packages"`
	Tests    bool     `json:"tests" yaml:"tests"`
}

type OutputConfig struct {
	Suffix string `json:"suffix" yaml:"suffix"`
	DryRun bool   `json:"dry_run" yaml:"dry_run"`
}

type SchemaConfig struct {
	DescriptionsFromComments bool   `json:"descriptions_from_comments" yaml:"descriptions_from_comments"`
	FieldNaming              string `json:"field_naming" yaml:"field_naming"`
	CheckAnnotations         bool   `json:"check_annotations" yaml:"check_annotations"`
}

// Level returns the configured log level or info.
func (c *Config) Level() logger.LogLevel {
	if c.LogLevel == nil || *c.LogLevel == logger.NoLevel {
		return logger.InfoLevel
	}
	return logger.ParseLevel(string(*c.LogLevel))
}

func NewDefaultConfig() *Config {
	// parse default config from embedded file
	config, err := LoadConfigFromFS(defaultConfigFile, "config.yml")
	if err != nil {
		panic("failed to load default config: " + err.Error())
	}
	return config
}

func LoadConfigFromFS(fs embed.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadConfigFromYAML(data)
}

// LoadConfigFile reads a YAML or JSON file (chosen by extension) on top of the
// defaults.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	config := NewDefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = jsonUnmarshal(data, config)
	case ".yml", ".yaml":
		err = yamlUnmarshal(data, config)
	default:
		return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return config, nil
}

func LoadConfigFromYAML(data []byte) (*Config, error) {
	var config Config
	err := yamlUnmarshal(data, &config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func LoadConfigFromJSON(data []byte) (*Config, error) {
	var config Config
	err := jsonUnmarshal(data, &config)
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func yamlUnmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func jsonUnmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
