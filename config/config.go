// Package config loads .hsdoc.yml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in a project root.
const FileName = ".hsdoc.yml"

// Config controls which files are scanned and how they are rendered.
type Config struct {
	Dialect    string   `yaml:"dialect" validate:"oneof=dashes slashes"`
	Extensions []string `yaml:"extensions" validate:"required,min=1,dive,startswith=."`
	Exclude    []string `yaml:"exclude" validate:"dive,required"`
	Format     string   `yaml:"format" validate:"oneof=json yaml markdown text"`
	Workers    int      `yaml:"workers" validate:"min=1,max=64"`
	Strict     bool     `yaml:"strict"`
}

// Default returns the configuration used when there is no file.
func Default() Config {
	return Config{
		Dialect:    "dashes",
		Extensions: []string{".lua", ".m", ".h"},
		Exclude:    []string{".git", "vendor", "node_modules"},
		Format:     "text",
		Workers:    4,
	}
}

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New()
	})
	return validatorInstance
}

// Validate checks c against its struct tags.
func (c Config) Validate() error {
	return getValidator().Struct(c)
}

// Load reads the file at path over Default. A missing file is not an
// error.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the path of the configuration file for dir, searching dir
// and its parents. It returns "" when there is none.
func Find(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for d := abs; ; d = filepath.Dir(d) {
		candidate := filepath.Join(d, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		if filepath.Dir(d) == d {
			return ""
		}
	}
}

// Matches reports whether path has one of the configured extensions.
func (c Config) Matches(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range c.Extensions {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

// Excluded reports whether a directory or file name is on the exclude list.
func (c Config) Excluded(name string) bool {
	for _, e := range c.Exclude {
		if name == e {
			return true
		}
	}
	return false
}
