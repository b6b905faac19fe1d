// Package config loads the application configuration from YAML, filling in
// defaults for anything the file leaves out.
package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

// Config matches config.yaml.
type Config struct {
	Model        string `yaml:"model"`
	DocsDir      string `yaml:"docs_dir"`
	DBPath       string `yaml:"db_path"`
	IndexPath    string `yaml:"index_path"`
	ListenAddr   string `yaml:"listen_addr"`
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	MaxResults   int    `yaml:"max_results"`
	MaxHistory   int    `yaml:"max_history"`
	MaxRounds    int    `yaml:"max_rounds"`
	WatchDocs    bool   `yaml:"watch_docs"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		DocsDir:      "docs",
		DBPath:       "coursechat.db",
		IndexPath:    "course_index.json",
		ListenAddr:   ":8000",
		ChunkSize:    800,
		ChunkOverlap: 100,
		MaxResults:   5,
		MaxHistory:   2,
		MaxRounds:    2,
	}
}

// Load reads path and overlays it on the defaults. A missing file is not an
// error; it just yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
