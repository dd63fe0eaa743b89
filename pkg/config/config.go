// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads renamepro settings from YAML or HCL files through a
// pluggable parser registry.
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔁 DuplicateHandling configures what happens when a destination filename
// already exists. Mode "ask" must be resolved by the host before the
// executor runs.
type DuplicateHandling struct {
	Mode            string `json:"mode" yaml:"mode"`
	IncrementFormat string `json:"increment_format,omitempty" yaml:"increment_format,omitempty"`
}

// 📁 JobFolderSettings configures where job folders live and which ones were
// used recently.
type JobFolderSettings struct {
	BaseDirectory string   `json:"base_directory,omitempty" yaml:"base_directory,omitempty"`
	RecentFolders []string `json:"recent_folders,omitempty" yaml:"recent_folders,omitempty"`
	MaxRecent     int      `json:"max_recent,omitempty" yaml:"max_recent,omitempty"`
}

// 📚 Config represents the complete configuration
type Config struct {
	ProductSKUs    []string          `json:"product_skus,omitempty" yaml:"product_skus,omitempty"`
	FilePurposes   []string          `json:"file_purposes,omitempty" yaml:"file_purposes,omitempty"`
	Revisions      []string          `json:"revisions,omitempty" yaml:"revisions,omitempty"`
	Duplicates     DuplicateHandling `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
	JobFolders     JobFolderSettings `json:"job_folders,omitempty" yaml:"job_folders,omitempty"`
	MaxHistory     int               `json:"max_history,omitempty" yaml:"max_history,omitempty"`
	LogDirectory   string            `json:"log_directory,omitempty" yaml:"log_directory,omitempty"`
	IgnorePatterns []string          `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"`
	ConfirmRename  bool              `json:"confirm_rename,omitempty" yaml:"confirm_rename,omitempty"`
}

// 🏭 Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// 🎯 Load loads the configuration from a file. A missing file yields the
// defaults rather than an error, so the CLI works out of the box.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("config file not found, using defaults")
			return Default(), nil
		}
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// 💾 Save writes the configuration back to a YAML file atomically. HCL
// configs are treated as hand-maintained and are not rewritten.
func (cfg *Config) Save(ctx context.Context, path string) error {
	if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
		return errors.Errorf("refusing to rewrite non-YAML config: %s", path)
	}

	content, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Errorf("encoding config: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, content, 0644); err != nil {
		return errors.Errorf("writing temp config: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("replacing config: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("saved configuration")
	return nil
}

// 📁 RememberFolder records a job folder at the front of the recent list,
// de-duplicating and clamping to MaxRecent.
func (cfg *Config) RememberFolder(name string) {
	if name == "" {
		return
	}

	recent := []string{name}
	for _, f := range cfg.JobFolders.RecentFolders {
		if f != name {
			recent = append(recent, f)
		}
	}

	if cfg.JobFolders.MaxRecent > 0 && len(recent) > cfg.JobFolders.MaxRecent {
		recent = recent[:cfg.JobFolders.MaxRecent]
	}

	cfg.JobFolders.RecentFolders = recent
}

// 🔍 Validate checks the configuration and fills defaults.
func (cfg *Config) Validate() error {
	cfg.applyDefaults()

	switch cfg.Duplicates.Mode {
	case "ask", "skip", "increment", "overwrite":
	default:
		return errors.Errorf("duplicates.mode must be one of ask|skip|increment|overwrite, got %q", cfg.Duplicates.Mode)
	}

	if cfg.MaxHistory < 0 {
		return errors.Errorf("max_history must not be negative")
	}

	if cfg.JobFolders.BaseDirectory != "" {
		cfg.JobFolders.BaseDirectory = filepath.Clean(cfg.JobFolders.BaseDirectory)
	}

	return nil
}

func (cfg *Config) applyDefaults() {
	if len(cfg.Revisions) == 0 {
		cfg.Revisions = []string{"1", "2", "3", "4", "5", "FINAL"}
	}
	if len(cfg.FilePurposes) == 0 {
		cfg.FilePurposes = []string{"PROOF", "PRINT", "WEB", "SOURCE", "MOCKUP", "CUTFILE", "PREVIEW"}
	}
	if cfg.Duplicates.Mode == "" {
		cfg.Duplicates.Mode = "ask"
	}
	if cfg.Duplicates.IncrementFormat == "" {
		cfg.Duplicates.IncrementFormat = "_{n}"
	}
	if cfg.MaxHistory == 0 {
		cfg.MaxHistory = 50
	}
	if cfg.JobFolders.MaxRecent == 0 {
		cfg.JobFolders.MaxRecent = 10
	}
	if cfg.LogDirectory == "" {
		cfg.LogDirectory = "rename_logs"
	}
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("revisions=%s duplicates=%s max_history=%d",
		strings.Join(cfg.Revisions, ","), cfg.Duplicates.Mode, cfg.MaxHistory)
}

// 🔧 YAMLParser implements the Parser interface for YAML files
type YAMLParser struct{}

func init() {
	Register(&YAMLParser{})
}

func (p *YAMLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml")
}

func (p *YAMLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	var cfg Config
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Errorf("parsing YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

func init() {
	Register(&HCLParser{})
}

// hclConfig mirrors Config with HCL tags; optional blocks decode to pointers.
type hclConfig struct {
	ProductSKUs    []string       `hcl:"product_skus,optional"`
	FilePurposes   []string       `hcl:"file_purposes,optional"`
	Revisions      []string       `hcl:"revisions,optional"`
	Duplicates     *hclDuplicates `hcl:"duplicates,block"`
	JobFolders     *hclJobFolders `hcl:"job_folders,block"`
	MaxHistory     int            `hcl:"max_history,optional"`
	LogDirectory   string         `hcl:"log_directory,optional"`
	IgnorePatterns []string       `hcl:"ignore_patterns,optional"`
	ConfirmRename  bool           `hcl:"confirm_rename,optional"`
}

type hclDuplicates struct {
	Mode            string `hcl:"mode,optional"`
	IncrementFormat string `hcl:"increment_format,optional"`
}

type hclJobFolders struct {
	BaseDirectory string   `hcl:"base_directory,optional"`
	RecentFolders []string `hcl:"recent_folders,optional"`
	MaxRecent     int      `hcl:"max_recent,optional"`
}

func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".hcl")
}

func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
	}

	var raw hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &raw)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{
		ProductSKUs:    raw.ProductSKUs,
		FilePurposes:   raw.FilePurposes,
		Revisions:      raw.Revisions,
		MaxHistory:     raw.MaxHistory,
		LogDirectory:   raw.LogDirectory,
		IgnorePatterns: raw.IgnorePatterns,
		ConfirmRename:  raw.ConfirmRename,
	}
	if raw.Duplicates != nil {
		cfg.Duplicates = DuplicateHandling(*raw.Duplicates)
	}
	if raw.JobFolders != nil {
		cfg.JobFolders = JobFolderSettings(*raw.JobFolders)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}
