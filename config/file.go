package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for the project YAML file. Fields are
// pointers so absent keys do not clobber earlier layers.
type fileConfig struct {
	ProjectID    *string `yaml:"project_id"`
	ProjectName  *string `yaml:"project_name"`
	BaseURL      *string `yaml:"base_url"`
	TimeoutMS    *int    `yaml:"timeout_ms"`
	MaxRetries   *int    `yaml:"max_retries"`
	RetryDelayMS *int    `yaml:"retry_delay_ms"`
	Enabled      *bool   `yaml:"enabled"`
	FailOnError  *bool   `yaml:"fail_on_error"`
}

// applyFile merges the project config file into cfg. The file is optional;
// read and parse errors are ignored.
func applyFile(cfg *Config, projectRoot string) {
	if projectRoot == "" {
		projectRoot = "."
	}

	data, err := os.ReadFile(filepath.Join(projectRoot, ProjectConfigFile))
	if err != nil {
		return
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return
	}

	if fc.ProjectID != nil {
		cfg.ProjectID = *fc.ProjectID
	}
	if fc.ProjectName != nil {
		cfg.ProjectName = *fc.ProjectName
	}
	if fc.BaseURL != nil {
		cfg.BaseURL = *fc.BaseURL
	}
	if fc.TimeoutMS != nil && *fc.TimeoutMS > 0 {
		cfg.Timeout = time.Duration(*fc.TimeoutMS) * time.Millisecond
	}
	if fc.MaxRetries != nil && *fc.MaxRetries > 0 {
		cfg.MaxRetries = *fc.MaxRetries
	}
	if fc.RetryDelayMS != nil && *fc.RetryDelayMS > 0 {
		cfg.RetryBaseDelay = time.Duration(*fc.RetryDelayMS) * time.Millisecond
	}
	if fc.Enabled != nil {
		cfg.Enabled = *fc.Enabled
	}
	if fc.FailOnError != nil {
		cfg.FailOnError = *fc.FailOnError
	}
}
