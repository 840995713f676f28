// Package config holds envcheck's settings: where the checked sources live
// and how the checks match them.
package config

import (
	"path/filepath"

	"github.com/phobologic/envcheck/internal/discover"
	"github.com/phobologic/envcheck/internal/extract"
)

// FileName is the optional config file looked up in the project root.
const FileName = ".envcheck.yaml"

// Config represents the complete envcheck configuration.
// It can be loaded from .envcheck.yaml with ENVCHECK_* environment overrides.
type Config struct {
	// Root is the project root every relative path is resolved against.
	// It comes from the command line, never from the file.
	Root string `yaml:"-" mapstructure:"-"`

	Sources      SourcesConfig      `yaml:"sources" mapstructure:"sources" validate:"required"`
	Scan         ScanConfig         `yaml:"scan" mapstructure:"scan"`
	Access       AccessConfig       `yaml:"access" mapstructure:"access"`
	DirectAccess DirectAccessConfig `yaml:"direct_access" mapstructure:"direct_access"`
	Secrets      SecretsConfig      `yaml:"secrets" mapstructure:"secrets"`
}

// SourcesConfig locates the files the checks read, relative to Root.
type SourcesConfig struct {
	Settings      string `yaml:"settings" mapstructure:"settings" validate:"required"`             // central settings module
	SecretsGlobal string `yaml:"secrets_global" mapstructure:"secrets_global" validate:"required"` // global declaration list
	SecretsEnv    string `yaml:"secrets_env" mapstructure:"secrets_env" validate:"required"`       // environment-specific declaration list
	EnvExample    string `yaml:"env_example" mapstructure:"env_example" validate:"required"`
	AppRoot       string `yaml:"app_root" mapstructure:"app_root" validate:"required"`
}

// ScanConfig controls which files the tree-scanning checks visit.
type ScanConfig struct {
	Include          []string `yaml:"include" mapstructure:"include" validate:"required,min=1,dive,required"`
	RespectGitignore bool     `yaml:"respect_gitignore" mapstructure:"respect_gitignore"`
}

// AccessConfig describes how code reads configuration.
type AccessConfig struct {
	Calls          []string `yaml:"calls" mapstructure:"calls" validate:"required,min=1,dive,required"`
	SettingsObject string   `yaml:"settings_object" mapstructure:"settings_object" validate:"required"`
}

// DirectAccessConfig lists the files allowed to read the environment directly.
type DirectAccessConfig struct {
	ExcludeNames []string `yaml:"exclude_names" mapstructure:"exclude_names" validate:"dive,required"` // base-name substrings
	ExcludeGlobs []string `yaml:"exclude_globs" mapstructure:"exclude_globs" validate:"dive,required"` // relative to the app root
}

// SecretsConfig tunes the declared-secrets check.
type SecretsConfig struct {
	// ReportUnused warns about declared secrets the settings module never reads.
	ReportUnused bool `yaml:"report_unused" mapstructure:"report_unused"`
}

// Default returns a configuration with the conventional project layout.
func Default() *Config {
	return &Config{
		Root: ".",
		Sources: SourcesConfig{
			Settings:      "app/core/config/config.py",
			SecretsGlobal: "scripts/ci/ssm_global_envs.txt",
			SecretsEnv:    "scripts/ci/ssm_env_specific_envs.txt",
			EnvExample:    ".env.example",
			AppRoot:       "app",
		},
		Scan: ScanConfig{
			Include:          append([]string(nil), discover.DefaultInclude...),
			RespectGitignore: false,
		},
		Access: AccessConfig{
			Calls:          append([]string(nil), extract.DefaultCalls...),
			SettingsObject: extract.DefaultSettingsObject,
		},
		DirectAccess: DirectAccessConfig{
			ExcludeNames: []string{
				"config.py",
				"check_env_vars.py",
				"check_no_direct_env_access.py",
			},
			ExcludeGlobs: []string{},
		},
	}
}

// Path resolves a configured path against Root. Absolute paths are returned
// unchanged.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	root := c.Root
	if root == "" {
		root = "."
	}
	return filepath.Join(root, p)
}
