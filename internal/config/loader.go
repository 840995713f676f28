package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ENVCHECK_SOURCES_SETTINGS.
const EnvPrefix = "ENVCHECK"

// keys lists every setting that can be overridden from the environment.
var keys = []string{
	"sources.settings",
	"sources.secrets_global",
	"sources.secrets_env",
	"sources.env_example",
	"sources.app_root",
	"scan.include",
	"scan.respect_gitignore",
	"access.calls",
	"access.settings_object",
	"direct_access.exclude_names",
	"direct_access.exclude_globs",
	"secrets.report_unused",
}

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a loader for rootDir. If configFile is empty the loader
// looks for .envcheck.yaml in rootDir and tolerates its absence; an
// explicit configFile must exist.
func NewLoader(rootDir, configFile string) Loader {
	return &loader{rootDir: rootDir, configFile: configFile}
}

func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Root = l.rootDir
	if cfg.Root == "" {
		cfg.Root = "."
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("sources.settings", d.Sources.Settings)
	v.SetDefault("sources.secrets_global", d.Sources.SecretsGlobal)
	v.SetDefault("sources.secrets_env", d.Sources.SecretsEnv)
	v.SetDefault("sources.env_example", d.Sources.EnvExample)
	v.SetDefault("sources.app_root", d.Sources.AppRoot)

	v.SetDefault("scan.include", d.Scan.Include)
	v.SetDefault("scan.respect_gitignore", d.Scan.RespectGitignore)

	v.SetDefault("access.calls", d.Access.Calls)
	v.SetDefault("access.settings_object", d.Access.SettingsObject)

	v.SetDefault("direct_access.exclude_names", d.DirectAccess.ExcludeNames)
	v.SetDefault("direct_access.exclude_globs", d.DirectAccess.ExcludeGlobs)

	v.SetDefault("secrets.report_unused", d.Secrets.ReportUnused)
}

// Load is a convenience wrapper around NewLoader(rootDir, configFile).Load().
func Load(rootDir, configFile string) (*Config, error) {
	return NewLoader(rootDir, configFile).Load()
}
