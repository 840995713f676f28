// Package check wires sources, rules and policies into the four
// configuration-consistency checks.
package check

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/phobologic/envcheck/internal/config"
	"github.com/phobologic/envcheck/internal/locate"
	"github.com/phobologic/envcheck/internal/model"
	"github.com/phobologic/envcheck/internal/reconcile"
)

// ErrUnknownCheck indicates a check name that is not registered.
var ErrUnknownCheck = errors.New("unknown check")

// Env is everything a check needs to run.
type Env struct {
	Config *config.Config
	Logger *zap.Logger
}

func (e Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// Check is one independent consistency check.
type Check struct {
	Name  string
	Short string
	Run   func(Env) (model.Verdict, error)
}

// All lists every check in the order "envcheck all" runs them.
var All = []Check{
	{Name: "secrets", Short: "Verify settings env vars are declared in the SSM lists", Run: ConfigVsSecrets},
	{Name: "env-example", Short: "Verify .env.example mirrors the settings env vars", Run: EnvExampleVsConfig},
	{Name: "direct-access", Short: "Forbid direct environment access outside the settings module", Run: NoDirectAccess},
	{Name: "settings-usage", Short: "Verify every settings.<NAME> usage is a declared field", Run: SettingsUsageDeclared},
}

// Lookup returns the registered check called name.
func Lookup(name string) (Check, error) {
	for _, c := range All {
		if c.Name == name {
			return c, nil
		}
	}
	return Check{}, fmt.Errorf("%w %q", ErrUnknownCheck, name)
}

// reconcileOne evaluates a policy that yields a single group.
func reconcileOne(policy model.Policy, a, b reconcile.Operand) (model.ViolationGroup, error) {
	groups, err := reconcile.Reconcile(policy, a, b)
	if err != nil {
		return model.ViolationGroup{}, err
	}
	return groups[0], nil
}

// settingsLabel is how reports refer to the settings module.
func settingsLabel(cfg *config.Config) string {
	return filepath.Base(cfg.Sources.Settings)
}

func scanOptions(cfg *config.Config, exclude ...locate.Exclusion) locate.Options {
	return locate.Options{
		Include:          cfg.Scan.Include,
		RespectGitignore: cfg.Scan.RespectGitignore,
		Exclude:          exclude,
	}
}

// scanned logs the outcome of a tree scan and copies its warnings.
func scanned(log *zap.Logger, root string, res locate.Result) []model.ScanWarning {
	for _, w := range res.Warnings {
		log.Warn("failed to read source file", zap.String("path", w.Path), zap.String("error", w.Message))
	}
	log.Debug("scanned source tree",
		zap.String("root", root),
		zap.Int("files", res.Files),
		zap.Int("symbols", len(res.Usages)),
		zap.Int("unreadable", len(res.Warnings)),
	)
	return res.Warnings
}
