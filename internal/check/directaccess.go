package check

import (
	"fmt"

	"github.com/phobologic/envcheck/internal/extract"
	"github.com/phobologic/envcheck/internal/locate"
	"github.com/phobologic/envcheck/internal/model"
	"github.com/phobologic/envcheck/internal/reconcile"
)

// NoDirectAccess fails on any direct environment access call found under the
// app root outside the excluded files.
func NoDirectAccess(env Env) (model.Verdict, error) {
	cfg := env.Config
	label := settingsLabel(cfg)
	appRoot := cfg.Path(cfg.Sources.AppRoot)

	exclude := []locate.Exclusion{locate.NameContains(cfg.DirectAccess.ExcludeNames...)}
	if len(cfg.DirectAccess.ExcludeGlobs) > 0 {
		ex, err := locate.PathGlob(appRoot, cfg.DirectAccess.ExcludeGlobs...)
		if err != nil {
			return model.Verdict{}, err
		}
		exclude = append(exclude, ex)
	}

	res, err := locate.Locate(appRoot, extract.CallArgument(cfg.Access.Calls...), scanOptions(cfg, exclude...))
	if err != nil {
		return model.Verdict{}, fmt.Errorf("app directory: %w", err)
	}
	warnings := scanned(env.logger(), appRoot, res)

	found, err := reconcileOne(model.ForbiddenUsage, reconcile.FromUsages(cfg.Sources.AppRoot, res.Usages), reconcile.Operand{})
	if err != nil {
		return model.Verdict{}, err
	}
	found.Title = fmt.Sprintf("Found direct environment variable usage outside %s:", label)
	found.Layout = model.Inline
	found.Hints = []string{fmt.Sprintf("Read the value through %s instead", cfg.Access.SettingsObject)}

	return model.Verdict{
		Check:    "direct-access",
		Title:    "Direct Environment Variable Usage Check",
		Success:  fmt.Sprintf("No direct environment variable usage found outside %s.", label),
		Groups:   reconcile.NonEmpty([]model.ViolationGroup{found}),
		Warnings: warnings,
	}, nil
}
