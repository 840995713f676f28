package check

import (
	"fmt"

	"github.com/phobologic/envcheck/internal/extract"
	"github.com/phobologic/envcheck/internal/locate"
	"github.com/phobologic/envcheck/internal/model"
	"github.com/phobologic/envcheck/internal/reconcile"
	"github.com/phobologic/envcheck/internal/source"
)

// SettingsUsageDeclared verifies that every settings.<NAME> used under the
// app root is declared as a field in the settings module.
func SettingsUsageDeclared(env Env) (model.Verdict, error) {
	cfg := env.Config
	label := settingsLabel(cfg)
	object := cfg.Access.SettingsObject
	settingsPath := cfg.Path(cfg.Sources.Settings)
	appRoot := cfg.Path(cfg.Sources.AppRoot)

	settingsText, err := source.Read(settingsPath, source.Strict)
	if err != nil {
		return model.Verdict{}, err
	}
	declared := extract.Extract(settingsText, extract.FieldDeclaration())

	res, err := locate.Locate(appRoot, extract.MemberAccess(object), scanOptions(cfg, locate.SamePath(settingsPath)))
	if err != nil {
		return model.Verdict{}, fmt.Errorf("app directory: %w", err)
	}
	warnings := scanned(env.logger(), appRoot, res)

	undeclared, err := reconcileOne(model.SubsetOf,
		reconcile.FromUsages(cfg.Sources.AppRoot, res.Usages),
		reconcile.Operand{Label: label, Set: declared},
	)
	if err != nil {
		return model.Verdict{}, err
	}
	undeclared.Title = fmt.Sprintf("%s.<NAME> used in code but NOT defined in %s:", object, label)
	undeclared.Hints = []string{
		"Add the setting to Settings in " + label,
		"OR remove/refactor the usage",
	}

	return model.Verdict{
		Check:    "settings-usage",
		Title:    "Settings usage check",
		Success:  fmt.Sprintf("All %s.<NAME> usages are defined in %s", object, label),
		Groups:   reconcile.NonEmpty([]model.ViolationGroup{undeclared}),
		Warnings: warnings,
	}, nil
}
