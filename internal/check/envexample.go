package check

import (
	"fmt"
	"path/filepath"

	"github.com/phobologic/envcheck/internal/extract"
	"github.com/phobologic/envcheck/internal/model"
	"github.com/phobologic/envcheck/internal/reconcile"
	"github.com/phobologic/envcheck/internal/source"
)

// EnvExampleVsConfig compares the keys of the example environment file with
// the env vars the settings module reads. A var missing from the example
// fails the check; a var only in the example is reported as a warning.
func EnvExampleVsConfig(env Env) (model.Verdict, error) {
	cfg := env.Config
	label := settingsLabel(cfg)
	exampleLabel := filepath.Base(cfg.Sources.EnvExample)

	exampleText, err := source.Read(cfg.Path(cfg.Sources.EnvExample), source.Strict)
	if err != nil {
		return model.Verdict{}, err
	}
	settingsText, err := source.Read(cfg.Path(cfg.Sources.Settings), source.Strict)
	if err != nil {
		return model.Verdict{}, err
	}

	groups, err := reconcile.Reconcile(model.Equals,
		reconcile.Operand{Label: label, Set: extract.Extract(settingsText, extract.CallArgument(cfg.Access.Calls...))},
		reconcile.Operand{Label: exampleLabel, Set: extract.Extract(exampleText, extract.AssignmentKey())},
	)
	if err != nil {
		return model.Verdict{}, err
	}
	missing, extra := groups[0], groups[1]

	missing.Title = fmt.Sprintf("Variables in %s but missing in %s:", label, exampleLabel)
	missing.Hints = []string{fmt.Sprintf("Add each variable to %s", exampleLabel)}

	// Extra keys only warn; every other difference fails.
	extra.Severity = model.Warning
	extra.Title = fmt.Sprintf("Variables in %s but not used in %s:", exampleLabel, label)

	return model.Verdict{
		Check:   "env-example",
		Title:   "Env example vs config check",
		Success: fmt.Sprintf("%s matches %s", exampleLabel, label),
		Groups:  reconcile.NonEmpty([]model.ViolationGroup{missing, extra}),
	}, nil
}
