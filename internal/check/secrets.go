package check

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/phobologic/envcheck/internal/extract"
	"github.com/phobologic/envcheck/internal/model"
	"github.com/phobologic/envcheck/internal/reconcile"
	"github.com/phobologic/envcheck/internal/source"
)

// ConfigVsSecrets verifies that every env var the settings module reads is
// declared in one of the SSM lists, and that no var is declared in both.
// Missing declaration lists count as empty.
func ConfigVsSecrets(env Env) (model.Verdict, error) {
	cfg := env.Config
	log := env.logger()
	label := settingsLabel(cfg)

	settingsText, err := source.Read(cfg.Path(cfg.Sources.Settings), source.Strict)
	if err != nil {
		return model.Verdict{}, err
	}
	global, err := readDeclarations(log, cfg.Path(cfg.Sources.SecretsGlobal))
	if err != nil {
		return model.Verdict{}, err
	}
	envSpecific, err := readDeclarations(log, cfg.Path(cfg.Sources.SecretsEnv))
	if err != nil {
		return model.Verdict{}, err
	}

	used := extract.Extract(settingsText, extract.CallArgument(cfg.Access.Calls...))
	declared := global.Union(envSpecific)

	log.Debug("extracted secrets symbols",
		zap.Int("settings", used.Len()),
		zap.Int("global", global.Len()),
		zap.Int("env_specific", envSpecific.Len()),
	)

	usedOp := reconcile.Operand{Label: label, Set: used}
	declaredOp := reconcile.Operand{Label: "SSM lists", Set: declared}

	missing, err := reconcileOne(model.SubsetOf, usedOp, declaredOp)
	if err != nil {
		return model.Verdict{}, err
	}
	missing.Title = fmt.Sprintf("Env vars used in %s but NOT declared in SSM lists:", label)
	missing.Hints = []string{"Declare each var in the global or the env-specific SSM list"}

	duplicates, err := reconcileOne(model.DisjointFrom,
		reconcile.Operand{Label: "global", Set: global},
		reconcile.Operand{Label: "env-specific", Set: envSpecific},
	)
	if err != nil {
		return model.Verdict{}, err
	}
	duplicates.Title = "Env vars declared in BOTH global and env-specific SSM lists:"
	duplicates.Hints = []string{"Keep each var in exactly one SSM list"}

	groups := []model.ViolationGroup{missing, duplicates}

	if cfg.Secrets.ReportUnused {
		unused, err := reconcileOne(model.SubsetOf, declaredOp, usedOp)
		if err != nil {
			return model.Verdict{}, err
		}
		unused.Severity = model.Warning
		unused.Title = fmt.Sprintf("Env vars declared in SSM lists but NOT used in %s:", label)
		groups = append(groups, unused)
	}

	return model.Verdict{
		Check:   "secrets",
		Title:   "Config vs SSM declaration check",
		Success: fmt.Sprintf("%s and SSM lists are consistent.", label),
		Groups:  reconcile.NonEmpty(groups),
	}, nil
}

// readDeclarations reads an optional SSM list. Lines that are not a single
// symbol are skipped and logged as warnings.
func readDeclarations(log *zap.Logger, path string) (model.Set, error) {
	text, err := source.Read(path, source.Optional)
	if err != nil {
		return model.Set{}, err
	}
	for _, r := range extract.BareTokenRejects(text) {
		log.Warn("ignoring malformed declaration line",
			zap.String("path", path),
			zap.Int("line", r.Line),
			zap.String("text", r.Text),
		)
	}
	return extract.Extract(text, extract.BareToken()), nil
}
