// Package report renders check verdicts and maps them to an exit status.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/phobologic/envcheck/internal/model"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat indicates an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

const (
	markerError   = "❌"
	markerWarning = "⚠️"
	markerPass    = "✅"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("%w %q (want text, json or yaml)", ErrUnknownFormat, s)
}

// ExitCode returns 1 if any verdict failed and 0 otherwise.
func ExitCode(verdicts ...model.Verdict) int {
	for i := range verdicts {
		if verdicts[i].Failed() {
			return 1
		}
	}
	return 0
}

// Write renders verdicts to w in the given format.
func Write(w io.Writer, format Format, verdicts ...model.Verdict) error {
	switch format {
	case FormatText, "":
		_, err := io.WriteString(w, Text(verdicts...))
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(newDocument(verdicts), "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatYAML:
		data, err := yaml.Marshal(newDocument(verdicts))
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

// Text renders verdicts as the human-readable CI report. Output depends
// only on the verdicts, so identical inputs give identical bytes.
func Text(verdicts ...model.Verdict) string {
	var b strings.Builder
	for i := range verdicts {
		if i > 0 {
			b.WriteString("\n")
		}
		writeVerdict(&b, &verdicts[i])
	}
	return b.String()
}

func writeVerdict(b *strings.Builder, v *model.Verdict) {
	if v.Title != "" {
		fmt.Fprintf(b, "%s\n", v.Title)
	}

	for i := range v.Groups {
		g := &v.Groups[i]
		if g.Empty() {
			continue
		}
		writeGroup(b, g)
	}

	if v.Failed() {
		fmt.Fprintf(b, "FAIL: %s\n", v.Check)
		return
	}
	fmt.Fprintf(b, "%s %s\n", markerPass, v.Success)
}

func writeGroup(b *strings.Builder, g *model.ViolationGroup) {
	marker := markerError
	if g.Severity == model.Warning {
		marker = markerWarning
	}
	fmt.Fprintf(b, "%s %s\n", marker, g.Title)

	switch {
	case len(g.Occurrences) == 0:
		for _, sym := range g.Symbols {
			fmt.Fprintf(b, " - %s\n", sym)
		}
	case g.Layout == model.Inline:
		for _, occ := range inlineOccurrences(g) {
			fmt.Fprintf(b, " - %s:%d  %s  %s\n", occ.File, occ.Line, occ.Symbol, occ.Text)
		}
	default:
		b.WriteString("\n")
		for _, sym := range g.Symbols {
			fmt.Fprintf(b, "%s:\n", sym)
			for _, occ := range g.Occurrences[sym] {
				fmt.Fprintf(b, "  - %s:%d\n", occ.File, occ.Line)
				fmt.Fprintf(b, "      %s\n", occ.Text)
			}
		}
	}
	b.WriteString("\n")

	if len(g.Hints) > 0 {
		b.WriteString("Fix options:\n")
		for _, h := range g.Hints {
			fmt.Fprintf(b, " - %s\n", h)
		}
		b.WriteString("\n")
	}
}

// inlineOccurrences flattens a group's occurrences ordered by file and line.
func inlineOccurrences(g *model.ViolationGroup) []model.Occurrence {
	var all []model.Occurrence
	for _, sym := range g.Symbols {
		all = append(all, g.Occurrences[sym]...)
	}
	model.SortOccurrences(all)
	return all
}

type document struct {
	Status model.Status    `json:"status" yaml:"status"`
	Checks []checkDocument `json:"checks" yaml:"checks"`
}

type checkDocument struct {
	model.Verdict `yaml:",inline"`
	Status        model.Status `json:"status" yaml:"status"`
}

func newDocument(verdicts []model.Verdict) document {
	doc := document{Status: model.Pass, Checks: make([]checkDocument, 0, len(verdicts))}
	if ExitCode(verdicts...) != 0 {
		doc.Status = model.Fail
	}
	for _, v := range verdicts {
		if v.Groups == nil {
			v.Groups = []model.ViolationGroup{}
		}
		doc.Checks = append(doc.Checks, checkDocument{Verdict: v, Status: v.Status()})
	}
	return doc
}
