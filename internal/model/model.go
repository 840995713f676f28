// Package model defines core data structures for envcheck.
package model

import "sort"

// Policy names the reconciliation policy a violation group failed.
type Policy string

const (
	SubsetOf       Policy = "subset-of"
	DisjointFrom   Policy = "disjoint-from"
	Equals         Policy = "equals"
	ForbiddenUsage Policy = "forbidden-usage"
)

// Severity decides whether a non-empty violation group fails its verdict.
type Severity string

const (
	Error   Severity = "error"
	Warning Severity = "warning"
)

// Layout controls how occurrences of a group are rendered.
type Layout string

const (
	// Grouped lists each symbol once with its occurrences underneath.
	Grouped Layout = "grouped"
	// Inline prints one line per occurrence: file:line, symbol, code.
	Inline Layout = "inline"
)

// Occurrence is one place a symbol was matched.
type Occurrence struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Text   string `json:"text" yaml:"text"`
}

// Usages maps a symbol to every occurrence found, in discovery order.
type Usages map[string][]Occurrence

// Symbols returns the set of symbols that have at least one occurrence.
func (u Usages) Symbols() Set {
	names := make([]string, 0, len(u))
	for name, occs := range u {
		if len(occs) > 0 {
			names = append(names, name)
		}
	}
	return NewSet(names...)
}

// SortOccurrences orders occurrences by file, then line. The sort is stable
// so several matches on one line keep their left-to-right order.
func SortOccurrences(occs []Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		if occs[i].File != occs[j].File {
			return occs[i].File < occs[j].File
		}
		return occs[i].Line < occs[j].Line
	})
}

// ViolationGroup is a batch of symbols failing one policy.
type ViolationGroup struct {
	Policy      Policy                  `json:"policy" yaml:"policy"`
	Severity    Severity                `json:"severity" yaml:"severity"`
	Title       string                  `json:"title" yaml:"title"`
	Symbols     []string                `json:"symbols" yaml:"symbols"`
	Occurrences map[string][]Occurrence `json:"occurrences,omitempty" yaml:"occurrences,omitempty"`
	Layout      Layout                  `json:"-" yaml:"-"`
	Hints       []string                `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// Empty reports whether the group holds no violating symbols.
func (g ViolationGroup) Empty() bool {
	return len(g.Symbols) == 0
}

// ScanWarning records a file that could not be read during a tree scan.
type ScanWarning struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
}

// Status is the pass/fail outcome of a check.
type Status string

const (
	Pass Status = "PASS"
	Fail Status = "FAIL"
)

// Verdict is the complete result of one check run.
type Verdict struct {
	Check    string           `json:"check" yaml:"check"`
	Title    string           `json:"title" yaml:"title"`
	Success  string           `json:"-" yaml:"-"`
	Groups   []ViolationGroup `json:"groups" yaml:"groups"`
	Warnings []ScanWarning    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Failed reports whether any non-empty group has error severity.
// Warning groups are reported but never fail a verdict.
func (v *Verdict) Failed() bool {
	for i := range v.Groups {
		if v.Groups[i].Severity == Error && !v.Groups[i].Empty() {
			return true
		}
	}
	return false
}

// Status returns Fail if the verdict failed, Pass otherwise.
func (v *Verdict) Status() Status {
	if v.Failed() {
		return Fail
	}
	return Pass
}
