// Package reconcile compares labelled symbol sets under a policy and reports
// the violating symbols. It performs no I/O.
package reconcile

import (
	"errors"
	"fmt"

	"github.com/phobologic/envcheck/internal/model"
)

// Operand is a symbol set tagged with where it came from. Usages is set
// when the set was produced by the locator, so violations can point at the
// offending lines.
type Operand struct {
	Label  string
	Set    model.Set
	Usages model.Usages
}

// FromUsages builds an operand whose set is the symbols present in u.
func FromUsages(label string, u model.Usages) Operand {
	return Operand{Label: label, Set: u.Symbols(), Usages: u}
}

const (
	subsetTitle    = "Symbols in %s but NOT declared in %s:"
	disjointTitle  = "Symbols declared in BOTH %s and %s:"
	missingTitle   = "Symbols in %s but missing in %s:"
	extraTitle     = "Symbols in %s but not used in %s:"
	forbiddenTitle = "Forbidden usage found in %s:"
)

// ErrUnsupportedPolicy indicates a policy Reconcile cannot evaluate.
var ErrUnsupportedPolicy = errors.New("unsupported policy")

// Reconcile evaluates policy between a and b. Equals yields two groups,
// missing (a − b) then extra (b − a); every other policy yields one.
// ForbiddenUsage reports every symbol of a and ignores b. Groups may be
// empty; see NonEmpty.
func Reconcile(policy model.Policy, a, b Operand) ([]model.ViolationGroup, error) {
	switch policy {
	case model.SubsetOf:
		return []model.ViolationGroup{SubsetOf(a, b)}, nil
	case model.DisjointFrom:
		return []model.ViolationGroup{DisjointFrom(a, b)}, nil
	case model.Equals:
		missing, extra := Equals(a, b)
		return []model.ViolationGroup{missing, extra}, nil
	case model.ForbiddenUsage:
		return []model.ViolationGroup{forbidden(a)}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnsupportedPolicy, policy)
}

// SubsetOf reports a − b: symbols of a that b does not declare.
func SubsetOf(a, b Operand) model.ViolationGroup {
	return group(model.SubsetOf, fmt.Sprintf(subsetTitle, a.Label, b.Label), a.Set.Difference(b.Set), a.Usages)
}

// DisjointFrom reports a ∩ b: symbols that must appear in only one of them.
func DisjointFrom(a, b Operand) model.ViolationGroup {
	return group(model.DisjointFrom, fmt.Sprintf(disjointTitle, a.Label, b.Label), a.Set.Intersect(b.Set), a.Usages)
}

// Equals checks both directions separately: missing holds a − b and extra
// holds b − a. They are kept apart because they call for different fixes.
func Equals(a, b Operand) (missing, extra model.ViolationGroup) {
	missing = group(model.Equals, fmt.Sprintf(missingTitle, a.Label, b.Label), a.Set.Difference(b.Set), a.Usages)
	extra = group(model.Equals, fmt.Sprintf(extraTitle, b.Label, a.Label), b.Set.Difference(a.Set), b.Usages)
	return missing, extra
}

// Forbidden treats every located usage as a violation.
func Forbidden(label string, u model.Usages) model.ViolationGroup {
	return forbidden(FromUsages(label, u))
}

func forbidden(a Operand) model.ViolationGroup {
	return group(model.ForbiddenUsage, fmt.Sprintf(forbiddenTitle, a.Label), a.Set, a.Usages)
}

func group(policy model.Policy, title string, violating model.Set, usages model.Usages) model.ViolationGroup {
	g := model.ViolationGroup{
		Policy:   policy,
		Severity: model.Error,
		Title:    title,
		Symbols:  violating.Sorted(),
		Layout:   model.Grouped,
	}
	if usages == nil || violating.Len() == 0 {
		return g
	}
	g.Occurrences = make(map[string][]model.Occurrence, violating.Len())
	for _, sym := range g.Symbols {
		occs := append([]model.Occurrence(nil), usages[sym]...)
		model.SortOccurrences(occs)
		g.Occurrences[sym] = occs
	}
	return g
}

// NonEmpty drops groups without violating symbols, keeping order.
func NonEmpty(groups []model.ViolationGroup) []model.ViolationGroup {
	var out []model.ViolationGroup
	for _, g := range groups {
		if !g.Empty() {
			out = append(out, g)
		}
	}
	return out
}
