package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/envcheck/internal/model"
)

func op(label string, names ...string) Operand {
	return Operand{Label: label, Set: model.NewSet(names...)}
}

func TestSubsetOfIsDifference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b []string
		want []string
	}{
		{"subset", []string{"A"}, []string{"A", "B"}, []string{}},
		{"equal", []string{"A", "B"}, []string{"B", "A"}, []string{}},
		{"empty a", nil, []string{"A"}, []string{}},
		{"missing", []string{"C", "A", "B"}, []string{"A"}, []string{"B", "C"}},
		{"empty b", []string{"A"}, nil, []string{"A"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := SubsetOf(op("a", tt.a...), op("b", tt.b...))
			assert.Equal(t, tt.want, g.Symbols)
			assert.Equal(t, len(tt.want) == 0, g.Empty())
			assert.Equal(t, model.SubsetOf, g.Policy)
		})
	}
}

func TestDisjointFromIsIntersection(t *testing.T) {
	t.Parallel()

	g := DisjointFrom(op("global", "A", "DUP_VAR", "Z"), op("env", "DUP_VAR", "Z", "Q"))
	assert.Equal(t, []string{"DUP_VAR", "Z"}, g.Symbols)
	assert.Equal(t, "Symbols declared in BOTH global and env:", g.Title)

	g = DisjointFrom(op("global", "A"), op("env", "B"))
	assert.True(t, g.Empty())
}

func TestEqualsReportsBothDirections(t *testing.T) {
	t.Parallel()

	missing, extra := Equals(op("config.py", "A", "B"), op(".env.example", "B", "PORT"))
	assert.Equal(t, []string{"A"}, missing.Symbols)
	assert.Equal(t, "Symbols in config.py but missing in .env.example:", missing.Title)
	assert.Equal(t, []string{"PORT"}, extra.Symbols)
	assert.Equal(t, "Symbols in .env.example but not used in config.py:", extra.Title)
}

func TestReconcileGroupShape(t *testing.T) {
	t.Parallel()

	a := op("a", "A", "B")

	groups, err := Reconcile(model.SubsetOf, a, op("b", "A", "B"))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.True(t, groups[0].Empty())
	assert.Empty(t, NonEmpty(groups))

	groups, err = Reconcile(model.Equals, a, op("b", "A", "C"))
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"B"}, groups[0].Symbols)
	assert.Equal(t, []string{"C"}, groups[1].Symbols)

	groups, err = Reconcile(model.Equals, a, op("b", "A"))
	require.NoError(t, err)
	require.Len(t, NonEmpty(groups), 1)
	assert.Equal(t, []string{"B"}, NonEmpty(groups)[0].Symbols)

	groups, err = Reconcile(model.DisjointFrom, a, op("b", "B"))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, model.DisjointFrom, groups[0].Policy)
}

func TestReconcileForbiddenUsage(t *testing.T) {
	t.Parallel()

	usages := model.Usages{"SECRET": {{Symbol: "SECRET", File: "x.py", Line: 2}}}
	groups, err := Reconcile(model.ForbiddenUsage, FromUsages("app", usages), Operand{})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, model.ForbiddenUsage, groups[0].Policy)
	assert.Equal(t, []string{"SECRET"}, groups[0].Symbols)
	assert.Len(t, groups[0].Occurrences["SECRET"], 1)

	// A bare set with no located usages still reports its symbols.
	groups, err = Reconcile(model.ForbiddenUsage, op("a", "X"), op("b", "X"))
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"X"}, groups[0].Symbols)
	assert.Empty(t, groups[0].Occurrences)
}

func TestReconcileDoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	a := op("a", "A", "B")
	b := op("b", "B", "C")
	_, _ = Reconcile(model.Equals, a, b)
	_, _ = Reconcile(model.DisjointFrom, a, b)
	assert.Equal(t, []string{"A", "B"}, a.Set.Sorted())
	assert.Equal(t, []string{"B", "C"}, b.Set.Sorted())
}

func TestSubsetOfCarriesOccurrences(t *testing.T) {
	t.Parallel()

	usages := model.Usages{
		"UNKNOWN_FIELD": {
			{Symbol: "UNKNOWN_FIELD", File: "b.py", Line: 3},
			{Symbol: "UNKNOWN_FIELD", File: "a.py", Line: 7},
		},
		"KNOWN": {{Symbol: "KNOWN", File: "a.py", Line: 1}},
	}
	g := SubsetOf(FromUsages("code", usages), op("config.py", "KNOWN"))

	assert.Equal(t, []string{"UNKNOWN_FIELD"}, g.Symbols)
	require.Contains(t, g.Occurrences, "UNKNOWN_FIELD")
	assert.NotContains(t, g.Occurrences, "KNOWN")
	occs := g.Occurrences["UNKNOWN_FIELD"]
	require.Len(t, occs, 2)
	assert.Equal(t, "a.py", occs[0].File)
	// Source usages keep their original order.
	assert.Equal(t, "b.py", usages["UNKNOWN_FIELD"][0].File)
}

func TestForbidden(t *testing.T) {
	t.Parallel()

	usages := model.Usages{"SECRET": {{Symbol: "SECRET", File: "x.py", Line: 2}}}
	g := Forbidden("app", usages)
	assert.Equal(t, model.ForbiddenUsage, g.Policy)
	assert.Equal(t, []string{"SECRET"}, g.Symbols)
	assert.Len(t, g.Occurrences["SECRET"], 1)

	assert.True(t, Forbidden("app", model.Usages{}).Empty())
}

func TestReconcileUnsupportedPolicy(t *testing.T) {
	t.Parallel()

	_, err := Reconcile(model.Policy("superset-of"), op("a"), op("b"))
	assert.ErrorIs(t, err, ErrUnsupportedPolicy)
}
