package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSetDropsEmptyAndDuplicates(t *testing.T) {
	t.Parallel()

	s := NewSet("B", "A", "", "B", "C")
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"A", "B", "C"}, s.Sorted())
	assert.False(t, s.Has(""))
}

func TestZeroSet(t *testing.T) {
	t.Parallel()

	var s Set
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Has("A"))
	assert.Empty(t, s.Sorted())
	assert.True(t, s.Equal(NewSet()))
}

func TestSetArithmetic(t *testing.T) {
	t.Parallel()

	a := NewSet("A", "B", "C")
	b := NewSet("B", "C", "D")

	assert.Equal(t, []string{"A"}, a.Difference(b).Sorted())
	assert.Equal(t, []string{"D"}, b.Difference(a).Sorted())
	assert.Equal(t, []string{"B", "C"}, a.Intersect(b).Sorted())
	assert.Equal(t, []string{"A", "B", "C", "D"}, a.Union(b).Sorted())

	// Inputs are untouched.
	assert.Equal(t, []string{"A", "B", "C"}, a.Sorted())
	assert.Equal(t, []string{"B", "C", "D"}, b.Sorted())
}

func TestUsagesSymbols(t *testing.T) {
	t.Parallel()

	u := Usages{
		"FOO": {{Symbol: "FOO", File: "a.py", Line: 1}},
		"BAR": nil,
	}
	assert.Equal(t, []string{"FOO"}, u.Symbols().Sorted())
}

func TestSortOccurrences(t *testing.T) {
	t.Parallel()

	occs := []Occurrence{
		{File: "b.py", Line: 2, Text: "first"},
		{File: "a.py", Line: 9},
		{File: "b.py", Line: 1},
		{File: "b.py", Line: 2, Text: "second"},
	}
	SortOccurrences(occs)

	assert.Equal(t, "a.py", occs[0].File)
	assert.Equal(t, 1, occs[1].Line)
	assert.Equal(t, "first", occs[2].Text)
	assert.Equal(t, "second", occs[3].Text)
}

func TestVerdictFailed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		groups []ViolationGroup
		want   Status
	}{
		{"no groups", nil, Pass},
		{"empty error group", []ViolationGroup{{Severity: Error}}, Pass},
		{"warning only", []ViolationGroup{{Severity: Warning, Symbols: []string{"PORT"}}}, Pass},
		{"error group", []ViolationGroup{{Severity: Error, Symbols: []string{"BAZ"}}}, Fail},
		{"mixed", []ViolationGroup{
			{Severity: Warning, Symbols: []string{"PORT"}},
			{Severity: Error, Symbols: []string{"BAZ"}},
		}, Fail},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := Verdict{Groups: tt.groups}
			assert.Equal(t, tt.want, v.Status())
			assert.Equal(t, tt.want == Fail, v.Failed())
		})
	}
}

func TestViolationGroupEmpty(t *testing.T) {
	t.Parallel()

	group := func(symbols ...string) ViolationGroup {
		return ViolationGroup{Severity: Error, Symbols: symbols}
	}

	// Callable on a returned value, not only on an addressable one.
	assert.True(t, group().Empty())
	assert.False(t, group("BAZ").Empty())
}
