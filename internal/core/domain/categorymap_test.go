package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryMap_ZeroValue(t *testing.T) {
	var m CategoryMap
	assert.True(t, m.IsEmpty())
	assert.True(t, m.Add("product", "X"))
	assert.Equal(t, []string{"X"}, m.Values("product"))
}

func TestCategoryMap_Add(t *testing.T) {
	m := NewCategoryMap()

	assert.True(t, m.Add("product", "X"))
	assert.False(t, m.Add("product", "X"), "duplicate value must not be appended")
	assert.True(t, m.Add("product", "Y"))
	assert.True(t, m.Add("brand", "X"), "same value in another category is allowed")
	assert.False(t, m.Add("", "Z"))
	assert.False(t, m.Add("brand", ""))

	assert.Equal(t, []string{"product", "brand"}, m.Categories())
	assert.Equal(t, []string{"X", "Y"}, m.Values("product"))
	assert.Equal(t, []string{"X"}, m.Values("brand"))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 3, m.Size())
}

func TestCategoryMap_Merge_EndToEnd(t *testing.T) {
	first := CategoryMapFrom(map[string][]string{"product": {"X"}}, nil)
	second := CategoryMapFrom(map[string][]string{"product": {"X", "Y"}}, nil)

	merged := NewCategoryMap()
	merged.Merge(first)
	merged.Merge(second)

	assert.Equal(t, map[string][]string{"product": {"X", "Y"}}, merged.ToMap())
}

func TestCategoryMap_Merge_NeverOverwrites(t *testing.T) {
	m := CategoryMapFrom(map[string][]string{"a": {"1", "2"}}, nil)
	m.Merge(CategoryMapFrom(map[string][]string{"a": {"3"}, "b": {"4"}}, []string{"a", "b"}))

	assert.Equal(t, []string{"1", "2", "3"}, m.Values("a"))
	assert.Equal(t, []string{"4"}, m.Values("b"))
	m.Merge(nil)
	assert.Equal(t, 2, m.Len())
}

func TestCategoryMap_Merge_MembershipIsOrderIndependent(t *testing.T) {
	d1 := CategoryMapFrom(map[string][]string{"p": {"A", "B"}, "q": {"1"}}, []string{"p", "q"})
	d2 := CategoryMapFrom(map[string][]string{"p": {"C", "A"}, "r": {"z"}}, []string{"p", "r"})

	ab := NewCategoryMap()
	ab.Merge(d1)
	ab.Merge(d2)

	ba := NewCategoryMap()
	ba.Merge(d2)
	ba.Merge(d1)

	assert.Equal(t, sortedSets(ab), sortedSets(ba))
	// Only first-seen order differs.
	assert.Equal(t, []string{"A", "B", "C"}, ab.Values("p"))
	assert.Equal(t, []string{"C", "A", "B"}, ba.Values("p"))
}

func TestCategoryMap_NoDuplicatesUnderRepetition(t *testing.T) {
	m := NewCategoryMap()
	for i := 0; i < 200; i++ {
		doc := NewCategoryMap()
		doc.Add("same", "value")
		doc.Add("same", fmt.Sprintf("v%d", i%7))
		doc.Add(fmt.Sprintf("cat%d", i%3), "value")
		m.Merge(doc)
	}

	for _, category := range m.Categories() {
		vals := m.Values(category)
		seen := make(map[string]bool)
		for _, v := range vals {
			require.False(t, seen[v], "duplicate %q in %q", v, category)
			seen[v] = true
		}
	}
	assert.Len(t, m.Values("same"), 8)
}

func TestCategoryMap_Contains(t *testing.T) {
	m := CategoryMapFrom(map[string][]string{"shop": {"Ttamttam"}}, nil)
	assert.True(t, m.Contains("Ttamttam"))
	assert.True(t, m.Has("shop", "Ttamttam"))
	assert.False(t, m.Has("brand", "Ttamttam"))
	assert.False(t, m.Contains("other"))

	var nilMap *CategoryMap
	assert.False(t, nilMap.Contains("x"))
	assert.True(t, nilMap.IsEmpty())
	assert.Equal(t, 0, nilMap.Len())
}

func TestCategoryMap_ValuesIsCopy(t *testing.T) {
	m := CategoryMapFrom(map[string][]string{"a": {"1"}}, nil)
	vals := m.Values("a")
	vals[0] = "changed"
	assert.Equal(t, []string{"1"}, m.Values("a"))
}

func TestCategoryMap_JSONKeepsOrder(t *testing.T) {
	m := NewCategoryMap()
	m.Add("zeta", "1")
	m.Add("alpha", "2")
	m.Add("zeta", "3")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":["1","3"],"alpha":["2"]}`, string(data))

	var back CategoryMap
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"zeta", "alpha"}, back.Categories())
	assert.Equal(t, []string{"1", "3"}, back.Values("zeta"))
}

func TestCategoryMap_UnmarshalLenient(t *testing.T) {
	var m CategoryMap
	err := json.Unmarshal([]byte(`{"a": "single", "b": ["x", 3, null, "y", "x"], "c": {"nested": true}}`), &m)
	require.NoError(t, err)

	assert.Equal(t, []string{"single"}, m.Values("a"))
	assert.Equal(t, []string{"x", "y"}, m.Values("b"))
	assert.Equal(t, []string{"a", "b"}, m.Categories(), "categories without string values are not created")
}

func TestCategoryMap_UnmarshalRejectsNonObject(t *testing.T) {
	var m CategoryMap
	assert.Error(t, json.Unmarshal([]byte(`["a", "b"]`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"a": [`), &m))
}

func sortedSets(m *CategoryMap) map[string][]string {
	out := m.ToMap()
	for k := range out {
		sort.Strings(out[k])
	}
	return out
}
