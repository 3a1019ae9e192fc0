package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CategoryMap maps a category key to an ordered, duplicate-free list of values.
//
// Categories and values keep first-seen order. Merging is additive: a
// category is never overwritten, only extended with values it does not
// already hold. Membership is checked through a per-category set so that
// insertion stays cheap as categories grow.
//
// The zero value is an empty map ready to use.
type CategoryMap struct {
	order  []string
	values map[string][]string
	index  map[string]map[string]struct{}
}

// NewCategoryMap creates an empty category map.
func NewCategoryMap() *CategoryMap {
	return &CategoryMap{}
}

// CategoryMapFrom builds a category map from a plain map.
// Go maps are unordered, so categories are taken in the order given by keys;
// pass nil to fall back to the map's iteration order.
func CategoryMapFrom(m map[string][]string, keys []string) *CategoryMap {
	cm := NewCategoryMap()
	if keys == nil {
		for k := range m {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		for _, v := range m[k] {
			cm.Add(k, v)
		}
	}
	return cm
}

func (m *CategoryMap) init() {
	if m.values == nil {
		m.values = make(map[string][]string)
		m.index = make(map[string]map[string]struct{})
	}
}

// Add inserts the category if absent, then appends value to it unless the
// category already holds an identical string. Empty keys or values are ignored.
// Returns true if the value was appended.
func (m *CategoryMap) Add(category, value string) bool {
	if category == "" || value == "" {
		return false
	}
	m.init()

	seen, ok := m.index[category]
	if !ok {
		seen = make(map[string]struct{})
		m.index[category] = seen
		m.order = append(m.order, category)
	}
	if _, dup := seen[value]; dup {
		return false
	}
	seen[value] = struct{}{}
	m.values[category] = append(m.values[category], value)
	return true
}

// Merge folds other into m, pair by pair, in other's order.
func (m *CategoryMap) Merge(other *CategoryMap) {
	if other == nil {
		return
	}
	for _, category := range other.order {
		for _, value := range other.values[category] {
			m.Add(category, value)
		}
	}
}

// Categories returns category keys in first-seen order.
func (m *CategoryMap) Categories() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Values returns a copy of the values held under category.
func (m *CategoryMap) Values(category string) []string {
	if m == nil {
		return nil
	}
	vals := m.values[category]
	out := make([]string, len(vals))
	copy(out, vals)
	return out
}

// Has reports whether category holds value.
func (m *CategoryMap) Has(category, value string) bool {
	if m == nil {
		return false
	}
	_, ok := m.index[category][value]
	return ok
}

// Contains reports whether value is held under any category.
func (m *CategoryMap) Contains(value string) bool {
	if m == nil {
		return false
	}
	for _, seen := range m.index {
		if _, ok := seen[value]; ok {
			return true
		}
	}
	return false
}

// Len returns the number of categories.
func (m *CategoryMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Size returns the total number of values across all categories.
func (m *CategoryMap) Size() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, vals := range m.values {
		n += len(vals)
	}
	return n
}

// IsEmpty reports whether the map holds no categories.
func (m *CategoryMap) IsEmpty() bool {
	return m == nil || len(m.order) == 0
}

// ToMap returns the contents as a plain map. Order is lost.
func (m *CategoryMap) ToMap() map[string][]string {
	if m == nil {
		return map[string][]string{}
	}
	out := make(map[string][]string, len(m.order))
	for _, category := range m.order {
		out[category] = m.Values(category)
	}
	return out
}

// MarshalJSON encodes the map as a JSON object, keeping category order.
func (m *CategoryMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if m != nil {
		for i, category := range m.order {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(category)
			if err != nil {
				return nil, err
			}
			vals, err := json.Marshal(m.values[category])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(vals)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of category keys to value lists.
//
// Decoding is lenient: a bare string value is treated as a one-element list
// and non-string list entries are dropped. Anything other than a top-level
// object is an error. Duplicate values collapse on insertion.
func (m *CategoryMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("category map: expected JSON object, got %v", tok)
	}

	*m = CategoryMap{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		category, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		for _, value := range lenientStrings(raw) {
			m.Add(category, value)
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// lenientStrings extracts strings from a JSON string or array value.
func lenientStrings(raw json.RawMessage) []string {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}
	}

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
