package domain

import "errors"

// ExtractionKind identifies which AI extraction adapter produced a result.
type ExtractionKind string

// Available extraction kinds.
const (
	// ExtractionExpression mines marketing expressions grouped by mid-level category.
	ExtractionExpression ExtractionKind = "expression"

	// ExtractionParameter recognises named entities grouped under a representative keyword.
	ExtractionParameter ExtractionKind = "parameter"
)

// String returns the string representation.
func (k ExtractionKind) String() string {
	return string(k)
}

// ExtractionResult is the outcome of one per-document extraction call.
// A failed extraction carries its reason and no map, so it can never be
// mistaken for an empty but valid result.
type ExtractionResult struct {
	m   *CategoryMap
	err error
}

// Success wraps a parsed category map.
func Success(m *CategoryMap) ExtractionResult {
	if m == nil {
		m = NewCategoryMap()
	}
	return ExtractionResult{m: m}
}

// Failure wraps the reason an extraction did not produce a map.
func Failure(reason error) ExtractionResult {
	if reason == nil {
		reason = errors.New("extraction failed")
	}
	return ExtractionResult{err: reason}
}

// OK reports whether the extraction succeeded.
func (r ExtractionResult) OK() bool {
	return r.err == nil && r.m != nil
}

// Map returns the extracted map, or nil on failure.
func (r ExtractionResult) Map() *CategoryMap {
	if r.err != nil {
		return nil
	}
	return r.m
}

// Err returns the failure reason, or nil on success.
func (r ExtractionResult) Err() error {
	if r.err == nil && r.m == nil {
		return errors.New("extraction result not set")
	}
	return r.err
}
