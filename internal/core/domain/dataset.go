package domain

import "sort"

// WordSet is a set of distinct tokens across a corpus.
type WordSet map[string]struct{}

// NewWordSet creates a word set holding words.
func NewWordSet(words ...string) WordSet {
	s := make(WordSet, len(words))
	s.Add(words...)
	return s
}

// Add inserts words into the set. Empty strings are ignored.
func (s WordSet) Add(words ...string) {
	for _, w := range words {
		if w != "" {
			s[w] = struct{}{}
		}
	}
}

// Has reports whether word is in the set.
func (s WordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Len returns the number of distinct words.
func (s WordSet) Len() int {
	return len(s)
}

// Slice returns the words sorted, so output is stable across runs.
func (s WordSet) Slice() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// Dataset field names, as reported by MissingFields.
const (
	FieldUniqueWords = "unique_words"
	FieldSentences   = "sentences"
	FieldExpressions = "expressions"
	FieldParameters  = "parameters"
)

// AnalysisDataset is the four-part bundle required before manuscript generation.
// It is the unit of persistence and retrieval for a routing category.
type AnalysisDataset struct {
	// UniqueWords holds distinct tokens across the corpus.
	UniqueWords WordSet

	// Sentences are in corpus order; duplicates are kept.
	Sentences []string

	// Expressions maps a mid-level category to marketing expressions.
	Expressions *CategoryMap

	// Parameters maps a representative keyword to concrete entities.
	Parameters *CategoryMap
}

// NewAnalysisDataset creates an empty dataset.
func NewAnalysisDataset() *AnalysisDataset {
	return &AnalysisDataset{
		UniqueWords: NewWordSet(),
		Expressions: NewCategoryMap(),
		Parameters:  NewCategoryMap(),
	}
}

// IsComplete reports whether all four fields are non-empty.
func (d *AnalysisDataset) IsComplete() bool {
	return d != nil && len(d.MissingFields()) == 0
}

// MissingFields names the empty fields, in declaration order.
func (d *AnalysisDataset) MissingFields() []string {
	if d == nil {
		return []string{FieldUniqueWords, FieldSentences, FieldExpressions, FieldParameters}
	}
	var missing []string
	if d.UniqueWords.Len() == 0 {
		missing = append(missing, FieldUniqueWords)
	}
	if len(d.Sentences) == 0 {
		missing = append(missing, FieldSentences)
	}
	if d.Expressions.IsEmpty() {
		missing = append(missing, FieldExpressions)
	}
	if d.Parameters.IsEmpty() {
		missing = append(missing, FieldParameters)
	}
	return missing
}
