// Package domain defines the core business entities for Quill.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A source text loaded from a corpus directory
//   - CategoryMap: Category key to an ordered, duplicate-free list of values
//   - AnalysisDataset: Unique words, sentences, expressions and parameters
//   - Manuscript: A generated blog post
//   - RoutingCategory: The dataset partition a request operates against
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
