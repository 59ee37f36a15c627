// Package domain defines the core business entities for alignpro.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document and Node: curriculum documents and their standard trees
//   - ModelArtifact: a trained relevance matrix aligned to node ids
//   - PairRequest and SampledPair: annotator pair scheduling
//   - RecommendRequest and RecommendResult: ranked related nodes
//   - Judgment: a human relevance rating for a node pair
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
