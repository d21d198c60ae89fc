// Package model defines the core data structures shared across sitegrab.
//
// This package contains the following main types:
//   - ExtractionRecord: The per-page outcome of an extraction
//   - SessionReport: The aggregated result of one extraction session
//   - AssetCounts: Tallies of localized page assets
//
// The model package has no dependencies on other internal packages so it
// can be imported by every layer without cycles.
package model
