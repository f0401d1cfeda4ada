// Package search builds a queryable index over an ordered song sequence.
//
// # Projection
//
// [Project] turns the sorted songs into [models.IndexDocument] values; document i
// references sorted[i], so search hits, playlist rows and playback songs share one
// ordinal numbering.
//
// # Engines
//
// The [Engine] interface is the only contact point with the full-text machinery:
//   - [TrigramEngine] : in-memory trigram coverage, diacritic-insensitive
//   - [FuzzyEngine] : subsequence matching via sahilm/fuzzy
//   - [SQLiteEngine] : SQLite FTS4 with a matchinfo-based rank
//
// [NewEngine] and [NewFactory] select one by its config name.
package search
