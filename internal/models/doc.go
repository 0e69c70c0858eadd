// Package models defines the domain entities shared across the lrcget pipeline.
//
// The package contains plain value types passed between the library store, the
// match engine and the download orchestrator:
//   - [Track] : local track metadata snapshot handed to the core per run
//   - [LyricsState] : which kind of lyrics a track currently holds
//   - [Lyrics] : the lyrics payload produced by matching and persisted by the store
//
// Types here carry no behavior beyond derivation helpers; persistence lives in
// internal/library and network DTOs live in internal/lrclib.
package models
