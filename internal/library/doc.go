// Package library owns the local track catalog backed by SQLite.
//
// # Catalog
//
// [Store] persists track descriptors in a tracks table and exposes the
// [Library] interface the download pipeline consumes. Tracks enter the
// catalog through [Store.ImportManifest], which reads a flat JSON array of
// descriptors and deduplicates them on a normalized title/artist key.
//
// # Lyrics Persistence
//
// [Store.SaveLyrics] writes the matched payload to the database and, for
// tracks with an audio file path, mirrors the bodies into sidecar files
// alongside the audio: plain text in a .txt file, synced text in a .lrc
// file. Instrumental tracks store the sentinel marker as their synced body.
// An empty side removes its sidecar, so stale files never outlive a save.
package library
