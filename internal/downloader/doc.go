// Package downloader runs bulk lyrics downloads over a local track list with
// real-time progress reporting.
//
// # Lifecycle
//
// A [Downloader] owns one job at a time and moves through four states:
//
//  1. [Idle] : no job yet, or the previous job was discarded
//  2. [Running] : a bounded worker pool is matching and persisting tracks
//  3. [Finished] : every track of the job reached a terminal outcome
//  4. [Stopped] : the run was halted before every track completed
//
// [Downloader.Start] begins a job, [Downloader.Stop] halts dispatch while
// in-flight tracks drain, [Downloader.RetryFailed] re-runs only the failed
// tracks of a finished job, and [Downloader.StartOver] discards a finished
// or stopped job.
//
// # Outcome Classification
//
// Every processed track lands in exactly one of four buckets, recorded as a
// [LogEntry] and tallied in [Counters]:
//
//   - [StatusSuccess] : lyrics were matched and persisted
//   - [StatusSkipped] : excluded by scope, or already what the policy wants
//   - [StatusNotFound] : no remote candidate was acceptable
//   - [StatusFailure] : a network, server or persistence error interfered
//
// The sum of the four counters always equals the processed count, and equals
// the job total exactly when the state is [Finished].
//
// # Progress Reporting
//
// Subscribers receive [Event] snapshots via [Downloader.Subscribe] on every
// state change and track completion. Delivery uses select with default, so a
// lagging subscriber misses events instead of stalling workers.
// [Downloader.Done] reports run completion reliably.
//
// # Collaborators
//
// [Downloader] depends on:
//   - [Matcher] : staged remote search (match.Engine)
//   - [LyricsWriter] : persistence layer (library.Store)
package downloader
