// Package match decides which remote lyrics entry, if any, belongs to a
// local track.
//
// [Engine.FindBestMatch] runs an ordered list of search stages against a
// [Source] (the remote client): an exact signature lookup, a duration-window
// search, and a fuzzy free-text search validated by token-set similarity.
// The first stage to produce an acceptable candidate wins. A [Policy]
// controls which lyrics kinds are acceptable, how far durations may drift,
// and whether the fuzzy stage runs at all.
//
// The engine never touches the network when the track already holds what the
// policy would produce; it reports [AlreadyUpToDate] instead.
package match
