// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI drives one bulk lyrics download end to end:
//  1. Init starts the run over the provided track list
//  2. Progress events stream into the model through a [downloader.Downloader] subscription
//  3. A summary view offers retry, start over, and quit once the run settles
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress flows through the downloader's event channel, re-armed one read at a
// time by waitForEvent, providing non-blocking status reporting during runs.
//
// Keyboard control uses single-letter bindings (s to stop, r to retry failed
// tracks, o to start over, q to quit) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
