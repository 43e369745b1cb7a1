// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a two-view browser over the local sync history:
//  1. [HistoryListView] : Browse recent publish runs, newest first
//  2. [DetailView] : Inspect one run's outcome, message, and watch URL
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// History rows load through the [HistoryStore] interface, and the detail view
// can launch the video's watch page in the default browser.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, o, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
