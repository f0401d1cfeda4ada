// Package ui implements an interactive terminal browser using bubbletea's Elm architecture.
//
// The browser loads one player session and shows its songs in ordinal order:
//  1. [LoadingView] : session is being fetched and indexed
//  2. [LibraryView] : every song, numbered by ordinal
//  3. [SearchView] : query prompt over the library
//  4. [ResultView] : search hits, best first, keeping their ordinals
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Searches run as commands against the session's index, so the list never blocks while a query is evaluated.
//
// Keyboard navigation uses vim-style bindings (j/k, /, enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
