// Package ui implements a read-only ledger browser using bubbletea's Elm architecture.
//
// The browser has three views:
//  1. [PartitionListView] : pick a ledger partition (a year or the sandbox)
//  2. [EntryListView] : filterable list of the partition's entries
//  3. [DetailView] : every column of the selected entry
//
// When the browser is opened on a single partition the first view is skipped.
// Data is loaded through a [Source], which both the Sheets and SQLite ledger backends satisfy.
package ui
