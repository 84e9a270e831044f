package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/classificone/internal/models"
)

// MsgKind enumerates all message types in the browser.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPartitionsFetched MsgKind = iota
	MsgRowsFetched
)

type partitionsResult struct {
	partitions []string
	err        error
}

type rowsResult struct {
	partition string
	rows      []models.LedgerRow
	err       error
}

// partitionsFetchedMsg is the constructor for [MsgPartitionsFetched]
func partitionsFetchedMsg(partitions []string, err error) Msg {
	return Msg{kind: MsgPartitionsFetched, data: partitionsResult{partitions, err}}
}

// rowsFetchedMsg is the constructor for [MsgRowsFetched]
func rowsFetchedMsg(partition string, rows []models.LedgerRow, err error) Msg {
	return Msg{kind: MsgRowsFetched, data: rowsResult{partition, rows, err}}
}
