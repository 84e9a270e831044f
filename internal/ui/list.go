package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/classificone/internal/models"
)

var (
	_ list.Item = partitionItem{}
	_ list.Item = entryItem{}
)

// partitionItem wraps a ledger partition name to implement [list.Item].
type partitionItem struct {
	name string
}

func (i partitionItem) FilterValue() string { return i.name }
func (i partitionItem) Title() string       { return i.name }
func (i partitionItem) Description() string { return "ledger partition" }

// entryItem wraps [models.LedgerRow] to implement [list.Item].
type entryItem struct {
	row models.LedgerRow
}

func (i entryItem) FilterValue() string { return i.row.Artista + " " + i.row.Titolo }
func (i entryItem) Title() string       { return fmt.Sprintf("%s - %s", i.row.Artista, i.row.Titolo) }
func (i entryItem) Description() string {
	parts := make([]string, 0, 3)
	for _, v := range []string{i.row.Supporto, i.row.Genere, i.row.CAT} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " • ")
}
