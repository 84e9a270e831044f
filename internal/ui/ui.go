package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/classificone/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PartitionListView ViewState = iota
	EntryListView
	DetailView
)

// Source reads ledger partitions.
type Source interface {
	Partitions(ctx context.Context) ([]string, error)
	ReadPartition(ctx context.Context, partition string) ([]models.LedgerRow, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	source        Source
	fixed         string
	view          ViewState
	width         int
	height        int
	partitionList list.Model
	entryList     list.Model
	loaded        [2]bool
	partition     string
	rows          []models.LedgerRow
	selected      *models.LedgerRow
	err           error
	help          help.Model
	keys          keyMap
}

// NewModel creates a browser over source. A non-empty partition opens that partition directly.
func NewModel(ctx context.Context, source Source, partition string) *Model {
	view := PartitionListView
	if partition != "" {
		view = EntryListView
	}
	return &Model{
		ctx:    ctx,
		source: source,
		fixed:  partition,
		view:   view,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// State returns the active view.
func (m *Model) State() ViewState { return m.view }

// Err returns the last load error, if any.
func (m *Model) Err() error { return m.err }

// Init loads the partition list, or the fixed partition's rows.
func (m *Model) Init() tea.Cmd {
	if m.fixed != "" {
		return m.fetchRows(m.fixed)
	}
	return m.fetchPartitions()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.loaded[PartitionListView] {
			m.partitionList.SetSize(m.listSize())
		}
		if m.loaded[EntryListView] {
			m.entryList.SetSize(m.listSize())
		}
		return m, nil

	case tea.KeyMsg:
		if m.err != nil {
			return m.handleErrorKeys(msg)
		}
		switch m.view {
		case PartitionListView:
			return m.handlePartitionKeys(msg)
		case EntryListView:
			return m.handleEntryKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgPartitionsFetched:
			return m.onPartitions(msg.data.(partitionsResult))
		case MsgRowsFetched:
			return m.onRows(msg.data.(rowsResult))
		}
		return m, nil
	}

	return m.updateLists(msg)
}

func (m *Model) onPartitions(res partitionsResult) (tea.Model, tea.Cmd) {
	if res.err != nil {
		m.err = res.err
		return m, nil
	}
	items := make([]list.Item, len(res.partitions))
	for i, p := range res.partitions {
		items[i] = partitionItem{name: p}
	}
	m.partitionList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.partitionList.Title = "Ledger partitions"
	m.partitionList.SetSize(m.listSize())
	m.loaded[PartitionListView] = true
	return m, nil
}

func (m *Model) onRows(res rowsResult) (tea.Model, tea.Cmd) {
	if res.err != nil {
		m.err = res.err
		return m, nil
	}
	m.partition = res.partition
	m.rows = res.rows
	items := make([]list.Item, len(res.rows))
	for i, row := range res.rows {
		items[i] = entryItem{row: row}
	}
	m.entryList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.entryList.Title = fmt.Sprintf("%s (%d entries)", res.partition, len(res.rows))
	m.entryList.SetSize(m.listSize())
	m.loaded[EntryListView] = true
	m.view = EntryListView
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err)) + "\n\n" +
			m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	}

	switch m.view {
	case PartitionListView:
		if !m.loaded[PartitionListView] {
			return styles.help.Render("Loading partitions...")
		}
		return fmt.Sprintf("%s\n\n%s", m.partitionList.View(), m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit}))
	case EntryListView:
		return m.renderEntries()
	case DetailView:
		return m.renderDetail()
	default:
		return ""
	}
}

func (m *Model) handleErrorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.err = nil
	}
	return m, nil
}

func (m *Model) handlePartitionKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.partitionList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		return m, m.fetchPartitions()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.partitionList.SelectedItem().(partitionItem); ok {
			return m, m.fetchRows(item.name)
		}
		return m, nil
	}
	return m.updateLists(msg)
}

func (m *Model) handleEntryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.entryList.FilterState() == list.Filtering {
		return m.updateLists(msg)
	}
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.reload):
		return m, m.fetchRows(m.partition)
	case key.Matches(msg, m.keys.back):
		if m.fixed == "" && m.entryList.FilterState() == list.Unfiltered {
			m.view = PartitionListView
			return m, nil
		}
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.entryList.SelectedItem().(entryItem); ok {
			row := item.row
			m.selected = &row
			m.view = DetailView
		}
		return m, nil
	}
	return m.updateLists(msg)
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.selected = nil
		m.view = EntryListView
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if int(m.view) >= len(m.loaded) || !m.loaded[m.view] {
		return m, nil
	}
	switch m.view {
	case PartitionListView:
		m.partitionList, cmd = m.partitionList.Update(msg)
	case EntryListView:
		m.entryList, cmd = m.entryList.Update(msg)
	}
	return m, cmd
}

func (m *Model) listSize() (int, int) {
	return max(m.width-4, 0), max(m.height-8, 0)
}

func (m *Model) fetchPartitions() tea.Cmd {
	return func() tea.Msg {
		partitions, err := m.source.Partitions(m.ctx)
		return partitionsFetchedMsg(partitions, err)
	}
}

func (m *Model) fetchRows(partition string) tea.Cmd {
	return func() tea.Msg {
		rows, err := m.source.ReadPartition(m.ctx, partition)
		return rowsFetchedMsg(partition, rows, err)
	}
}

func (m *Model) renderEntries() string {
	keys := []key.Binding{m.keys.enter, m.keys.reload, m.keys.quit}
	if m.fixed == "" {
		keys = []key.Binding{m.keys.enter, m.keys.back, m.keys.reload, m.keys.quit}
	}
	if !m.loaded[EntryListView] {
		return styles.help.Render("Loading ledger...")
	}
	if len(m.rows) == 0 {
		empty := styles.warn.Render(fmt.Sprintf("No entries in %s yet.", m.partition))
		return fmt.Sprintf("%s\n\n%s", empty, m.help.ShortHelpView(keys))
	}
	return fmt.Sprintf("%s\n\n%s", m.entryList.View(), m.help.ShortHelpView(keys))
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%s - %s", m.selected.Artista, m.selected.Titolo)))
	b.WriteString("\n")
	for i, value := range m.selected.Values() {
		if value == "" {
			value = styles.help.Render("(blank)")
		}
		fmt.Fprintf(&b, "%s %s\n", styles.label.Render(fmt.Sprintf("%-9s", models.LedgerColumns[i]+":")), value)
	}
	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
	return b.String()
}
