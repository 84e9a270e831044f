package formatter

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/desertthunder/classificone/internal/models"
)

const timeLayout = "2006-01-02 15:04"

// renderTable draws rows under headers with rounded borders. Columns listed in right are right-aligned.
func renderTable(headers []string, rows [][]string, right ...int) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		for _, n := range right {
			if n == i {
				align = text.AlignRight
			}
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// LedgerTable renders a partition with a position column.
func LedgerTable(rows []models.LedgerRow) string {
	headers := append([]string{"#"}, models.LedgerColumns...)
	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = append([]string{strconv.Itoa(i + 1)}, row.Values()...)
	}
	return renderTable(headers, data, 0)
}

// QueueTable renders queued tracks in queue order.
func QueueTable(tracks []models.TrackCandidate) string {
	data := make([][]string, len(tracks))
	for i, t := range tracks {
		data[i] = []string{strconv.Itoa(i + 1), t.Name, strconv.Itoa(t.Popularity), t.URI}
	}
	return renderTable([]string{"#", "Track", "Popularity", "URI"}, data, 0, 2)
}

// HistoryTable renders submissions as listed.
func HistoryTable(submissions []*models.Submission) string {
	data := make([][]string, len(submissions))
	for i, s := range submissions {
		data[i] = []string{
			strconv.Itoa(s.Sequence()),
			s.CreatedAt().Local().Format(timeLayout),
			s.SenderID,
			s.URI,
			dash(s.QueueOutcome),
			dash(s.LedgerOutcome),
			s.Comment,
		}
	}
	return renderTable([]string{"#", "When", "Sender", "URI", "Queue", "Ledger", "Comment"}, data, 0)
}

// ProgressLine renders one pipeline step as "[step/total] message".
func ProgressLine(step, total int, message string) string {
	return fmt.Sprintf("[%d/%d] %s", step, total, message)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
