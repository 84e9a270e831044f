// package formatter renders ledger partitions, queue contents and submission history as CSV, Markdown, text and tables
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/classificone/internal/models"
)

// Format names accepted by [WriteLedgerExport].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "md"
	FormatText     = "txt"
)

// LedgerToCSV converts ledger rows to CSV with the [models.LedgerColumns] header
func LedgerToCSV(rows []models.LedgerRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(models.LedgerColumns); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(row.Values()); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// LedgerToMarkdown converts a partition to a Markdown document with a single table
func LedgerToMarkdown(partition string, rows []models.LedgerRow) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", partition)
	fmt.Fprintf(&buf, "**Entries**: %d\n\n", len(rows))

	buf.WriteString("| " + strings.Join(models.LedgerColumns, " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(models.LedgerColumns)) + "\n")

	for _, row := range rows {
		cells := row.Values()
		for i, c := range cells {
			cells[i] = markdownCell(c)
		}
		buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	return buf.Bytes()
}

// LedgerToText converts a partition to a numbered plain text list
func LedgerToText(partition string, rows []models.LedgerRow) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Ledger: %s\n", partition)
	fmt.Fprintf(&buf, "Entries: %d\n\n", len(rows))

	for i, row := range rows {
		fmt.Fprintf(&buf, "%d. %s - %s", i+1, row.Artista, row.Titolo)
		if row.Supporto != "" {
			fmt.Fprintf(&buf, " [%s]", row.Supporto)
		}
		if row.Commento != "" {
			fmt.Fprintf(&buf, ": %s", row.Commento)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// WriteLedgerExport writes a partition to path in format.
//
// Defaults to ledger_{partition}.{format} as the filename.
func WriteLedgerExport(partition string, rows []models.LedgerRow, format, path string) (string, error) {
	if format == "" {
		format = FormatCSV
	}
	if path == "" {
		path = fmt.Sprintf("ledger_%s.%s", partition, format)
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = LedgerToCSV(rows)
	case FormatMarkdown:
		data = LedgerToMarkdown(partition, rows)
	case FormatText:
		data = LedgerToText(partition, rows)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
