package models

// LedgerColumns is the fixed header of every ledger partition.
var LedgerColumns = []string{"Artista", "Titolo", "CAT", "Supporto", "Genere", "Commento"}

// LedgerRow is one ledger entry.
type LedgerRow struct {
	Artista  string
	Titolo   string
	CAT      string
	Supporto string
	Genere   string
	Commento string
}

// NewLedgerRow builds the row recorded for meta, leaving CAT and Genere blank for manual curation.
func NewLedgerRow(meta AlbumMetadata, comment string) LedgerRow {
	return LedgerRow{
		Artista:  meta.Artist,
		Titolo:   meta.Title,
		Supporto: meta.Type,
		Commento: comment,
	}
}

// Matches reports whether the row has exactly this artist and title. Comparison is case-sensitive.
func (r LedgerRow) Matches(artist, title string) bool {
	return r.Artista == artist && r.Titolo == title
}

// Values returns the row in [LedgerColumns] order.
func (r LedgerRow) Values() []string {
	return []string{r.Artista, r.Titolo, r.CAT, r.Supporto, r.Genere, r.Commento}
}

// LedgerRowFromRecord maps a record onto a row using header to locate each column.
// Columns missing from header are left blank.
func LedgerRowFromRecord(header, record []string) LedgerRow {
	get := func(name string) string {
		for i, h := range header {
			if h == name && i < len(record) {
				return record[i]
			}
		}
		return ""
	}

	return LedgerRow{
		Artista:  get("Artista"),
		Titolo:   get("Titolo"),
		CAT:      get("CAT"),
		Supporto: get("Supporto"),
		Genere:   get("Genere"),
		Commento: get("Commento"),
	}
}

// ContainsEntry reports whether rows already hold artist and title.
func ContainsEntry(rows []LedgerRow, artist, title string) bool {
	for _, r := range rows {
		if r.Matches(artist, title) {
			return true
		}
	}
	return false
}
