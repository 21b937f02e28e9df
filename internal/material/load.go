// Package material loads study material from local files. Plain text passes
// through; tabular formats are flattened to one line per row so the
// downstream chunker and prompts only ever see text.
package material

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// LoadFile reads path and returns its content as text. Format is chosen by
// extension: .xlsx and .csv are flattened, everything else is read verbatim.
func LoadFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	case ".csv":
		return loadCSV(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", eris.Wrapf(err, "material: read %s", path)
		}
		return string(data), nil
	}
}

// loadXLSX flattens every sheet: one line per row, cells joined by tabs,
// sheets separated by blank lines so chunking keeps them apart.
func loadXLSX(path string) (string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return "", eris.Wrap(err, "material: open xlsx")
	}

	var b strings.Builder
	for _, sheet := range f.Sheets {
		for _, row := range sheet.Rows {
			cells := make([]string, len(row.Cells))
			for j, cell := range row.Cells {
				cells[j] = cell.String()
			}
			line := strings.TrimSpace(strings.Join(cells, "\t"))
			if line == "" {
				continue
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}

func loadCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrap(err, "material: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return "", eris.Wrap(err, "material: parse csv")
	}

	var b strings.Builder
	for _, record := range records {
		line := strings.TrimSpace(strings.Join(record, "\t"))
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String()), nil
}
