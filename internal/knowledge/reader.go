package knowledge

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// Load reads the sheet at path. The reader is chosen from the extension:
// .xlsx/.xlsm use the first worksheet, .csv is read as comma separated text.
func Load(path string) (*Base, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataSourceNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat data file %s: %w", path, err)
	}

	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = readXLSX(path)
	case ".csv":
		rows, err = readCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}

	entries, err := parseRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return NewBase(path, entries), nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv %s: %w", path, err)
	}
	return rows, nil
}

// parseRows turns a header row plus data rows into entries. Fully blank rows
// are skipped; half-filled rows are rejected.
func parseRows(rows [][]string) ([]Entry, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, QuestionColumn)
	}

	qIdx, aIdx := -1, -1
	for i, name := range rows[0] {
		// "CSV UTF-8" exports from Excel start with a byte order mark.
		name = strings.TrimSpace(strings.TrimPrefix(name, utf8BOM))
		switch {
		case qIdx < 0 && strings.EqualFold(name, QuestionColumn):
			qIdx = i
		case aIdx < 0 && strings.EqualFold(name, AnswerColumn):
			aIdx = i
		}
	}
	if qIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, QuestionColumn)
	}
	if aIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, AnswerColumn)
	}

	entries := make([]Entry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		q, a := cell(row, qIdx), cell(row, aIdx)
		qBlank, aBlank := strings.TrimSpace(q) == "", strings.TrimSpace(a) == ""
		switch {
		case qBlank && aBlank:
			continue
		case qBlank:
			return nil, &RowError{Row: i + 2, Missing: QuestionColumn}
		case aBlank:
			return nil, &RowError{Row: i + 2, Missing: AnswerColumn}
		}
		entries = append(entries, Entry{Question: q, Answer: a})
	}
	return entries, nil
}

// cell returns the text of row[idx] as written in the sheet.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
