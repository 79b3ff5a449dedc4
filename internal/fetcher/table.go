package fetcher

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a parsed snapshot: a header row and the data rows below it.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadFile parses a snapshot file, choosing the format by extension:
// .csv, .tsv or .xlsx. The first non-blank row is the header.
func ReadFile(path, sheet string) (Table, error) {
	var (
		raw [][]string
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv":
		f, openErr := os.Open(path)
		if openErr != nil {
			return Table{}, eris.Wrap(openErr, "fetcher: open snapshot")
		}
		defer f.Close() //nolint:errcheck
		opts := CSVOptions{}
		if ext == ".tsv" {
			opts.Delimiter = '\t'
		}
		raw, err = ReadCSV(f, opts)
	case ".xlsx":
		raw, err = ReadXLSX(path, sheet)
	default:
		return Table{}, eris.Errorf("fetcher: unsupported snapshot format %q", ext)
	}
	if err != nil {
		return Table{}, err
	}
	return NewTable(raw), nil
}

// NewTable splits raw rows into header and data, dropping blank rows.
func NewTable(raw [][]string) Table {
	var t Table
	for _, row := range raw {
		if blank(row) {
			continue
		}
		if t.Header == nil {
			t.Header = row
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Records keys each data row by header name. Columns with a blank header
// are dropped; when a header repeats, the first column wins. Short rows
// leave the missing columns empty.
func (t Table) Records() []map[string]string {
	out := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]string, len(t.Header))
		for i, col := range t.Header {
			if col == "" {
				continue
			}
			if _, dup := rec[col]; dup {
				continue
			}
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		out = append(out, rec)
	}
	return out
}

// Columns returns the non-blank header names in file order.
func (t Table) Columns() []string {
	seen := make(map[string]bool, len(t.Header))
	cols := make([]string, 0, len(t.Header))
	for _, c := range t.Header {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		cols = append(cols, c)
	}
	return cols
}

// Values returns the data rows aligned to Columns.
func (t Table) Values() [][]string {
	cols := t.Columns()
	recs := t.Records()
	out := make([][]string, len(recs))
	for i, rec := range recs {
		row := make([]string, len(cols))
		for j, c := range cols {
			row[j] = rec[c]
		}
		out[i] = row
	}
	return out
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
