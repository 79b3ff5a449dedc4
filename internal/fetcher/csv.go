// Package fetcher parses investor snapshot files (CSV, TSV and XLSX) into
// header-keyed rows.
package fetcher

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the CSV parser.
type CSVOptions struct {
	Delimiter rune // default ','
	Comment   rune // comment character (0 = none)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads every record from r. Fields are trimmed, quotes are parsed
// leniently and rows may have differing lengths. A leading UTF-8 byte order
// mark is dropped.
func ReadCSV(r io.Reader, opts CSVOptions) ([][]string, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, eris.Wrapf(err, "csv: read row %d", len(rows)+1)
		}
		for i, field := range record {
			record[i] = strings.TrimSpace(field)
		}
		rows = append(rows, record)
	}
}
