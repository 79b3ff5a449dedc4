package fetcher

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func createTestXLSX(t *testing.T, sheet string, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	s, err := f.AddSheet(sheet)
	require.NoError(t, err)
	for _, rowData := range rows {
		row := s.AddRow()
		for _, v := range rowData {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "snapshot.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadCSV_TrimsAndStripsBOM(t *testing.T) {
	in := "\xEF\xBB\xBFInvestor name, Stage of investment\n Acme ,\"Seed, Series A\"\nBeta\n"
	rows, err := ReadCSV(strings.NewReader(in), CSVOptions{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Investor name", "Stage of investment"}, rows[0])
	assert.Equal(t, []string{"Acme", "Seed, Series A"}, rows[1])
	assert.Equal(t, []string{"Beta"}, rows[2])
}

func TestReadFile_CSV(t *testing.T) {
	path := writeTestFile(t, "dec.csv", "Investor name,Investor type,\nAcme,VC,x\n,,\nBeta,Angel\n")
	tbl, err := ReadFile(path, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Investor name", "Investor type"}, tbl.Columns())
	recs := tbl.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, map[string]string{"Investor name": "Acme", "Investor type": "VC"}, recs[0])
	assert.Equal(t, "Angel", recs[1]["Investor type"])
}

func TestReadFile_TSV(t *testing.T) {
	path := writeTestFile(t, "dec.tsv", "Investor name\tGlobal HQ\nAcme\tLondon, UK\n")
	tbl, err := ReadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Acme", "London, UK"}}, tbl.Values())
}

func TestReadFile_XLSX(t *testing.T) {
	path := createTestXLSX(t, "dec-2024", [][]string{
		{"Investor name", "First cheque minimum"},
		{"Acme", "$50K"},
	})
	tbl, err := ReadFile(path, "dec-2024")
	require.NoError(t, err)
	require.Len(t, tbl.Records(), 1)
	assert.Equal(t, "$50K", tbl.Records()[0]["First cheque minimum"])

	_, err = ReadFile(path, "missing")
	assert.Error(t, err)
}

func TestReadFile_Unsupported(t *testing.T) {
	_, err := ReadFile("investors.json", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported snapshot format")
}

func TestTable_DuplicateHeaderFirstWins(t *testing.T) {
	tbl := NewTable([][]string{{"Name", "Name", "Type"}, {"a", "b", "VC"}})
	assert.Equal(t, []string{"Name", "Type"}, tbl.Columns())
	assert.Equal(t, "a", tbl.Records()[0]["Name"])
	assert.Equal(t, [][]string{{"a", "VC"}}, tbl.Values())
}
