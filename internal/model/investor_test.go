package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CanonicalColumns(t *testing.T) {
	raw := map[string]string{
		"Investor name":           "Acme VC",
		"Website":                 "https://acme.vc",
		"Global HQ":               "San Francisco, CA, USA",
		"Countries of investment": "USA, Canada",
		"Stage of investment":     "Seed, Series A",
		"Investment thesis":       "We back B2B SaaS.",
		"Investor type":           "VC",
		"First cheque minimum":    "50k",
		"First cheque maximum":    "250k",
	}

	rec := Normalize(raw)

	assert.Equal(t, InvestorRecord{
		Name:                  "Acme VC",
		Website:               "https://acme.vc",
		GlobalHQ:              "San Francisco, CA, USA",
		CountriesOfInvestment: "USA, Canada",
		Stage:                 "Seed, Series A",
		Thesis:                "We back B2B SaaS.",
		InvestorType:          "VC",
		ChequeMin:             "50k",
		ChequeMax:             "250k",
	}, rec)
}

func TestNormalize_TolerantColumnNames(t *testing.T) {
	raw := map[string]string{
		"  investor_NAME ": "Beta Angels",
		"STAGE":            "Pre-seed",
		"country":          "UK",
		"cheque-min":       "5k",
		"Unrelated column": "ignored",
	}

	rec := Normalize(raw)

	assert.Equal(t, "Beta Angels", rec.Name)
	assert.Equal(t, "Pre-seed", rec.Stage)
	assert.Equal(t, "UK", rec.CountriesOfInvestment)
	assert.Equal(t, "5k", rec.ChequeMin)
	assert.Empty(t, rec.ChequeMax)
}

func TestNormalize_BlankAndPlaceholderValues(t *testing.T) {
	raw := map[string]string{
		"Investor name":     "  ",
		"Website":           "N/A",
		"Global HQ":         "null",
		"Investment thesis": " - ",
	}

	rec := Normalize(raw)

	assert.Equal(t, InvestorRecord{}, rec)
	assert.Equal(t, UnknownName, rec.DisplayName())
}

func TestNormalize_CanonicalColumnWinsOverSynonym(t *testing.T) {
	for i := 0; i < 20; i++ {
		rec := Normalize(map[string]string{
			"name":          "synonym",
			"Investor name": "canonical",
			"investor":      "other synonym",
		})
		assert.Equal(t, "canonical", rec.Name)
	}
}

func TestNormalize_SynonymOrderIsDeterministic(t *testing.T) {
	for i := 0; i < 20; i++ {
		rec := Normalize(map[string]string{"web site": "a", "url": "b"})
		assert.Equal(t, "b", rec.Website)
	}
}

func TestNormalize_NeverPanics(t *testing.T) {
	inputs := []map[string]string{
		nil,
		{},
		{"": ""},
		{"\x00": "\xff\xfe"},
		{"Investor name": "\xff"},
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Normalize(in) })
	}
}

func TestNormalizeAll_PreservesOrder(t *testing.T) {
	rows := []map[string]string{
		{"Investor name": "A"},
		{"Investor name": "B"},
		{},
	}
	recs := NormalizeAll(rows)
	assert.Len(t, recs, 3)
	assert.Equal(t, "A", recs[0].Name)
	assert.Equal(t, "B", recs[1].Name)
	assert.Equal(t, UnknownName, recs[2].DisplayName())
}

func TestFieldLabelsMatchColumns(t *testing.T) {
	for i, f := range Fields {
		assert.Equal(t, Columns[i], f.Label())
		got, ok := LookupColumn(Columns[i])
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}
}
