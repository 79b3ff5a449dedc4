// Package model defines the typed investor record and the normalization
// boundary that turns loosely-typed store rows into it.
package model

import (
	"sort"
	"strings"
)

// Source column names of the OpenVC investor table.
const (
	ColName      = "Investor name"
	ColWebsite   = "Website"
	ColGlobalHQ  = "Global HQ"
	ColCountries = "Countries of investment"
	ColStage     = "Stage of investment"
	ColThesis    = "Investment thesis"
	ColType      = "Investor type"
	ColChequeMin = "First cheque minimum"
	ColChequeMax = "First cheque maximum"
)

// Columns lists the source columns in display order.
var Columns = []string{
	ColName, ColWebsite, ColGlobalHQ, ColCountries, ColStage,
	ColThesis, ColType, ColChequeMin, ColChequeMax,
}

// UnknownName is shown for records whose name is blank.
const UnknownName = "Unknown"

// InvestorRecord is one normalized investor row. Every field may be empty;
// missing and blank source values are both represented as "".
type InvestorRecord struct {
	Name                  string `json:"name"`
	Website               string `json:"website"`
	GlobalHQ              string `json:"global_hq"`
	CountriesOfInvestment string `json:"countries_of_investment"`
	Stage                 string `json:"stage"`
	Thesis                string `json:"thesis"`
	InvestorType          string `json:"investor_type"`
	ChequeMin             string `json:"cheque_min"`
	ChequeMax             string `json:"cheque_max"`
}

// DisplayName returns the record name, or UnknownName when blank.
func (r InvestorRecord) DisplayName() string {
	if r.Name == "" {
		return UnknownName
	}
	return r.Name
}

// Field identifies a canonical record field.
type Field int

const (
	FieldName Field = iota
	FieldWebsite
	FieldGlobalHQ
	FieldCountries
	FieldStage
	FieldThesis
	FieldType
	FieldChequeMin
	FieldChequeMax
)

// Fields lists every canonical field in display order.
var Fields = []Field{
	FieldName, FieldWebsite, FieldGlobalHQ, FieldCountries, FieldStage,
	FieldThesis, FieldType, FieldChequeMin, FieldChequeMax,
}

// Label returns the human-readable field label.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Investor name"
	case FieldWebsite:
		return "Website"
	case FieldGlobalHQ:
		return "Global HQ"
	case FieldCountries:
		return "Countries of investment"
	case FieldStage:
		return "Stage of investment"
	case FieldThesis:
		return "Investment thesis"
	case FieldType:
		return "Investor type"
	case FieldChequeMin:
		return "First cheque minimum"
	case FieldChequeMax:
		return "First cheque maximum"
	default:
		return "unknown"
	}
}

// Value returns the value of field f.
func (r InvestorRecord) Value(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldWebsite:
		return r.Website
	case FieldGlobalHQ:
		return r.GlobalHQ
	case FieldCountries:
		return r.CountriesOfInvestment
	case FieldStage:
		return r.Stage
	case FieldThesis:
		return r.Thesis
	case FieldType:
		return r.InvestorType
	case FieldChequeMin:
		return r.ChequeMin
	case FieldChequeMax:
		return r.ChequeMax
	default:
		return ""
	}
}

func (r *InvestorRecord) set(f Field, v string) {
	switch f {
	case FieldName:
		r.Name = v
	case FieldWebsite:
		r.Website = v
	case FieldGlobalHQ:
		r.GlobalHQ = v
	case FieldCountries:
		r.CountriesOfInvestment = v
	case FieldStage:
		r.Stage = v
	case FieldThesis:
		r.Thesis = v
	case FieldType:
		r.InvestorType = v
	case FieldChequeMin:
		r.ChequeMin = v
	case FieldChequeMax:
		r.ChequeMax = v
	}
}

// columnAliases maps normalized source column names to canonical fields.
var columnAliases = map[string]Field{
	"investor name":           FieldName,
	"name":                    FieldName,
	"investor":                FieldName,
	"website":                 FieldWebsite,
	"url":                     FieldWebsite,
	"web site":                FieldWebsite,
	"global hq":               FieldGlobalHQ,
	"hq":                      FieldGlobalHQ,
	"headquarters":            FieldGlobalHQ,
	"hq location":             FieldGlobalHQ,
	"countries of investment": FieldCountries,
	"countries":               FieldCountries,
	"country":                 FieldCountries,
	"stage of investment":     FieldStage,
	"stage":                   FieldStage,
	"stages":                  FieldStage,
	"investment thesis":       FieldThesis,
	"thesis":                  FieldThesis,
	"investor type":           FieldType,
	"type":                    FieldType,
	"first cheque minimum":    FieldChequeMin,
	"first check minimum":     FieldChequeMin,
	"cheque min":              FieldChequeMin,
	"check min":               FieldChequeMin,
	"first cheque maximum":    FieldChequeMax,
	"first check maximum":     FieldChequeMax,
	"cheque max":              FieldChequeMax,
	"check max":               FieldChequeMax,
}

// blankPlaceholders are source values treated as missing.
var blankPlaceholders = map[string]bool{
	"n/a":  true,
	"na":   true,
	"-":    true,
	"null": true,
	"none": true,
}

// normalizeColumn folds case, treats "_" and "-" as spaces and collapses
// whitespace: "Investor_Name " -> "investor name".
func normalizeColumn(col string) string {
	col = strings.ToLower(col)
	col = strings.NewReplacer("_", " ", "-", " ").Replace(col)
	return strings.Join(strings.Fields(col), " ")
}

// LookupColumn returns the canonical field for a source column name.
func LookupColumn(col string) (Field, bool) {
	f, ok := columnAliases[normalizeColumn(col)]
	return f, ok
}

// Normalize maps a raw store row onto an InvestorRecord. Unknown columns are
// ignored and blank or placeholder values become "". When several source
// columns map to the same field, the canonical column wins, then the
// lexicographically first synonym.
func Normalize(raw map[string]string) InvestorRecord {
	cols := make([]string, 0, len(raw))
	for col := range raw {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	var rec InvestorRecord
	for _, col := range cols {
		f, ok := LookupColumn(col)
		if !ok {
			continue
		}
		val := cleanValue(raw[col])
		if val == "" {
			continue
		}
		if cur := rec.Value(f); cur != "" && !preferred(col, f) {
			continue
		}
		rec.set(f, val)
	}
	return rec
}

// NormalizeAll normalizes a slice of rows, preserving order.
func NormalizeAll(rows []map[string]string) []InvestorRecord {
	out := make([]InvestorRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, Normalize(row))
	}
	return out
}

// preferred reports whether col is the canonical source column for f, which
// wins over any synonym regardless of map iteration order.
func preferred(col string, f Field) bool {
	return normalizeColumn(col) == normalizeColumn(Columns[f])
}

func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	if blankPlaceholders[strings.ToLower(v)] {
		return ""
	}
	return v
}
