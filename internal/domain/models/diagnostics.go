package models

// FieldDiagnostic reports whether the data source supplied a usable value
// for one fundamentals field. A zero value counts as missing: the source
// either omitted the field or reported nothing meaningful for it.
type FieldDiagnostic struct {
	Field string  `json:"field"`
	Value float64 `json:"value"`
	Found bool    `json:"found"`
}

// Diagnostics is the per-field data-quality report for a fetched record.
// It accompanies the record so callers can judge how trustworthy the
// resulting score is.
type Diagnostics []FieldDiagnostic

// Missing returns the names of the fields the source could not supply.
func (d Diagnostics) Missing() []string {
	var fields []string
	for _, diag := range d {
		if !diag.Found {
			fields = append(fields, diag.Field)
		}
	}
	return fields
}
