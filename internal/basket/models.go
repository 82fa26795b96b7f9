package basket

import "fmt"

// Line is one queued medication waiting to be printed. ExpiryMonth and
// ExpiryYear are selected independently; the combined expiry date is
// derived and exists only once both components are set.
type Line struct {
	ID          string `db:"id" json:"id"`
	DrugName    string `db:"drug_name" json:"drugName"`
	Instruction string `db:"instruction_text" json:"instruction"`
	ExpiryMonth string `db:"expiry_month" json:"expiryMonth"`
	ExpiryYear  string `db:"expiry_year" json:"expiryYear"`
}

// ExpiryDate returns the combined "MM/YY" form, or "" while either
// component is still unset.
func (l Line) ExpiryDate() string {
	if l.ExpiryMonth == "" || l.ExpiryYear == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s", l.ExpiryMonth, l.ExpiryYear)
}

// HasExpiry reports whether the line is ready to print.
func (l Line) HasExpiry() bool {
	return l.ExpiryMonth != "" && l.ExpiryYear != ""
}
