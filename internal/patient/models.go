package patient

import "fmt"

// Patient is one directory record, keyed by (PatientID, Year).
type Patient struct {
	PatientID   int    `db:"patient_id" json:"patientId"`
	Year        int    `db:"year" json:"year"`
	PatientName string `db:"patient_name" json:"patientName"`
	NationalID  string `db:"national_id" json:"nationalId"`
}

// FullID renders the display identifier printed on labels.
func (p Patient) FullID() string {
	return fmt.Sprintf("%d/%d", p.PatientID, p.Year)
}
