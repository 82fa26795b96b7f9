package catalog

// DefaultInstruction is applied when the catalog carries no usage
// instruction for a drug.
const DefaultInstruction = "Take as directed"

// Medication is one catalog entry offered for basket selection.
type Medication struct {
	DrugName    string `db:"drug_name" json:"drugName"`
	Instruction string `db:"instruction" json:"instruction"`
	Barcode     string `db:"international_code" json:"barcode,omitempty"`
}
