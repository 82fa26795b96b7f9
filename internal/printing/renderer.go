package printing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/bidi"

	"medilabel/internal/basket"
	"medilabel/internal/patient"
)

// Label dimensions are fixed by the sticker stock loaded in the
// counter printers.
const (
	LabelWidthCM  = 4.0
	LabelHeightCM = 2.5
)

// LabelDocument is one fully resolved label, ready for a surface.
type LabelDocument struct {
	DrugName      string
	Instruction   string
	Direction     string // "rtl" or "ltr", from the instruction text
	ExpiryDisplay string // "MM/20YY"
	PatientName   string
	PatientRef    string // "id/year"
	PrintedBy     string
	PrintedOn     string // "DD/MM/YYYY"
}

// Surface receives rendered documents and puts them on paper, screen,
// or disk, returning the produced document so the caller can hand it to
// the print dialog. A surface error aborts the print before any audit
// is written.
type Surface interface {
	Print(ctx context.Context, sessionID string, docs []LabelDocument) (string, error)
}

// BuildDocuments expands the basket into copies*len(lines) documents,
// basket order preserved, copies of the same line adjacent. It assumes
// validation already ran: every line has its expiry set.
func BuildDocuments(lines []basket.Line, p patient.Patient, printedBy string, now time.Time, copies int) []LabelDocument {
	docs := make([]LabelDocument, 0, len(lines)*copies)
	printedOn := now.Format("02/01/2006")

	for _, line := range lines {
		doc := LabelDocument{
			DrugName:      line.DrugName,
			Instruction:   line.Instruction,
			Direction:     textDirection(line.Instruction),
			ExpiryDisplay: DisplayExpiry(line.ExpiryDate()),
			PatientName:   p.PatientName,
			PatientRef:    p.FullID(),
			PrintedBy:     printedBy,
			PrintedOn:     printedOn,
		}
		for c := 0; c < copies; c++ {
			docs = append(docs, doc)
		}
	}
	return docs
}

// DisplayExpiry widens the stored "MM/YY" form to "MM/20YY" for the
// label. Anything not in the stored form passes through untouched.
func DisplayExpiry(stored string) string {
	parts := strings.Split(stored, "/")
	if len(parts) != 2 || len(parts[1]) != 2 {
		return stored
	}
	return fmt.Sprintf("%s/20%s", parts[0], parts[1])
}

// textDirection decides the CSS direction for the instruction text.
// Instructions are typically Arabic, so right-to-left is the common
// case, but imported catalogs carry English instructions too.
func textDirection(text string) string {
	if text == "" {
		return "rtl"
	}
	var p bidi.Paragraph
	if _, err := p.SetString(text); err != nil {
		return "rtl"
	}
	if p.IsLeftToRight() {
		return "ltr"
	}
	return "rtl"
}
