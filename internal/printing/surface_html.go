package printing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
)

// labelPage is the print layout. Each label is sized to the sticker
// stock; the page is handed to the OS print dialog as-is.
const labelPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
@page { margin: 0; }
body { margin: 0; font-family: "Segoe UI", Tahoma, sans-serif; }
.label {
  width: {{.WidthCM}}cm;
  height: {{.HeightCM}}cm;
  box-sizing: border-box;
  padding: 0.1cm;
  overflow: hidden;
  page-break-after: always;
  border: 0.02cm solid #000;
}
.drug { font-size: 8pt; font-weight: bold; }
.instruction { font-size: 7pt; }
.meta { font-size: 5.5pt; display: flex; justify-content: space-between; }
</style>
</head>
<body>
{{- range .Docs}}
<div class="label">
  <div class="drug">{{.DrugName}}</div>
  <div class="instruction" dir="{{.Direction}}">{{.Instruction}}</div>
  <div class="meta"><span>{{.PatientName}} ({{.PatientRef}})</span><span>EXP {{.ExpiryDisplay}}</span></div>
  <div class="meta"><span>{{.PrintedBy}}</span><span>{{.PrintedOn}}</span></div>
</div>
{{- end}}
</body>
</html>
`

// HTMLSurface writes one HTML page per session into a spool directory.
// The page prints correctly from any browser, which is how the counter
// machines drive their sticker printers.
type HTMLSurface struct {
	dir  string
	tmpl *template.Template
}

func NewHTMLSurface(dir string) (*HTMLSurface, error) {
	tmpl, err := template.New("labels").Parse(labelPage)
	if err != nil {
		return nil, fmt.Errorf("parse label template: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create spool dir %s: %w", dir, err)
	}
	return &HTMLSurface{dir: dir, tmpl: tmpl}, nil
}

// Print renders the page, spools it to disk, and returns the HTML so
// the response can carry it inline.
func (s *HTMLSurface) Print(_ context.Context, sessionID string, docs []LabelDocument) (string, error) {
	data := struct {
		WidthCM  float64
		HeightCM float64
		Docs     []LabelDocument
	}{LabelWidthCM, LabelHeightCM, docs}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render label page: %w", err)
	}

	path := filepath.Join(s.dir, sessionID+".html")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("spool label page: %w", err)
	}
	return buf.String(), nil
}
