package pdf

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"neuropharm-backend/internal/domain/gateway"

	"github.com/phpdave11/gofpdf"
)

const (
	evaluationTitle     = "INFORME GENÉTICO PERSONALIZADO"
	confidentialityNote = "Este informe es confidencial y generado automáticamente."
	dateLayout          = "02/01/2006 15:04"
)

// Renderer lays reports out on A4 pages with the core Helvetica font
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func newDocument(title string) (*gofpdf.Fpdf, func(string) string) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle(title, true)
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()
	return doc, doc.UnicodeTranslatorFromDescriptor("")
}

func output(doc *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderAnalysis writes the automatic post-upload analysis
func (r *Renderer) RenderAnalysis(in gateway.AnalysisDocument) ([]byte, error) {
	doc, tr := newDocument(in.Title)

	doc.SetFont("Helvetica", "B", 14)
	doc.MultiCell(0, 8, tr(in.Title), "", "L", false)
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 11)
	doc.MultiCell(0, 6, tr(in.Text), "", "L", false)

	return output(doc)
}

// RenderEvaluation writes a doctor's on-demand report for one evaluation
func (r *Renderer) RenderEvaluation(in gateway.EvaluationDocument) ([]byte, error) {
	doc, tr := newDocument(evaluationTitle)

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, tr(evaluationTitle), "", 1, "C", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 8, tr("Paciente: "+in.PatientName), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 8, tr("Email: "+in.PatientEmail), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 8, tr("Fecha: "+in.GeneratedAt.Format(dateLayout)), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 8, tr(fmt.Sprintf("Elaborado por Dr/a. %s (%s)", in.DoctorName, in.DoctorEmail)), "", 1, "L", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "B", 13)
	doc.CellFormat(0, 8, tr("Resultados IA:"), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
	for _, line := range ResultLines(in.Result) {
		doc.MultiCell(0, 6, tr(line), "", "L", false)
	}

	doc.Ln(10)
	doc.SetFont("Helvetica", "I", 9)
	doc.MultiCell(0, 5, tr(confidentialityNote), "", "L", false)

	return output(doc)
}

// ResultLines formats an evaluation result as sorted "key: value" lines.
// List values are joined with ", ".
func ResultLines(result map[string]interface{}) []string {
	keys := make([]string, 0, len(result))
	for k := range result {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", humanize(k), formatValue(result[k])))
	}
	return lines
}

func humanize(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	if len(words) == 0 {
		return key
	}
	words[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	return strings.Join(words, " ")
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(val, ", ")
	default:
		return fmt.Sprint(val)
	}
}
