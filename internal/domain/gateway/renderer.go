package gateway

import "time"

// AnalysisDocument is the automatic report composed after an upload
type AnalysisDocument struct {
	Title string
	Text  string
}

// EvaluationDocument is the on-demand report composed by a doctor
type EvaluationDocument struct {
	PatientName  string
	PatientEmail string
	DoctorName   string
	DoctorEmail  string
	GeneratedAt  time.Time
	Result       map[string]interface{}
}

// ReportRenderer lays report content out as PDF bytes
type ReportRenderer interface {
	RenderAnalysis(doc AnalysisDocument) ([]byte, error)
	RenderEvaluation(doc EvaluationDocument) ([]byte, error)
}
