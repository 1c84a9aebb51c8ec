package dto

import (
	"time"

	"github.com/google/uuid"
)

type GeneticProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	StoragePath string    `json:"storage_path"`
	FileName    string    `json:"file_name,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// UploadResult is the outcome of a genetic file upload. The profile is
// always present; the report may be degraded.
type UploadResult struct {
	Profile        *GeneticProfileResponse `json:"profile"`
	Report         *ReportResponse         `json:"report,omitempty"`
	AnalysisFailed bool                    `json:"analysis_failed"`
}

// GeneticUploadInput is the multipart upload after the handler read it
type GeneticUploadInput struct {
	PatientID string `json:"patient_id" validate:"required,uuid"`
	FileName  string `json:"file_name"`
	Content   []byte `json:"-"`
}
