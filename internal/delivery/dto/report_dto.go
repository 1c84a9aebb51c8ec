package dto

import (
	"time"

	"github.com/google/uuid"
)

type ReportResponse struct {
	ID               uuid.UUID  `json:"id"`
	UserID           uuid.UUID  `json:"user_id"`
	GeneticProfileID *uuid.UUID `json:"genetic_profile_id,omitempty"`
	EvaluationID     *uuid.UUID `json:"evaluation_id,omitempty"`
	Description      string     `json:"description,omitempty"`
	Content          string     `json:"content,omitempty"`
	PDFPath          *string    `json:"pdf_path"`
	Status           string     `json:"status"`
	GeneratedBy      *uuid.UUID `json:"generated_by,omitempty"`
	GeneratedAt      time.Time  `json:"generated_at"`
}

// ReportFile is a downloaded report PDF
type ReportFile struct {
	FileName string
	Content  []byte
}
