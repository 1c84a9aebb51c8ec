package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportStatus represents the composition state of a report
type ReportStatus string

const (
	ReportStatusCompleted ReportStatus = "completed"
	ReportStatusDegraded  ReportStatus = "degraded"
)

// Report is a generated clinical report. PDFPath is nil when the PDF
// could not be composed or stored.
type Report struct {
	ID               uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	GeneticProfileID *uuid.UUID   `gorm:"type:uuid;index" json:"genetic_profile_id,omitempty"`
	EvaluationID     *uuid.UUID   `gorm:"type:uuid;index" json:"evaluation_id,omitempty"`
	Description      string       `gorm:"type:text" json:"description,omitempty"`
	Content          string       `gorm:"type:text" json:"content,omitempty"`
	PDFPath          *string      `gorm:"column:pdf_path;type:text" json:"pdf_path"`
	Status           ReportStatus `gorm:"type:varchar(20);not null" json:"status"`
	GeneratedBy      *uuid.UUID   `gorm:"type:uuid" json:"generated_by,omitempty"`
	GeneratedAt      time.Time    `gorm:"autoCreateTime;index" json:"generated_at"`
}

func (Report) TableName() string {
	return "reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r *Report) GetUserID() uuid.UUID {
	return r.UserID
}

// HasPDF checks if a PDF was stored for the report
func (r *Report) HasPDF() bool {
	return r.PDFPath != nil && *r.PDFPath != ""
}
