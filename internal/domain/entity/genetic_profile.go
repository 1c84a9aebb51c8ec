package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeneticProfile is an uploaded raw genetic file (VCF) owned by a patient.
// Rows are never updated or deleted.
type GeneticProfile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	StoragePath string    `gorm:"type:text;not null" json:"storage_path"`
	FileName    string    `gorm:"type:varchar(255)" json:"file_name,omitempty"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  uuid.UUID `gorm:"type:uuid" json:"uploaded_by"`
	UploadedAt  time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`
}

func (GeneticProfile) TableName() string {
	return "genetic_profiles"
}

func (g *GeneticProfile) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// GetUserID returns the patient the profile belongs to
func (g *GeneticProfile) GetUserID() uuid.UUID {
	return g.UserID
}
