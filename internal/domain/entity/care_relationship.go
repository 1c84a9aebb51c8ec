package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CareStatus represents the status of a doctor-patient assignment
type CareStatus string

const (
	CareStatusActive   CareStatus = "active"
	CareStatusInactive CareStatus = "inactive"
)

// CareRelationship grants a doctor conditional access to a patient's data.
// The (doctor_id, patient_id) pair is unique regardless of status.
type CareRelationship struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DoctorID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_care_relationships_pair;index" json:"doctor_id"`
	PatientID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_care_relationships_pair;index" json:"patient_id"`
	Status    CareStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (CareRelationship) TableName() string {
	return "care_relationships"
}

func (c *CareRelationship) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = CareStatusActive
	}
	return nil
}

// IsActive checks if the relationship currently grants access
func (c *CareRelationship) IsActive() bool {
	return c.Status == CareStatusActive
}
