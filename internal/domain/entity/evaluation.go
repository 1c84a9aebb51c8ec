package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Evaluation is a structured AI pharmacogenomic assessment of one genetic profile
type Evaluation struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	GeneticProfileID *uuid.UUID `gorm:"type:uuid;index" json:"genetic_profile_id,omitempty"`
	EvaluatedBy      uuid.UUID  `gorm:"type:uuid" json:"evaluated_by"`
	Result           JSON       `gorm:"type:jsonb" json:"result"`
	EvaluatedAt      time.Time  `gorm:"autoCreateTime;index" json:"evaluated_at"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

func (e *Evaluation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (e *Evaluation) GetUserID() uuid.UUID {
	return e.UserID
}

// Keys of the structured evaluation result
const (
	ResultKeyNotRecommended = "not_recommended_drugs"
	ResultKeyRisks          = "risks"
	ResultKeyComment        = "ai_comment"
)
