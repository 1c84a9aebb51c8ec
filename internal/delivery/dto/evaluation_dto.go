package dto

import (
	"time"

	"neuropharm-backend/internal/domain/entity"

	"github.com/google/uuid"
)

type AnalyzeRequest struct {
	PatientID        string `json:"patient_id" validate:"required,uuid"`
	GeneticProfileID string `json:"genetic_profile_id" validate:"required,uuid"`
}

type EvaluationResponse struct {
	ID               uuid.UUID   `json:"id"`
	UserID           uuid.UUID   `json:"user_id"`
	GeneticProfileID *uuid.UUID  `json:"genetic_profile_id,omitempty"`
	EvaluatedBy      uuid.UUID   `json:"evaluated_by"`
	Result           entity.JSON `json:"result"`
	EvaluatedAt      time.Time   `json:"evaluated_at"`
}
