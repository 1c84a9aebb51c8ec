package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatHistory stores one question/answer exchange with the assistant.
// PatientID is set when a doctor asked about a specific patient.
type ChatHistory struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	PatientID *uuid.UUID `gorm:"type:uuid;index" json:"patient_id,omitempty"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	Answer    string     `gorm:"type:text;not null" json:"answer"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (ChatHistory) TableName() string {
	return "chat_histories"
}

func (c *ChatHistory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
