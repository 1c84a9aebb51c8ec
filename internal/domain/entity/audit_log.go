package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog represents a system audit trail entry
type AuditLog struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action    string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime;index" json:"created_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Common audit actions
const (
	AuditActionUserRegister     = "user.register"
	AuditActionPasswordChange   = "user.password_change"
	AuditActionProfileUpdate    = "user.profile_update"
	AuditActionDoctorCreate     = "doctor.create"
	AuditActionAdminCreate      = "admin.create"
	AuditActionPatientAssign    = "care.assign"
	AuditActionGeneticUpload    = "genetics.upload"
	AuditActionEvaluationCreate = "evaluation.create"
	AuditActionReportGenerate   = "report.generate"
)
