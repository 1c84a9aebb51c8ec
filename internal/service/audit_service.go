package service

import (
	"context"

	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AuditService appends entries to the audit trail. Callers pass a
// transaction when the entry must commit together with the change.
//
// The stored metadata is flat: the details keys sit next to "entity" and
// "entity_id", which always win over a detail of the same name.
type AuditService interface {
	Record(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, details map[string]interface{}) error
}

type auditService struct {
	db        *gorm.DB
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(db *gorm.DB, log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		db:        db,
		log:       log,
		auditRepo: auditRepo,
	}
}

func (s *auditService) Record(ctx context.Context, tx *gorm.DB, actorID *uuid.UUID, action string, entityName string, entityID string, details map[string]interface{}) error {
	if tx == nil {
		tx = s.db
	}

	metadata := make(entity.JSON, len(details)+2)
	for k, v := range details {
		metadata[k] = v
	}
	metadata["entity"] = entityName
	metadata["entity_id"] = entityID

	auditLog := &entity.AuditLog{
		UserID:   actorID,
		Action:   action,
		Metadata: metadata,
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
