package repository

import (
	"context"

	"neuropharm-backend/internal/domain/entity"

	"gorm.io/gorm"
)

type ChatHistoryRepository interface {
	Create(ctx context.Context, db *gorm.DB, history *entity.ChatHistory) error
}
