package repository

import (
	"context"

	"neuropharm-backend/internal/domain/entity"
	domainRepo "neuropharm-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type chatHistoryRepository struct{}

func NewChatHistoryRepository() domainRepo.ChatHistoryRepository {
	return &chatHistoryRepository{}
}

func (r *chatHistoryRepository) Create(ctx context.Context, db *gorm.DB, history *entity.ChatHistory) error {
	return db.WithContext(ctx).Create(history).Error
}
