package usecase

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// upstream bounds a single storage, language model or database call
type upstream struct {
	timeout time.Duration
}

func (u upstream) call(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.timeout)
}

// begin opens a transaction that is rolled back by the database once the
// timeout passes, commit included.
func (u upstream) begin(ctx context.Context, db *gorm.DB) (*gorm.DB, context.CancelFunc) {
	txCtx, cancel := u.call(ctx)
	return db.WithContext(txCtx).Begin(), cancel
}
