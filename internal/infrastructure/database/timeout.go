package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

const (
	boundCallback      = "statement_timeout:bound"
	releaseCallback    = "statement_timeout:release"
	statementCancelKey = "statement_timeout:cancel"
)

// StatementTimeout is a gorm plugin that bounds every create, query, update
// and delete by Timeout, on top of whatever deadline the caller's context has.
type StatementTimeout struct {
	Timeout time.Duration
}

func NewStatementTimeout(timeout time.Duration) *StatementTimeout {
	return &StatementTimeout{Timeout: timeout}
}

func (p *StatementTimeout) Name() string {
	return "statement_timeout"
}

func (p *StatementTimeout) Initialize(db *gorm.DB) error {
	if p.Timeout <= 0 {
		return nil
	}

	// Row and Raw are left out: their *sql.Rows outlive the callback chain.
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("*").Register(boundCallback, p.bound),
		cb.Create().After("*").Register(releaseCallback, p.release),
		cb.Query().Before("*").Register(boundCallback, p.bound),
		cb.Query().After("*").Register(releaseCallback, p.release),
		cb.Update().Before("*").Register(boundCallback, p.bound),
		cb.Update().After("*").Register(releaseCallback, p.release),
		cb.Delete().Before("*").Register(boundCallback, p.bound),
		cb.Delete().After("*").Register(releaseCallback, p.release),
	)
}

func (p *StatementTimeout) bound(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	db.Statement.Context = ctx
	db.InstanceSet(statementCancelKey, cancel)
}

func (p *StatementTimeout) release(db *gorm.DB) {
	if v, ok := db.InstanceGet(statementCancelKey); ok {
		if cancel, ok := v.(context.CancelFunc); ok {
			cancel()
		}
	}
}
