package database_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"neuropharm-backend/internal/infrastructure/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type widget struct {
	ID   uint
	Name string
}

// seen collects the context each statement ran with
type seen struct {
	mu   sync.Mutex
	ctxs []context.Context
}

func (s *seen) record(db *gorm.DB) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctxs = append(s.ctxs, db.Statement.Context)
}

func (s *seen) last(t *testing.T) context.Context {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ctxs) == 0 {
		t.Fatal("no statement recorded")
	}
	return s.ctxs[len(s.ctxs)-1]
}

func openDB(t *testing.T, timeout time.Duration) (*gorm.DB, *seen) {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Use(database.NewStatementTimeout(timeout)); err != nil {
		t.Fatalf("use: %v", err)
	}
	if err := db.AutoMigrate(&widget{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := &seen{}
	cb := db.Callback()
	if err := cb.Create().After("gorm:create").Register("test:seen", s.record); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := cb.Query().After("gorm:query").Register("test:seen", s.record); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := cb.Update().After("gorm:update").Register("test:seen", s.record); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := cb.Delete().After("gorm:delete").Register("test:seen", s.record); err != nil {
		t.Fatalf("register: %v", err)
	}
	return db, s
}

func TestStatementTimeoutBoundsEveryStatement(t *testing.T) {
	db, s := openDB(t, 2*time.Second)
	ctx := context.Background()

	w := &widget{Name: "a"}
	steps := []struct {
		name string
		run  func() error
	}{
		{"create", func() error { return db.WithContext(ctx).Create(w).Error }},
		{"query", func() error { return db.WithContext(ctx).First(&widget{}, w.ID).Error }},
		{"update", func() error { return db.WithContext(ctx).Model(w).Update("name", "b").Error }},
		{"delete", func() error { return db.WithContext(ctx).Delete(w).Error }},
	}

	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			start := time.Now()
			if err := step.run(); err != nil {
				t.Fatalf("%s: %v", step.name, err)
			}

			stmtCtx := s.last(t)
			deadline, ok := stmtCtx.Deadline()
			if !ok {
				t.Fatal("statement ran without a deadline")
			}
			if deadline.After(start.Add(2*time.Second + time.Second)) {
				t.Fatalf("deadline %v is later than the timeout allows", deadline)
			}
			if stmtCtx.Err() == nil {
				t.Fatal("statement context should be released once the statement returns")
			}
		})
	}
}

func TestStatementTimeoutInsideTransaction(t *testing.T) {
	db, s := openDB(t, 2*time.Second)

	tx := db.WithContext(context.Background()).Begin()
	defer tx.Rollback()
	if err := tx.Create(&widget{Name: "a"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := s.last(t).Deadline(); !ok {
		t.Fatal("statement in a transaction ran without a deadline")
	}
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestStatementTimeoutKeepsEarlierDeadline(t *testing.T) {
	db, s := openDB(t, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	parent, _ := ctx.Deadline()

	if err := db.WithContext(ctx).Create(&widget{Name: "a"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	deadline, ok := s.last(t).Deadline()
	if !ok {
		t.Fatal("statement ran without a deadline")
	}
	if deadline.After(parent) {
		t.Fatalf("deadline %v is later than the caller's %v", deadline, parent)
	}
}

func TestStatementTimeoutDisabled(t *testing.T) {
	db, s := openDB(t, 0)

	if err := db.WithContext(context.Background()).Create(&widget{Name: "a"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := s.last(t).Deadline(); ok {
		t.Fatal("a zero timeout should leave the context alone")
	}
}
