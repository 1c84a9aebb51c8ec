// Package testutil holds shared fixtures for package tests: an in-memory
// database, seeded users and fakes for the external collaborators.
package testutil

import (
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"neuropharm-backend/config"
	"neuropharm-backend/internal/domain/entity"
	"neuropharm-backend/internal/infrastructure/database"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a fresh in-memory sqlite database named after the test,
// bounds its statements like production does and migrates every table. It is closed when the test ends.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.Use(database.NewStatementTimeout(Config().Upstream.Timeout)); err != nil {
		t.Fatalf("statement timeout: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.CareRelationship{},
		&entity.GeneticProfile{},
		&entity.Evaluation{},
		&entity.Report{},
		&entity.ChatHistory{},
		&entity.AuditLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Logger returns a logger that discards everything
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// Config returns a configuration suitable for usecase tests
func Config() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Env:                "test",
			UploadMaxBytes:     1 << 20,
			ChatRatePerMinute:  60,
			AnalysisPrefixSize: 5000,
		},
		JWT: config.JWTConfig{
			Secret:        "test-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: time.Hour,
		},
		Storage: config.StorageConfig{
			Driver:        "memory",
			BucketGenetic: "vcf-files",
			BucketReports: "reportes",
		},
		OpenAI: config.OpenAIConfig{
			ModelAnalysis: "analysis-model",
			ModelChat:     "chat-model",
		},
		Upstream: config.UpstreamConfig{
			Timeout: 5 * time.Second,
		},
	}
}

// Count returns the number of rows of model's table
func Count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
