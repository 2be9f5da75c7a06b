package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/offerpath/offerpath-backend/internal/db"
	"github.com/offerpath/offerpath-backend/internal/domain"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
)

// DB opens a fresh in-memory sqlite database with the full schema migrated.
// Each call returns an isolated database, so tests never share state.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// Logger returns a logger suitable for tests.
func Logger(tb testing.TB) *logger.Logger {
	tb.Helper()
	log, err := logger.New("test")
	if err != nil {
		tb.Fatalf("init logger: %v", err)
	}
	return log
}

// SeedJob inserts a job row with the given JD text and returns it.
func SeedJob(tb testing.TB, gdb *gorm.DB, jdText string) *domain.Job {
	tb.Helper()
	now := time.Now().UTC()
	job := &domain.Job{
		ID:        uuid.New(),
		Title:     "Backend Engineer",
		Company:   "Acme",
		JDText:    jdText,
		Status:    "Saved",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := gdb.Create(job).Error; err != nil {
		tb.Fatalf("seed job: %v", err)
	}
	return job
}

// SeedResume inserts a resume source row and returns it.
func SeedResume(tb testing.TB, gdb *gorm.DB, rawText string, parsed []byte) *domain.ResumeSource {
	tb.Helper()
	rs := &domain.ResumeSource{
		ID:         uuid.New(),
		FilePath:   "resume.txt",
		RawText:    rawText,
		ParsedJSON: parsed,
		CreatedAt:  time.Now().UTC(),
	}
	if err := gdb.Create(rs).Error; err != nil {
		tb.Fatalf("seed resume: %v", err)
	}
	return rs
}
