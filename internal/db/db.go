package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/offerpath/offerpath-backend/internal/domain"
	"github.com/offerpath/offerpath-backend/internal/platform/logger"
	"github.com/offerpath/offerpath-backend/internal/utils"
)

// Service owns the gorm handle. SQLite is the default driver so the app runs
// with zero external infrastructure; Postgres is selected with DB_DRIVER.
type Service struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewService(log *logger.Logger) (*Service, error) {
	serviceLog := log.With("service", "DBService")

	driver := utils.GetEnv("DB_DRIVER", "sqlite", log)
	cfg := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	}

	var (
		gdb *gorm.DB
		err error
	)
	switch driver {
	case "postgres":
		host := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		port := utils.GetEnv("POSTGRES_PORT", "5432", log)
		user := utils.GetEnv("POSTGRES_USER", "postgres", log)
		password := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		name := utils.GetEnv("POSTGRES_NAME", "offerpath", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)
		serviceLog.Info("connecting to postgres", "host", host, "db", name)
		gdb, err = gorm.Open(postgres.Open(dsn), cfg)
	case "sqlite":
		path := utils.GetEnv("SQLITE_PATH", "offerpath.db", log)
		serviceLog.Info("opening sqlite database", "path", path)
		gdb, err = gorm.Open(sqlite.Open(path), cfg)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
	if err != nil {
		serviceLog.Error("failed to open database", "driver", driver, "error", err)
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) DB() *gorm.DB { return s.db }

// AutoMigrateAll creates or updates the schema. Called explicitly from the
// process entry point, never as an import side effect.
func (s *Service) AutoMigrateAll() error {
	s.log.Info("running schema migration")
	return AutoMigrate(s.db)
}

func AutoMigrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&domain.Job{},
		&domain.ResumeSource{},
		&domain.JobAnalysis{},
		&domain.JobAssets{},
		&domain.PracticeSession{},
		&domain.CodingSession{},
		&domain.Profile{},
		&domain.AppSetting{},
	)
}
