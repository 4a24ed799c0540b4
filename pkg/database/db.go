package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"acompanhamento-obras/config"
	"acompanhamento-obras/internal/model"
)

// NewDB abre a conexão conforme db.driver (postgres ou sqlite) e aplica o
// esquema: migrações versionadas no PostgreSQL, AutoMigrate no SQLite.
func NewDB(cfg *config.DatabaseConfig, logCfg *config.LogConfig, logger *zap.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel(logCfg)),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg.SQLitePath)), gormCfg)
	default:
		db, err = gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar no banco: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("falha ao obter sql.DB: %w", err)
	}

	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 10
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 5
	}
	if cfg.Driver == config.DriverSQLite {
		// um único escritor evita "database is locked"
		maxOpen, maxIdle = 1, 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping no banco falhou: %w", err)
	}

	if cfg.Driver == config.DriverSQLite {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		logger.Info("banco SQLite pronto", zap.String("path", cfg.SQLitePath))
		return db, nil
	}

	if err := RunMigrations(sqlDB, logger); err != nil {
		return nil, err
	}
	logger.Info("banco PostgreSQL pronto",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.Name),
	)
	return db, nil
}

// AutoMigrate cria ou ajusta as tabelas a partir dos modelos.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("falha no AutoMigrate: %w", err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if path == "" || path == ":memory:" {
		return "file::memory:?cache=shared&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

func gormLogLevel(cfg *config.LogConfig) gormlogger.LogLevel {
	if cfg == nil {
		return gormlogger.Warn
	}
	lvl, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return gormlogger.Warn
	}
	switch {
	case lvl <= zapcore.DebugLevel:
		return gormlogger.Info
	case lvl <= zapcore.WarnLevel:
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}
