package database

import (
	"fmt"
	"strings"

	"github.com/blues/arbigrants/internal/config"
	"github.com/blues/arbigrants/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DSN 拼接 postgres 连接串
func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)
}

// Init 连接数据库，migrate 为 true 时执行自动迁移
func Init(cfg config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	db, err := Open(postgres.Open(DSN(cfg)), cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// Open 使用统一的 gorm 配置打开任意 dialector
func Open(dialector gorm.Dialector, logLevel string) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.Default.LogMode(parseLogLevel(logLevel)),
		NamingStrategy: &schema.NamingStrategy{
			SingularTable: true, // 禁用复数表名
		},
	})
}

// Migrate 自动迁移提交相关的两张表
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.ContractAddressModel{},
		&model.ProjectMetadataModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func parseLogLevel(level string) gormLogger.LogLevel {
	switch strings.ToLower(level) {
	case "info":
		return gormLogger.Info
	case "warn", "warning":
		return gormLogger.Warn
	case "error":
		return gormLogger.Error
	default:
		return gormLogger.Silent
	}
}
