package database

import (
	"fmt"
	"time"

	"github.com/Jeshoorin/Gym-Suggestions/utils"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

// DB is nil when no database client is configured; callers treat that as
// recording being disabled.
var DB *gorm.DB

const (
	ClientMysql  = "mysql"
	ClientSqlite = "sqlite3"
)

func InitDatabasePool() error {
	cfg := utils.EnvConfig.Database
	if cfg.Client == "" {
		return nil
	}

	var dsn string
	switch cfg.Client {
	case ClientMysql:
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Db, cfg.Params)
	case ClientSqlite:
		dsn = cfg.Db
	default:
		return fmt.Errorf("unsupported database client %q", cfg.Client)
	}

	db, err := gorm.Open(cfg.Client, dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", cfg.Client, err)
	}
	if cfg.MaxIdle > 0 {
		db.DB().SetMaxIdleConns(int(cfg.MaxIdle))
	}
	if cfg.MaxOpenConn > 0 {
		db.DB().SetMaxOpenConns(int(cfg.MaxOpenConn))
	}
	if cfg.MaxLifeTime != "" {
		if lifetime, err := time.ParseDuration(cfg.MaxLifeTime); err == nil {
			db.DB().SetConnMaxLifetime(lifetime)
		}
	}
	db.LogMode(cfg.LogEnable == 1)

	DB = db
	return nil
}

// Migrate creates the tables for models when they are missing.
func Migrate(models ...interface{}) error {
	if DB == nil {
		return nil
	}
	return DB.AutoMigrate(models...).Error
}

func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}
