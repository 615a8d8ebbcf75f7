package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/hashfx/techblog/internal/logger"
	"github.com/hashfx/techblog/config"
	"github.com/hashfx/techblog/models"
)

// MySQL wraps the gorm connection used by the sql repositories.
type MySQL struct {
	DB *gorm.DB
}

// NewMySQL opens the pool, tunes it, pings with a timeout and migrates the blog tables.
func NewMySQL(ctx context.Context, cfg config.MySQLConfig) (*MySQL, error) {
	gdb, err := gorm.Open(mysql.Open(BuildDSN(cfg)), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("mysql open: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if d := parseDuration(cfg.ConnMaxLifetime); d > 0 {
		sqlDB.SetConnMaxLifetime(d)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}

	if err := gdb.WithContext(ctx).AutoMigrate(&models.Post{}, &models.Contact{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("mysql automigrate: %w", err)
	}
	logger.InfoWithFields("MySQL connected and tables migrated", logger.Fields{"database": cfg.Database, "host": cfg.Host})

	return &MySQL{DB: gdb}, nil
}

func (m *MySQL) Ping(ctx context.Context) error {
	sqlDB, err := m.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (m *MySQL) Close(context.Context) error {
	sqlDB, err := m.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// BuildDSN formats user:pass@tcp(host:port)/dbname?params for go-sql-driver/mysql.
func BuildDSN(cfg config.MySQLConfig) string {
	creds := cfg.User
	if cfg.Password != "" {
		creds = fmt.Sprintf("%s:%s", cfg.User, cfg.Password)
	}
	addr := fmt.Sprintf("tcp(%s:%d)", cfg.Host, cfg.Port)

	params := make([]string, 0, 6)
	if cfg.Charset != "" {
		params = append(params, "charset="+cfg.Charset)
	}
	params = append(params, "parseTime=true")
	if cfg.Loc != "" {
		params = append(params, "loc="+url.QueryEscape(cfg.Loc))
	}
	params = append(params, "timeout=5s", "readTimeout=5s", "writeTimeout=5s")

	return fmt.Sprintf("%s@%s/%s?%s", creds, addr, cfg.Database, strings.Join(params, "&"))
}

// parseDuration returns 0 on empty or invalid duration strings.
func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
