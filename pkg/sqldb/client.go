// Package sqldb 封裝 GORM 與行程內 (in-memory) 的 SQLite 資料庫。
// 資料庫只存在於記憶體，行程結束即消失。
package sqldb

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Client 封裝 GORM DB 實例
type Client struct {
	db *gorm.DB
}

// NewClient 建立並回傳一個新的 SQLite 客戶端實例 (GORM)
//
// 參數:
//
//	cfg: Config - 資料庫配置
//
// 回傳值:
//
//	*Client: 封裝後的客戶端
//	error: 若開啟失敗則回傳錯誤
func NewClient(cfg Config) (*Client, error) {
	if cfg.Name == "" {
		cfg.Name = "ledger-" + uuid.NewString()
	}

	gormConfig := &gorm.Config{
		// 預設跳過事務模式，需要原子性的地方自行開 Transaction
		SkipDefaultTransaction: true,
		Logger:                 newLogger(cfg.LogLevel),
	}

	db, err := gorm.Open(sqlite.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", cfg.Name, err)
	}

	// 取得底層 sql.DB 物件以設定連線池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.db: %w", err)
	}

	// 記憶體資料庫只要最後一條連線關閉就會消失，且 SQLite 同時只允許一個寫入者
	// 固定單一長連線，所有交易自然序列化
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite ping failed: %w", err)
	}

	return &Client{db: db}, nil
}

// DB 回傳底層的 *gorm.DB 實例，供 adapter 使用
func (c *Client) DB() *gorm.DB {
	return c.db
}

// Close 關閉資料庫連線 (記憶體資料庫隨之釋放)
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// newLogger 根據配置建立 GORM Logger
func newLogger(level string) logger.Interface {
	var logLevel logger.LogLevel
	switch level {
	case "info":
		logLevel = logger.Info
	case "warn":
		logLevel = logger.Warn
	case "error":
		logLevel = logger.Error
	case "silent":
		logLevel = logger.Silent
	default:
		logLevel = logger.Error // 預設只記錄錯誤
	}

	return logger.Default.LogMode(logLevel)
}
