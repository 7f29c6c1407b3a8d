// Package config 載入服務設定：YAML 檔案 + 預設值 + LEDGER_* 環境變數覆寫。
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-savings-ledger/pkg/sqldb"
)

const (
	EngineMutex     = "mutex"
	EngineSequencer = "sequencer"
	EngineSQLite    = "sqlite"
)

const (
	defaultEngine     = EngineMutex
	defaultBufferSize = 1000
	defaultGRPCAddr   = ":50051"
	defaultHTTPAddr   = ":8080"
	defaultLogLevel   = "info"
	defaultLogFormat  = "text"
	defaultSQLLogLvl  = "silent"

	envEngine     = "LEDGER_ENGINE"
	envJournal    = "LEDGER_JOURNAL"
	envTruncate   = "LEDGER_JOURNAL_TRUNCATE"
	envBufferSize = "LEDGER_BUFFER_SIZE"
	envGRPCAddr   = "LEDGER_GRPC_ADDR"
	envHTTPAddr   = "LEDGER_HTTP_ADDR"
	envLogLevel   = "LEDGER_LOG_LEVEL"
	envLogFormat  = "LEDGER_LOG_FORMAT"
)

type Config struct {
	Ledger LedgerConfig `yaml:"ledger"`
	GRPC   ServerConfig `yaml:"grpc"`
	HTTP   ServerConfig `yaml:"http"`
	SQL    sqldb.Config `yaml:"sql"`
	Log    LogConfig    `yaml:"log"`
}

type LedgerConfig struct {
	// Engine mutex | sequencer | sqlite
	Engine string `yaml:"engine"`
	// Journal 稽核日誌路徑，空字串代表不寫
	Journal string `yaml:"journal"`
	// JournalTruncate 啟動時清空稽核日誌，否則以 run id 區分每次啟動
	JournalTruncate bool `yaml:"journal_truncate"`
	// BufferSize sequencer 指令佇列長度
	BufferSize int `yaml:"buffer_size"`
}

type ServerConfig struct {
	// Addr 監聽位址，空字串代表不啟動
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load 讀取設定檔並補上預設值
//
// 參數:
//
//	path: string - YAML 設定檔路徑，檔案不存在時只使用預設值
//
// 回傳值:
//
//	*Config: 設定
//	error: 讀檔、解析或驗證失敗
func Load(path string) (*Config, error) {
	cfg := &Config{
		GRPC: ServerConfig{Addr: defaultGRPCAddr},
		HTTP: ServerConfig{Addr: defaultHTTPAddr},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Ledger.Engine == "" {
		cfg.Ledger.Engine = defaultEngine
	}
	if cfg.Ledger.BufferSize <= 0 {
		cfg.Ledger.BufferSize = defaultBufferSize
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaultLogFormat
	}
	if cfg.SQL.LogLevel == "" {
		cfg.SQL.LogLevel = defaultSQLLogLvl
	}
}

func applyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(envEngine); ok {
		cfg.Ledger.Engine = v
	}
	if v, ok := os.LookupEnv(envJournal); ok {
		cfg.Ledger.Journal = v
	}
	if v, ok := os.LookupEnv(envTruncate); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", envTruncate, v, err)
		}
		cfg.Ledger.JournalTruncate = b
	}
	if v, ok := os.LookupEnv(envBufferSize); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", envBufferSize, v, err)
		}
		cfg.Ledger.BufferSize = n
	}
	if v, ok := os.LookupEnv(envGRPCAddr); ok {
		cfg.GRPC.Addr = v
	}
	if v, ok := os.LookupEnv(envHTTPAddr); ok {
		cfg.HTTP.Addr = v
	}
	if v, ok := os.LookupEnv(envLogLevel); ok {
		cfg.Log.Level = v
	}
	if v, ok := os.LookupEnv(envLogFormat); ok {
		cfg.Log.Format = v
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Ledger.Engine {
	case EngineMutex, EngineSequencer, EngineSQLite:
	default:
		return fmt.Errorf("unknown ledger engine %q", c.Ledger.Engine)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.GRPC.Addr == "" && c.HTTP.Addr == "" {
		return errors.New("at least one of grpc.addr and http.addr must be set")
	}
	return nil
}

// NewLogger 依 log 設定建立 slog.Logger
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Log.Level)
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
