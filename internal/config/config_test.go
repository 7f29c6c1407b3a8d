package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ledger.Engine != EngineMutex {
		t.Errorf("engine=%q want %q", cfg.Ledger.Engine, EngineMutex)
	}
	if cfg.Ledger.BufferSize != defaultBufferSize {
		t.Errorf("buffer=%d want %d", cfg.Ledger.BufferSize, defaultBufferSize)
	}
	if cfg.GRPC.Addr != defaultGRPCAddr || cfg.HTTP.Addr != defaultHTTPAddr {
		t.Errorf("addrs=%q %q", cfg.GRPC.Addr, cfg.HTTP.Addr)
	}
	if cfg.Ledger.Journal != "" {
		t.Errorf("journal=%q want empty", cfg.Ledger.Journal)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
ledger:
  engine: sequencer
  journal: /tmp/j.log
  journal_truncate: true
  buffer_size: 64
grpc:
  addr: ":9000"
http:
  addr: ""
sql:
  name: test
log:
  level: debug
  format: json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ledger.Engine != EngineSequencer || cfg.Ledger.BufferSize != 64 || cfg.Ledger.Journal != "/tmp/j.log" || !cfg.Ledger.JournalTruncate {
		t.Errorf("ledger=%+v", cfg.Ledger)
	}
	if cfg.GRPC.Addr != ":9000" || cfg.HTTP.Addr != "" {
		t.Errorf("grpc=%q http=%q", cfg.GRPC.Addr, cfg.HTTP.Addr)
	}
	if cfg.SQL.Name != "test" || cfg.SQL.LogLevel != defaultSQLLogLvl {
		t.Errorf("sql=%+v", cfg.SQL)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "ledger:\n  engine: mutex\n")
	t.Setenv(envEngine, "sqlite")
	t.Setenv(envBufferSize, "8")
	t.Setenv(envHTTPAddr, ":18080")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ledger.Engine != EngineSQLite || cfg.Ledger.BufferSize != 8 || cfg.HTTP.Addr != ":18080" {
		t.Errorf("cfg=%+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "unknown engine", body: "ledger:\n  engine: redis\n"},
		{name: "bad level", body: "log:\n  level: loud\n"},
		{name: "bad format", body: "log:\n  format: xml\n"},
		{name: "no listeners", body: "grpc:\n  addr: \"\"\nhttp:\n  addr: \"\"\n"},
		{name: "bad yaml", body: "ledger: [\n"},
		{name: "bad buffer env", env: map[string]string{envBufferSize: "many"}},
		{name: "bad truncate env", env: map[string]string{envTruncate: "sometimes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(writeConfig(t, tt.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{Log: LogConfig{Level: "warn", Format: "json"}}
	logger := cfg.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("expected json warn line, got %s", out)
	}
}

func TestShippedConfigDisablesJournal(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Ledger.Journal != "" || cfg.Ledger.JournalTruncate {
		t.Errorf("shipped journal=%q truncate=%v want disabled", cfg.Ledger.Journal, cfg.Ledger.JournalTruncate)
	}
}
