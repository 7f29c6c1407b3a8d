package sqldb

// Config 定義記憶體 SQLite 資料庫的配置
type Config struct {
	// Name 資料庫名稱，空字串時每個 Client 使用隨機名稱 (互不共享)
	Name string `yaml:"name"`

	// GORM 設定
	LogLevel string `yaml:"log_level"` // Log 等級: "silent", "error", "warn", "info"
}

// DSN (Data Source Name) 產生連線字串
// 格式: file:<name>?mode=memory&cache=shared
func (c *Config) DSN() string {
	return "file:" + c.Name + "?mode=memory&cache=shared"
}
