package sqldb

import "testing"

func TestNewClientIsolatedDatabases(t *testing.T) {
	type row struct {
		ID   int64 `gorm:"primaryKey"`
		Note string
	}

	c1, err := NewClient(Config{LogLevel: "silent"})
	if err != nil {
		t.Fatalf("NewClient err=%v", err)
	}
	defer c1.Close()
	c2, err := NewClient(Config{LogLevel: "silent"})
	if err != nil {
		t.Fatalf("NewClient err=%v", err)
	}
	defer c2.Close()

	if err := c1.DB().AutoMigrate(&row{}); err != nil {
		t.Fatal(err)
	}
	if err := c2.DB().AutoMigrate(&row{}); err != nil {
		t.Fatal(err)
	}
	if err := c1.DB().Create(&row{Note: "only in c1"}).Error; err != nil {
		t.Fatal(err)
	}

	var count int64
	if err := c2.DB().Model(&row{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("unnamed clients share data: count=%d", count)
	}
}

func TestConfigDSN(t *testing.T) {
	cfg := Config{Name: "ledger"}
	if got := cfg.DSN(); got != "file:ledger?mode=memory&cache=shared" {
		t.Fatalf("DSN()=%s", got)
	}
}
