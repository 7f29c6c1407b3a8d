package memory

import (
	"time"

	"github.com/JoeShih716/go-savings-ledger/pkg/journal"
)

type options struct {
	now     func() time.Time
	journal *journal.Journal
}

// Option 定義記憶體帳本的配置選項函數
type Option func(*options)

// WithClock 設定交易時間來源 (測試用)
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithJournal 設定稽核日誌，每筆成功入帳的交易都會先寫入日誌
func WithJournal(j *journal.Journal) Option {
	return func(o *options) {
		o.journal = j
	}
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
