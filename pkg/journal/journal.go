// Package journal 提供只追加 (append-only) 的 JSON Lines 稽核日誌。
// 日誌只寫不重放：帳本狀態仍然只存在記憶體中。
//
// 每次 Open 都會產生新的 run id 並先寫入一筆 KindOpen 紀錄，
// 之後的每筆資料都帶著同一個 run id 與從 1 開始的序號。
// 帳本的交易序號在每次啟動時重新計算，因此跨次啟動的紀錄要以 run id 區分。
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// rw-r--r-- (擁有者讀寫，其他人唯讀)
const FileModeReadOnly fs.FileMode = 0644

const (
	KindOpen   = "open"
	KindRecord = "record"
)

// Entry 日誌中的一行
type Entry struct {
	Run    uuid.UUID       `json:"run"`
	Seq    int64           `json:"seq"`
	At     time.Time       `json:"at"`
	Kind   string          `json:"kind"`
	Record json.RawMessage `json:"record,omitempty"`
}

type Journal struct {
	file *os.File
	mu   sync.Mutex

	run uuid.UUID
	seq int64
	now func() time.Time
}

type options struct {
	truncate bool
	now      func() time.Time
}

type Option func(*options)

// WithTruncate 開啟時清空既有內容
func WithTruncate() Option {
	return func(o *options) {
		o.truncate = true
	}
}

// WithClock 設定紀錄時間來源 (測試用)
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Open 開啟或建立一個日誌檔案，並寫入本次執行的 open 紀錄
// O_APPEND 每次寫入時自動跳到文件末尾
// O_CREATE 如果文件不存在則建立
func Open(path string, opts ...Option) (*Journal, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	flag := os.O_APPEND | os.O_CREATE | os.O_WRONLY
	if o.truncate {
		flag |= os.O_TRUNC
	}
	file, err := os.OpenFile(path, flag, FileModeReadOnly)
	if err != nil {
		return nil, err
	}

	j := &Journal{
		file: file,
		run:  uuid.New(),
		now:  o.now,
	}
	if err := j.append(Entry{Kind: KindOpen}); err != nil {
		file.Close()
		return nil, fmt.Errorf("write open entry: %w", err)
	}
	return j, nil
}

// Run 本次開啟的 run id
func (j *Journal) Run() uuid.UUID {
	return j.run
}

// Write 寫入一筆資料並刷入硬碟
func (j *Journal) Write(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return j.append(Entry{Kind: KindRecord, Record: raw})
}

func (j *Journal) append(e Entry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	e.Run = j.run
	e.Seq = j.seq + 1
	e.At = j.now().UTC()
	if err := json.NewEncoder(j.file).Encode(&e); err != nil {
		return err
	}
	if err := j.file.Sync(); err != nil {
		return err
	}
	j.seq = e.Seq
	return nil
}

// Close 關閉檔案
func (j *Journal) Close() error {
	return j.file.Close()
}

// ReadFile 依序讀取日誌檔中的所有紀錄
// callback 一次收到一筆，避免一次將所有資料載入記憶體
func ReadFile(path string, callback func(e Entry) error) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	for {
		var e Entry
		if err := decoder.Decode(&e); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := callback(e); err != nil {
			return err
		}
	}
}
