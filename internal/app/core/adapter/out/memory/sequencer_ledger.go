package memory

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/JoeShih716/go-savings-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-savings-ledger/internal/app/core/usecase"
)

// ErrSequencerStopped 核心迴圈已停止，不再接受指令
var ErrSequencerStopped = errors.New("sequencer stopped")

// 指令狀態：pending 只會轉成 running (迴圈取得) 或 abandoned (呼叫端放棄) 其中之一
const (
	commandPending int32 = iota
	commandRunning
	commandAbandoned
)

// command 指令包裝，讓呼叫端可以等待迴圈執行完成
type command struct {
	apply func(b *book)
	done  chan struct{}
	state atomic.Int32
}

// SequencerLedger 單一寫入者 (LMAX 風格) 帳本
// 所有讀寫都排進同一條輸送帶，由單一 goroutine 依序執行，book 不需要鎖
type SequencerLedger struct {
	book *book
	// 輸送帶 負責接收指令
	commandChan chan *command
	// Pool 減少 GC 壓力
	commandPool sync.Pool

	startOnce sync.Once
	stopped   chan struct{}
}

// NewSequencerLedger 建立一個新的 SequencerLedger 實例
// 必須呼叫 Start 之後才會開始處理指令
//
// 參數:
//
//	bufferSize: 輸送帶緩衝大小，<= 0 時使用 1000
//	opts: 可選配置 (WithClock, WithJournal)
func NewSequencerLedger(bufferSize int, opts ...Option) *SequencerLedger {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	return &SequencerLedger{
		book:        newBook(newOptions(opts)),
		commandChan: make(chan *command, bufferSize),
		commandPool: sync.Pool{
			New: func() interface{} {
				return &command{
					done: make(chan struct{}, 1),
				}
			},
		},
		stopped: make(chan struct{}),
	}
}

// Start 啟動核心引擎 (非同步)，ctx 取消後處理完剩餘指令即停止
func (l *SequencerLedger) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		go l.run(ctx)
	})
}

// Done 迴圈停止後關閉
func (l *SequencerLedger) Done() <-chan struct{} {
	return l.stopped
}

func (l *SequencerLedger) run(ctx context.Context) {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			// 收到關閉信號，把剩下的指令處理完
			l.drain()
			return
		case cmd := <-l.commandChan:
			l.execute(cmd)
		}
	}
}

func (l *SequencerLedger) drain() {
	for {
		select {
		case cmd := <-l.commandChan:
			l.execute(cmd)
		default:
			return
		}
	}
}

func (l *SequencerLedger) execute(cmd *command) {
	// 呼叫端已放棄的指令不執行
	if !cmd.state.CompareAndSwap(commandPending, commandRunning) {
		return
	}
	cmd.apply(l.book)
	cmd.done <- struct{}{}
}

// submit 放入輸送帶並等待執行完成
// PostTransaction(等待) -> Channel -> Run Loop (核心) -> Journal -> Map Update -> done -> PostTransaction(收到結果)
func (l *SequencerLedger) submit(ctx context.Context, apply func(b *book)) error {
	cmd := l.commandPool.Get().(*command)
	cmd.apply = apply
	cmd.state.Store(commandPending)

	select {
	case l.commandChan <- cmd:
	case <-l.stopped:
		l.release(cmd)
		return ErrSequencerStopped
	case <-ctx.Done():
		l.release(cmd)
		return ctx.Err()
	}

	select {
	case <-cmd.done:
		l.release(cmd)
		return nil
	case <-l.stopped:
		// drain 期間已執行的指令會先送出 done 才關閉 stopped
		select {
		case <-cmd.done:
			l.release(cmd)
			return nil
		default:
			return ErrSequencerStopped
		}
	case <-ctx.Done():
		if cmd.state.CompareAndSwap(commandPending, commandAbandoned) {
			// 迴圈之後取出時會略過；cmd 仍在輸送帶上，不放回 Pool
			return ctx.Err()
		}
		// 迴圈已開始執行，結果必須回給呼叫端
		<-cmd.done
		l.release(cmd)
		return nil
	}
}

func (l *SequencerLedger) release(cmd *command) {
	cmd.apply = nil
	l.commandPool.Put(cmd)
}

// CreateCustomer 建立客戶
func (l *SequencerLedger) CreateCustomer(ctx context.Context, name string) (*domain.Customer, error) {
	var customer domain.Customer
	err := l.submit(ctx, func(b *book) {
		customer = b.createCustomer(name)
	})
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListCustomers 依建立順序列出客戶
func (l *SequencerLedger) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := l.submit(ctx, func(b *book) {
		customers = b.listCustomers()
	})
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer 取得單一客戶
func (l *SequencerLedger) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	var (
		customer domain.Customer
		getErr   error
	)
	err := l.submit(ctx, func(b *book) {
		customer, getErr = b.getCustomer(customerID)
	})
	if err != nil {
		return nil, err
	}
	if getErr != nil {
		return nil, getErr
	}
	return &customer, nil
}

// PostTransaction 接收交易請求
//
// 參數:
//
//	ctx: 上下文
//	tran: 交易請求物件
//
// 回傳:
//
//	error: 處理錯誤
func (l *SequencerLedger) PostTransaction(ctx context.Context, tran *domain.Transaction) error {
	// 在迴圈內操作副本，避免呼叫端因 ctx 取消先行返回時發生 data race
	record := *tran
	var postErr error
	err := l.submit(ctx, func(b *book) {
		postErr = b.post(&record)
	})
	if err != nil {
		return err
	}
	if postErr != nil {
		return postErr
	}
	*tran = record
	return nil
}

// ListTransactions 列出客戶交易 (由新到舊)
func (l *SequencerLedger) ListTransactions(ctx context.Context, customerID int64) ([]domain.Transaction, error) {
	var trans []domain.Transaction
	err := l.submit(ctx, func(b *book) {
		trans = b.listTransactions(customerID)
	})
	if err != nil {
		return nil, err
	}
	return trans, nil
}

var _ usecase.Ledger = (*SequencerLedger)(nil)
