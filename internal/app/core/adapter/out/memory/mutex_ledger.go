package memory

import (
	"context"
	"sync"

	"github.com/JoeShih716/go-savings-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-savings-ledger/internal/app/core/usecase"
)

// MutexLedger 是一個使用 Mutex 實現的帳本
//
// 結構:
//
//	mu: RWMutex，寫入 (建立客戶、入帳) 取寫鎖，查詢取讀鎖
//	book: 帳本狀態
type MutexLedger struct {
	mu   sync.RWMutex
	book *book
}

// NewMutexLedger 建立一個新的 MutexLedger 實例
//
// 參數:
//
//	opts: 可選配置 (WithClock, WithJournal)
//
// 回傳:
//
//	*MutexLedger: MutexLedger 實例
func NewMutexLedger(opts ...Option) *MutexLedger {
	return &MutexLedger{
		book: newBook(newOptions(opts)),
	}
}

// CreateCustomer 建立客戶
func (m *MutexLedger) CreateCustomer(ctx context.Context, name string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	customer := m.book.createCustomer(name)
	return &customer, nil
}

// ListCustomers 依建立順序列出客戶 (值拷貝)
func (m *MutexLedger) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.book.listCustomers(), nil
}

// GetCustomer 取得單一客戶
func (m *MutexLedger) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, err := m.book.getCustomer(customerID)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// PostTransaction 處理交易請求 (Mutex Lock)
//
// 讀取餘額、寫入餘額、追加交易三個步驟在同一個臨界區內完成
//
// 參數:
//
//	ctx: 上下文
//	tran: 交易請求物件，成功時填入 ID、RunningBalance、DateAdded
//
// 回傳:
//
//	error: 處理錯誤 (ErrCustomerNotFound, ErrInvalidAmount, ErrInsufficientBalance)
func (m *MutexLedger) PostTransaction(ctx context.Context, tran *domain.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.book.post(tran)
}

// ListTransactions 列出客戶交易 (由新到舊)
func (m *MutexLedger) ListTransactions(ctx context.Context, customerID int64) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.book.listTransactions(customerID), nil
}

var _ usecase.Ledger = (*MutexLedger)(nil)
