package usecase

import (
	"context"

	"github.com/JoeShih716/go-savings-ledger/internal/app/core/domain"
)

// Ledger 是帳務系統的介面，每個實作各自持有客戶與交易狀態
type Ledger interface {
	// CreateCustomer 建立客戶，ID 依序配發，初始餘額 0
	CreateCustomer(ctx context.Context, name string) (*domain.Customer, error)
	// ListCustomers 依建立順序列出所有客戶
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	// GetCustomer 取得單一客戶
	GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error)
	// 不分 Deposit/Withdraw，直接看 tran.Type 決定
	// 成功時由帳本填入 ID、RunningBalance、DateAdded
	PostTransaction(ctx context.Context, tran *domain.Transaction) error
	// ListTransactions 列出客戶的交易，由新到舊
	ListTransactions(ctx context.Context, customerID int64) ([]domain.Transaction, error)
}
