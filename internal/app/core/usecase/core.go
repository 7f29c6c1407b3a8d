package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-savings-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-savings-ledger/internal/appcontext"
)

// CoreUseCase 是核心業務邏輯層，所有異動都經過這裡
type CoreUseCase struct {
	ledger Ledger
}

func NewCoreUseCase(ledger Ledger) *CoreUseCase {
	return &CoreUseCase{
		ledger: ledger,
	}
}

// PostOption 定義存提款的可選參數
type PostOption func(*domain.Transaction)

// WithRefID 設定冪等追蹤號，同一個 RefID 只會入帳一次
func WithRefID(refID uuid.UUID) PostOption {
	return func(t *domain.Transaction) {
		t.RefID = refID
	}
}

// AddCustomer 建立客戶 (名稱是否為空由呼叫端檢查)
func (c *CoreUseCase) AddCustomer(ctx context.Context, name string) (*domain.Customer, error) {
	customer, err := c.ledger.CreateCustomer(ctx, name)
	if err != nil {
		appcontext.LoggerFromContext(ctx).ErrorContext(ctx, "add customer failed", "error", err)
		return nil, err
	}
	appcontext.LoggerFromContext(ctx).InfoContext(ctx, "customer added",
		"customer_id", customer.ID,
		"name", customer.Name,
	)
	return customer, nil
}

// GetCustomers 列出所有客戶
func (c *CoreUseCase) GetCustomers(ctx context.Context) ([]domain.Customer, error) {
	return c.ledger.ListCustomers(ctx)
}

// GetCustomer 取得單一客戶
func (c *CoreUseCase) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	return c.ledger.GetCustomer(ctx, customerID)
}

// Deposit 存款
func (c *CoreUseCase) Deposit(ctx context.Context, customerID int64, amount domain.Amount, opts ...PostOption) (*domain.Transaction, error) {
	return c.post(ctx, domain.TransactionTypeDeposit, customerID, amount, opts)
}

// Withdraw 提款
func (c *CoreUseCase) Withdraw(ctx context.Context, customerID int64, amount domain.Amount, opts ...PostOption) (*domain.Transaction, error) {
	return c.post(ctx, domain.TransactionTypeWithdraw, customerID, amount, opts)
}

// GetTransactions 取得客戶交易紀錄 (由新到舊)
func (c *CoreUseCase) GetTransactions(ctx context.Context, customerID int64) ([]domain.Transaction, error) {
	return c.ledger.ListTransactions(ctx, customerID)
}

func (c *CoreUseCase) post(ctx context.Context, txType domain.TransactionType, customerID int64, amount domain.Amount, opts []PostOption) (*domain.Transaction, error) {
	tran := &domain.Transaction{
		CustomerID: customerID,
		Amount:     amount,
		Type:       txType,
	}
	for _, opt := range opts {
		opt(tran)
	}

	logger := appcontext.LoggerFromContext(ctx).With(
		"type", txType.String(),
		"customer_id", customerID,
		"amount", amount.String(),
	)

	if err := c.ledger.PostTransaction(ctx, tran); err != nil {
		if isRejection(err) {
			logger.WarnContext(ctx, "transaction rejected", "reason", err)
		} else {
			logger.ErrorContext(ctx, "transaction failed", "error", err)
		}
		return nil, err
	}

	logger.InfoContext(ctx, "transaction posted",
		"transaction_id", tran.ID,
		"running_balance", tran.RunningBalance.String(),
	)
	return tran, nil
}

// isRejection 業務規則拒絕 (非系統錯誤)
func isRejection(err error) bool {
	return errors.Is(err, domain.ErrCustomerNotFound) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInsufficientBalance) ||
		errors.Is(err, domain.ErrBalanceOverflow) ||
		errors.Is(err, domain.ErrInvalidTransactionType)
}
