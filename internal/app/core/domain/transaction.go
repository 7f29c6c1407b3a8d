package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// TransactionType 交易類型
type TransactionType uint8

const (
	// 存款
	TransactionTypeDeposit TransactionType = 1
	// 提款
	TransactionTypeWithdraw TransactionType = 2
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeDeposit:
		return "deposit"
	case TransactionTypeWithdraw:
		return "withdraw"
	default:
		return "unknown"
	}
}

// Transaction 交易紀錄，建立後不可變更
type Transaction struct {
	// ID: 全局唯一的順序號 (由帳本分配，1, 2, 3...)
	ID         int64
	CustomerID int64
	// Amount: 異動金額，永遠為正
	Amount Amount
	// RunningBalance: 套用本筆交易後的客戶餘額快照
	RunningBalance Amount
	// DateAdded: 帳本記錄時間
	DateAdded time.Time
	// RefID: 外部追蹤號 (UUID)，uuid.Nil 表示不做冪等檢查
	RefID uuid.UUID
	Type  TransactionType
}

// IsDeposit 是否為存款 (入帳)
func (t *Transaction) IsDeposit() bool {
	return t.Type == TransactionTypeDeposit
}

// Validate 帳本寫入前的基本檢查 (不含餘額檢查)
func (t *Transaction) Validate() error {
	if t.Type != TransactionTypeDeposit && t.Type != TransactionTypeWithdraw {
		return ErrInvalidTransactionType
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// HasRefID 是否帶有冪等追蹤號
func (t *Transaction) HasRefID() bool {
	return t.RefID != uuid.Nil
}

// SortNewestFirst 依交易序號由新到舊排序
// ID 單調遞增且不重複，時間戳可能相同，所以不用 DateAdded 排序
func SortNewestFirst(trans []Transaction) {
	slices.SortFunc(trans, func(a, b Transaction) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})
}
