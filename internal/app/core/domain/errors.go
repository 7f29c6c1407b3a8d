package domain

import "errors"

var (
	// ErrCustomerNotFound 找不到客戶
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrInvalidAmount 金額必須為正數 (或格式/精度不合法)
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrBalanceOverflow 存款後餘額超出可表示範圍
	ErrBalanceOverflow = errors.New("balance would overflow")

	// ErrInvalidTransactionType 未知的交易類型
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrJournalWriteFailed 寫入交易日誌失敗
	ErrJournalWriteFailed = errors.New("journal write failed")
)
