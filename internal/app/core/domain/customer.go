package domain

import "math"

// Customer 客戶，餘額只能透過 Deposit/Withdraw 改變
type Customer struct {
	ID             int64
	Name           string
	CurrentBalance Amount
}

func NewCustomer(id int64, name string) *Customer {
	return &Customer{
		ID:   id,
		Name: name,
	}
}

// Deposit 存款
func (c *Customer) Deposit(amount Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount > math.MaxInt64-c.CurrentBalance {
		return ErrBalanceOverflow
	}

	c.CurrentBalance = c.CurrentBalance + amount
	return nil
}

// Withdraw 提款，不允許透支
func (c *Customer) Withdraw(amount Amount) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	if c.CurrentBalance < amount {
		return ErrInsufficientBalance
	}

	c.CurrentBalance = c.CurrentBalance - amount
	return nil
}

// Apply 依交易類型套用到餘額上
func (c *Customer) Apply(tran *Transaction) error {
	switch tran.Type {
	case TransactionTypeDeposit:
		return c.Deposit(tran.Amount)
	case TransactionTypeWithdraw:
		return c.Withdraw(tran.Amount)
	default:
		return ErrInvalidTransactionType
	}
}
