package domain

import (
	"errors"
	"math"
	"testing"
)

func TestCustomerDepositWithdraw(t *testing.T) {
	c := NewCustomer(1, "Ama")
	if c.CurrentBalance != 0 {
		t.Fatalf("new customer balance=%d want 0", c.CurrentBalance)
	}

	if err := c.Deposit(5000); err != nil {
		t.Fatal(err)
	}
	if err := c.Withdraw(2000); err != nil {
		t.Fatal(err)
	}
	if c.CurrentBalance != 3000 {
		t.Fatalf("balance=%d want 3000", c.CurrentBalance)
	}

	if err := c.Withdraw(100000); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("want ErrInsufficientBalance, got %v", err)
	}
	if err := c.Deposit(-500); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	if err := c.Withdraw(0); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	// 失敗不得改變餘額
	if c.CurrentBalance != 3000 {
		t.Fatalf("balance changed on rejection: %d", c.CurrentBalance)
	}
}

func TestCustomerDepositOverflow(t *testing.T) {
	c := NewCustomer(1, "Ama")
	c.CurrentBalance = math.MaxInt64 - 10

	if err := c.Deposit(11); !errors.Is(err, ErrBalanceOverflow) {
		t.Fatalf("want ErrBalanceOverflow, got %v", err)
	}
	if c.CurrentBalance != math.MaxInt64-10 {
		t.Fatalf("balance changed on rejection: %d", c.CurrentBalance)
	}
	if err := c.Deposit(10); err != nil {
		t.Fatalf("deposit up to the limit: %v", err)
	}
	if c.CurrentBalance != math.MaxInt64 {
		t.Fatalf("balance=%d want MaxInt64", c.CurrentBalance)
	}
}

func TestCustomerApplyUnknownType(t *testing.T) {
	c := NewCustomer(1, "Ama")
	if err := c.Apply(&Transaction{Amount: 100, Type: 9}); !errors.Is(err, ErrInvalidTransactionType) {
		t.Fatalf("want ErrInvalidTransactionType, got %v", err)
	}
}

func TestSortNewestFirst(t *testing.T) {
	trans := []Transaction{{ID: 1}, {ID: 3}, {ID: 2}}
	SortNewestFirst(trans)
	for i, want := range []int64{3, 2, 1} {
		if trans[i].ID != want {
			t.Fatalf("trans[%d].ID=%d want %d", i, trans[i].ID, want)
		}
	}
}
