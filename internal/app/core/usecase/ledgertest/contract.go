// Package ledgertest 提供所有 usecase.Ledger 實作共用的行為測試。
package ledgertest

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-savings-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-savings-ledger/internal/app/core/usecase"
)

// FixedTime 測試用的固定時鐘時間
var FixedTime = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

// Factory 建立一個全新的帳本，now 為交易時間來源
type Factory func(t *testing.T, now func() time.Time) usecase.Ledger

// Run 對帳本實作執行完整的行為測試
func Run(t *testing.T, newLedger Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, l usecase.Ledger)
	}{
		{"Scenario", testScenario},
		{"CustomerIDsSequential", testCustomerIDsSequential},
		{"UnknownCustomer", testUnknownCustomer},
		{"RejectionConsumesNoID", testRejectionConsumesNoID},
		{"BalanceEqualsSumOfAccepted", testBalanceEqualsSumOfAccepted},
		{"HistoryFilteredNewestFirst", testHistoryFilteredNewestFirst},
		{"RefIDIdempotent", testRefIDIdempotent},
		{"BalanceOverflowRejected", testBalanceOverflowRejected},
		{"ConcurrentPosts", testConcurrentPosts},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newLedger(t, func() time.Time { return FixedTime }))
		})
	}
}

func post(t *testing.T, l usecase.Ledger, txType domain.TransactionType, customerID int64, amount domain.Amount) (*domain.Transaction, error) {
	t.Helper()
	tran := &domain.Transaction{CustomerID: customerID, Amount: amount, Type: txType}
	if err := l.PostTransaction(context.Background(), tran); err != nil {
		return nil, err
	}
	return tran, nil
}

func mustCustomer(t *testing.T, l usecase.Ledger, name string) *domain.Customer {
	t.Helper()
	c, err := l.CreateCustomer(context.Background(), name)
	if err != nil {
		t.Fatalf("CreateCustomer(%s) err=%v", name, err)
	}
	return c
}

func balance(t *testing.T, l usecase.Ledger, id int64) domain.Amount {
	t.Helper()
	c, err := l.GetCustomer(context.Background(), id)
	if err != nil {
		t.Fatalf("GetCustomer(%d) err=%v", id, err)
	}
	return c.CurrentBalance
}

// testScenario 依序執行 addCustomer / deposit / withdraw / 拒絕 / 查詢
func testScenario(t *testing.T, l usecase.Ledger) {
	ctx := context.Background()

	ama := mustCustomer(t, l, "Ama")
	if ama.ID != 1 || ama.Name != "Ama" || ama.CurrentBalance != 0 {
		t.Fatalf("got=%+v want {1 Ama 0}", ama)
	}

	dep, err := post(t, l, domain.TransactionTypeDeposit, 1, 5000)
	if err != nil {
		t.Fatal(err)
	}
	if dep.ID != 1 || dep.Amount != 5000 || dep.RunningBalance != 5000 || !dep.IsDeposit() {
		t.Fatalf("deposit=%+v", dep)
	}
	if !dep.DateAdded.Equal(FixedTime) {
		t.Fatalf("DateAdded=%v want %v", dep.DateAdded, FixedTime)
	}

	wd, err := post(t, l, domain.TransactionTypeWithdraw, 1, 2000)
	if err != nil {
		t.Fatal(err)
	}
	if wd.ID != 2 || wd.Amount != 2000 || wd.RunningBalance != 3000 || wd.IsDeposit() {
		t.Fatalf("withdraw=%+v", wd)
	}

	if _, err := post(t, l, domain.TransactionTypeWithdraw, 1, 100000); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("want ErrInsufficientBalance, got %v", err)
	}
	if _, err := post(t, l, domain.TransactionTypeDeposit, 1, -500); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	if _, err := post(t, l, domain.TransactionTypeWithdraw, 1, 0); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("want ErrInvalidAmount, got %v", err)
	}
	if got := balance(t, l, 1); got != 3000 {
		t.Fatalf("balance=%d want 3000", got)
	}

	history, err := l.ListTransactions(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 || history[0].ID != 2 || history[1].ID != 1 {
		t.Fatalf("history=%+v want [2 1]", history)
	}

	// 被拒絕的交易不消耗序號
	next, err := post(t, l, domain.TransactionTypeDeposit, 1, 100)
	if err != nil {
		t.Fatal(err)
	}
	if next.ID != 3 {
		t.Fatalf("next transaction id=%d want 3", next.ID)
	}
}

func testCustomerIDsSequential(t *testing.T, l usecase.Ledger) {
	names := []string{"Ama", "Kofi", "Esi"}
	for i, name := range names {
		c := mustCustomer(t, l, name)
		if c.ID != int64(i+1) {
			t.Fatalf("customer %s id=%d want %d", name, c.ID, i+1)
		}
	}

	all, err := l.ListCustomers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(names) {
		t.Fatalf("ListCustomers len=%d want %d", len(all), len(names))
	}
	for i, c := range all {
		if c.Name != names[i] || c.ID != int64(i+1) {
			t.Fatalf("all[%d]=%+v", i, c)
		}
	}
}

func testUnknownCustomer(t *testing.T, l usecase.Ledger) {
	ctx := context.Background()
	if _, err := l.GetCustomer(ctx, 42); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("GetCustomer want ErrCustomerNotFound, got %v", err)
	}
	if _, err := post(t, l, domain.TransactionTypeDeposit, 42, 100); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("deposit want ErrCustomerNotFound, got %v", err)
	}
	if _, err := post(t, l, domain.TransactionTypeWithdraw, 42, 100); !errors.Is(err, domain.ErrCustomerNotFound) {
		t.Fatalf("withdraw want ErrCustomerNotFound, got %v", err)
	}
	history, err := l.ListTransactions(ctx, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Fatalf("history of unknown customer=%+v", history)
	}
}

func testRejectionConsumesNoID(t *testing.T, l usecase.Ledger) {
	mustCustomer(t, l, "Ama")
	_, _ = post(t, l, domain.TransactionTypeDeposit, 99, 100)
	_, _ = post(t, l, domain.TransactionTypeDeposit, 1, 0)
	_, _ = post(t, l, domain.TransactionTypeWithdraw, 1, 1)
	_, _ = post(t, l, domain.TransactionType(7), 1, 1)

	tran, err := post(t, l, domain.TransactionTypeDeposit, 1, 100)
	if err != nil {
		t.Fatal(err)
	}
	if tran.ID != 1 {
		t.Fatalf("first accepted transaction id=%d want 1", tran.ID)
	}
	history, _ := l.ListTransactions(context.Background(), 1)
	if len(history) != 1 {
		t.Fatalf("history len=%d want 1", len(history))
	}
}

// testBalanceOverflowRejected 餘額會超出 int64 的存款整筆拒絕，不消耗交易序號
func testBalanceOverflowRejected(t *testing.T, l usecase.Ledger) {
	mustCustomer(t, l, "Ama")
	limit := domain.Amount(math.MaxInt64)

	first, err := post(t, l, domain.TransactionTypeDeposit, 1, limit)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := post(t, l, domain.TransactionTypeDeposit, 1, 100); !errors.Is(err, domain.ErrBalanceOverflow) {
		t.Fatalf("want ErrBalanceOverflow, got %v", err)
	}
	if got := balance(t, l, 1); got != limit {
		t.Fatalf("balance=%d want %d", got, limit)
	}

	// 提款後仍可再存入剛好到上限的金額
	if _, err := post(t, l, domain.TransactionTypeWithdraw, 1, 100); err != nil {
		t.Fatal(err)
	}
	last, err := post(t, l, domain.TransactionTypeDeposit, 1, 100)
	if err != nil {
		t.Fatal(err)
	}
	if last.ID != first.ID+2 || last.RunningBalance != limit {
		t.Fatalf("last=%+v want id=%d running=%d", last, first.ID+2, limit)
	}
}

// testBalanceEqualsSumOfAccepted 隨機存提款，餘額永遠等於已接受存款總和減去已接受提款總和
func testBalanceEqualsSumOfAccepted(t *testing.T, l usecase.Ledger) {
	mustCustomer(t, l, "Ama")
	rnd := rand.New(rand.NewSource(7))

	var expected domain.Amount
	var lastID int64
	for i := 0; i < 200; i++ {
		amount := domain.Amount(rnd.Int63n(2000) - 200)
		txType := domain.TransactionTypeDeposit
		if rnd.Intn(2) == 0 {
			txType = domain.TransactionTypeWithdraw
		}

		tran, err := post(t, l, txType, 1, amount)
		switch {
		case amount <= 0:
			if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Fatalf("step %d: amount=%d want ErrInvalidAmount, got %v", i, amount, err)
			}
		case txType == domain.TransactionTypeWithdraw && amount > expected:
			if !errors.Is(err, domain.ErrInsufficientBalance) {
				t.Fatalf("step %d: want ErrInsufficientBalance, got %v", i, err)
			}
		default:
			if err != nil {
				t.Fatalf("step %d: err=%v", i, err)
			}
			if txType == domain.TransactionTypeDeposit {
				expected += amount
			} else {
				expected -= amount
			}
			if tran.RunningBalance != expected {
				t.Fatalf("step %d: running balance=%d want %d", i, tran.RunningBalance, expected)
			}
			if tran.ID <= lastID {
				t.Fatalf("step %d: id %d not increasing after %d", i, tran.ID, lastID)
			}
			lastID = tran.ID
		}

		if got := balance(t, l, 1); got != expected || got < 0 {
			t.Fatalf("step %d: balance=%d want %d", i, got, expected)
		}
	}
}

func testHistoryFilteredNewestFirst(t *testing.T, l usecase.Ledger) {
	ctx := context.Background()
	mustCustomer(t, l, "Ama")
	mustCustomer(t, l, "Kofi")

	for i := 0; i < 3; i++ {
		if _, err := post(t, l, domain.TransactionTypeDeposit, 1, 100); err != nil {
			t.Fatal(err)
		}
		if _, err := post(t, l, domain.TransactionTypeDeposit, 2, 200); err != nil {
			t.Fatal(err)
		}
	}

	for _, id := range []int64{1, 2} {
		history, err := l.ListTransactions(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if len(history) != 3 {
			t.Fatalf("customer %d history len=%d want 3", id, len(history))
		}
		for i, tran := range history {
			if tran.CustomerID != id {
				t.Fatalf("customer %d got foreign transaction %+v", id, tran)
			}
			if i > 0 && history[i-1].ID <= tran.ID {
				t.Fatalf("customer %d history not newest first: %+v", id, history)
			}
		}
		if history[0].RunningBalance != domain.Amount(300*id) {
			t.Fatalf("customer %d latest running balance=%d", id, history[0].RunningBalance)
		}
	}
}

func testRefIDIdempotent(t *testing.T, l usecase.Ledger) {
	ctx := context.Background()
	mustCustomer(t, l, "Ama")
	ref := uuid.New()

	first := &domain.Transaction{CustomerID: 1, Amount: 500, Type: domain.TransactionTypeDeposit, RefID: ref}
	if err := l.PostTransaction(ctx, first); err != nil {
		t.Fatal(err)
	}
	again := &domain.Transaction{CustomerID: 1, Amount: 500, Type: domain.TransactionTypeDeposit, RefID: ref}
	if err := l.PostTransaction(ctx, again); err != nil {
		t.Fatal(err)
	}
	if again.ID != first.ID || again.RunningBalance != first.RunningBalance {
		t.Fatalf("repost=%+v want same as %+v", again, first)
	}
	if got := balance(t, l, 1); got != 500 {
		t.Fatalf("balance=%d want 500", got)
	}

	// 被拒絕的 RefID 不會被記錄，之後可以成功入帳
	ref2 := uuid.New()
	rejected := &domain.Transaction{CustomerID: 1, Amount: 900, Type: domain.TransactionTypeWithdraw, RefID: ref2}
	if err := l.PostTransaction(ctx, rejected); !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("want ErrInsufficientBalance, got %v", err)
	}
	retry := &domain.Transaction{CustomerID: 1, Amount: 400, Type: domain.TransactionTypeWithdraw, RefID: ref2}
	if err := l.PostTransaction(ctx, retry); err != nil {
		t.Fatal(err)
	}
	if retry.ID != 2 || retry.RunningBalance != 100 {
		t.Fatalf("retry=%+v", retry)
	}
}

func testConcurrentPosts(t *testing.T, l usecase.Ledger) {
	mustCustomer(t, l, "Ama")
	const workers = 50

	var wg sync.WaitGroup
	wg.Add(2 * workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, err := post(t, l, domain.TransactionTypeDeposit, 1, 10); err != nil {
				t.Errorf("deposit err: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			// 可能因餘額不足被拒絕，但不得出現負餘額
			if _, err := post(t, l, domain.TransactionTypeWithdraw, 1, 10); err != nil && !errors.Is(err, domain.ErrInsufficientBalance) {
				t.Errorf("withdraw err: %v", err)
			}
		}()
	}
	wg.Wait()

	history, err := l.ListTransactions(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	var expected domain.Amount
	seen := make(map[int64]bool)
	for i := len(history) - 1; i >= 0; i-- {
		tran := history[i]
		if seen[tran.ID] {
			t.Fatalf("duplicate transaction id %d", tran.ID)
		}
		seen[tran.ID] = true
		if tran.IsDeposit() {
			expected += tran.Amount
		} else {
			expected -= tran.Amount
		}
		if tran.RunningBalance != expected || expected < 0 {
			t.Fatalf("transaction %d running balance=%d want %d", tran.ID, tran.RunningBalance, expected)
		}
	}
	if got := balance(t, l, 1); got != expected {
		t.Fatalf("balance=%d want %d", got, expected)
	}
}
