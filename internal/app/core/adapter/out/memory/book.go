package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JoeShih716/go-savings-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-savings-ledger/pkg/journal"
)

// book 是帳本狀態本體，本身不做任何同步
// MutexLedger 用鎖保護，SequencerLedger 只在單一 goroutine 內存取
type book struct {
	customers     map[int64]*domain.Customer
	customerOrder []int64
	// 只追加的交易序列
	transactions []domain.Transaction
	// 已處理過的交易 RefID -> transactions 索引
	processed map[uuid.UUID]int

	lastCustomerID    int64
	lastTransactionID int64

	now     func() time.Time
	journal *journal.Journal
}

func newBook(o options) *book {
	return &book{
		customers: make(map[int64]*domain.Customer),
		processed: make(map[uuid.UUID]int),
		now:       o.now,
		journal:   o.journal,
	}
}

func (b *book) createCustomer(name string) domain.Customer {
	b.lastCustomerID++
	customer := domain.NewCustomer(b.lastCustomerID, name)
	b.customers[customer.ID] = customer
	b.customerOrder = append(b.customerOrder, customer.ID)
	return *customer
}

func (b *book) listCustomers() []domain.Customer {
	out := make([]domain.Customer, 0, len(b.customerOrder))
	for _, id := range b.customerOrder {
		out = append(out, *b.customers[id])
	}
	return out
}

func (b *book) getCustomer(customerID int64) (domain.Customer, error) {
	customer, ok := b.customers[customerID]
	if !ok {
		return domain.Customer{}, domain.ErrCustomerNotFound
	}
	return *customer, nil
}

// post 驗證並套用交易，任何失敗都不改變狀態也不消耗交易序號
func (b *book) post(tran *domain.Transaction) error {
	if tran.HasRefID() {
		if idx, ok := b.processed[tran.RefID]; ok {
			*tran = b.transactions[idx]
			return nil
		}
	}

	if err := tran.Validate(); err != nil {
		return err
	}
	customer, ok := b.customers[tran.CustomerID]
	if !ok {
		return domain.ErrCustomerNotFound
	}

	// 先在副本上試算
	next := *customer
	if err := next.Apply(tran); err != nil {
		return err
	}

	record := *tran
	record.ID = b.lastTransactionID + 1
	record.RunningBalance = next.CurrentBalance
	record.DateAdded = b.now().UTC()

	// 寫入日誌 (Critical Path)，失敗則整筆拒絕
	if b.journal != nil {
		if err := b.journal.Write(&record); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrJournalWriteFailed, err)
		}
	}

	b.lastTransactionID = record.ID
	customer.CurrentBalance = next.CurrentBalance
	b.transactions = append(b.transactions, record)
	if record.HasRefID() {
		b.processed[record.RefID] = len(b.transactions) - 1
	}
	*tran = record
	return nil
}

func (b *book) listTransactions(customerID int64) []domain.Transaction {
	out := make([]domain.Transaction, 0)
	for _, tran := range b.transactions {
		if tran.CustomerID == customerID {
			out = append(out, tran)
		}
	}
	domain.SortNewestFirst(out)
	return out
}
