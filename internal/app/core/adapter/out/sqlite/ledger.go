package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JoeShih716/go-savings-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-savings-ledger/internal/app/core/usecase"
	"github.com/JoeShih716/go-savings-ledger/pkg/journal"
	"github.com/JoeShih716/go-savings-ledger/pkg/sqldb"
)

// sqlCustomer 對應資料庫的 customers 表
type sqlCustomer struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	Name      string
	Balance   int64
	CreatedAt int64 `gorm:"autoCreateTime:milli"` // 自動寫入時間
}

func (*sqlCustomer) TableName() string {
	return "customers"
}

func (c *sqlCustomer) toDomain() domain.Customer {
	return domain.Customer{
		ID:             c.ID,
		Name:           c.Name,
		CurrentBalance: domain.Amount(c.Balance),
	}
}

// sqlTransaction 對應資料庫的 transactions 表
type sqlTransaction struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	RefID          []byte `gorm:"column:ref_id;uniqueIndex"` // 對應 domain.Transaction.RefID，無則為 NULL
	CustomerID     int64  `gorm:"index"`
	Amount         int64
	RunningBalance int64
	Type           uint8
	DateAdded      int64 // UnixNano
}

func (*sqlTransaction) TableName() string {
	return "transactions"
}

func (t *sqlTransaction) toDomain() domain.Transaction {
	tran := domain.Transaction{
		ID:             t.ID,
		CustomerID:     t.CustomerID,
		Amount:         domain.Amount(t.Amount),
		RunningBalance: domain.Amount(t.RunningBalance),
		Type:           domain.TransactionType(t.Type),
		DateAdded:      time.Unix(0, t.DateAdded).UTC(),
	}
	if len(t.RefID) == len(uuid.UUID{}) {
		copy(tran.RefID[:], t.RefID)
	}
	return tran
}

type options struct {
	now     func() time.Time
	journal *journal.Journal
}

// Option 定義 SQLiteLedger 的配置選項函數
type Option func(*options)

// WithClock 設定交易時間來源 (測試用)
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithJournal 設定稽核日誌
func WithJournal(j *journal.Journal) Option {
	return func(o *options) {
		o.journal = j
	}
}

// SQLiteLedger 以 GORM + 記憶體 SQLite 實作的帳本
type SQLiteLedger struct {
	client *sqldb.Client
	opts   options
}

// NewSQLiteLedger 建立帳本並建立資料表
func NewSQLiteLedger(client *sqldb.Client, opts ...Option) (*SQLiteLedger, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if err := client.DB().AutoMigrate(&sqlCustomer{}, &sqlTransaction{}); err != nil {
		return nil, fmt.Errorf("failed to migrate ledger tables: %w", err)
	}
	return &SQLiteLedger{
		client: client,
		opts:   o,
	}, nil
}

// CreateCustomer 建立客戶，ID 由資料庫自動遞增
func (ledger *SQLiteLedger) CreateCustomer(ctx context.Context, name string) (*domain.Customer, error) {
	row := sqlCustomer{Name: name}
	if err := ledger.client.DB().WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	customer := row.toDomain()
	return &customer, nil
}

// ListCustomers 依 ID (建立順序) 列出客戶
func (ledger *SQLiteLedger) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var rows []sqlCustomer
	if err := ledger.client.DB().WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

// GetCustomer 取得單一客戶
func (ledger *SQLiteLedger) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	row, err := findCustomer(ledger.client.DB().WithContext(ctx), customerID)
	if err != nil {
		return nil, err
	}
	customer := row.toDomain()
	return &customer, nil
}

func findCustomer(db *gorm.DB, customerID int64) (*sqlCustomer, error) {
	var row sqlCustomer
	err := db.Where("id = ?", customerID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// PostTransaction 在單一資料庫交易內完成 查重 -> 查客戶 -> 檢查餘額 -> 更新餘額 -> 寫入交易
func (ledger *SQLiteLedger) PostTransaction(ctx context.Context, tran *domain.Transaction) error {
	var record domain.Transaction
	err := ledger.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先檢查是否有這筆交易記錄
		if tran.HasRefID() {
			var existing sqlTransaction
			err := tx.Where("ref_id = ?", tran.RefID[:]).First(&existing).Error
			if err == nil {
				record = existing.toDomain()
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("select transaction by ref_id: %w", err)
			}
		}

		if err := tran.Validate(); err != nil {
			return err
		}
		row, err := findCustomer(tx, tran.CustomerID)
		if err != nil {
			return err
		}

		customer := row.toDomain()
		if err := customer.Apply(tran); err != nil {
			return err
		}

		if err := tx.Model(&sqlCustomer{}).
			Where("id = ?", row.ID).
			Update("balance", int64(customer.CurrentBalance)).Error; err != nil {
			return err
		}

		created := sqlTransaction{
			CustomerID:     tran.CustomerID,
			Amount:         int64(tran.Amount),
			RunningBalance: int64(customer.CurrentBalance),
			Type:           uint8(tran.Type),
			DateAdded:      ledger.opts.now().UnixNano(),
		}
		if tran.HasRefID() {
			created.RefID = tran.RefID[:]
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		record = created.toDomain()

		// 日誌寫入失敗時回傳錯誤，整個資料庫交易 rollback
		if ledger.opts.journal != nil {
			if err := ledger.opts.journal.Write(&record); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrJournalWriteFailed, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	*tran = record
	return nil
}

// ListTransactions 列出客戶交易 (ID 由新到舊)
func (ledger *SQLiteLedger) ListTransactions(ctx context.Context, customerID int64) ([]domain.Transaction, error) {
	var rows []sqlTransaction
	err := ledger.client.DB().WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out, nil
}

var _ usecase.Ledger = (*SQLiteLedger)(nil)
