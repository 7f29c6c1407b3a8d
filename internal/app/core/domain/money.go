package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// amount 使用int64，並定義精度：小數點後 2 位 (分)
const (
	CurrencyScale    = 100
	currencyExponent = -2
)

// Amount 以最小貨幣單位 (分) 表示的金額
type Amount int64

// ParseAmount 將十進位字串 (例如 "50.25") 轉換為 Amount
//
// 參數:
//
//	s: 十進位字串
//
// 回傳:
//
//	Amount: 以分為單位的金額
//	error: 格式錯誤或精度超過兩位小數時回傳 ErrInvalidAmount
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return AmountFromDecimal(d)
}

// AmountFromDecimal 將 decimal 轉換為 Amount，不做任何四捨五入
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	scaled := d.Shift(-currencyExponent)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %s has more than 2 decimal places", ErrInvalidAmount, d.String())
	}
	if !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: %s out of range", ErrInvalidAmount, d.String())
	}
	return Amount(scaled.IntPart()), nil
}

// Decimal 回傳 decimal 表示
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), currencyExponent)
}

// String 固定兩位小數輸出，僅用於顯示層
func (a Amount) String() string {
	return a.Decimal().StringFixed(2)
}

// IsPositive 金額是否大於 0
func (a Amount) IsPositive() bool {
	return a > 0
}
