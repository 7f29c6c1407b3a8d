package proto

// 金額一律以十進位字串傳輸 (例如 "50.00")，避免浮點誤差

type Customer struct {
	Id             int64  `json:"id"`
	Name           string `json:"name"`
	CurrentBalance string `json:"current_balance"`
}

type Transaction struct {
	Id             int64  `json:"id"`
	CustomerId     int64  `json:"customer_id"`
	DateAdded      string `json:"date_added"` // RFC3339Nano
	Amount         string `json:"amount"`
	RunningBalance string `json:"running_balance"`
	IsDeposit      bool   `json:"is_deposit"`
	RefId          string `json:"ref_id,omitempty"`
}

type AddCustomerRequest struct {
	Name string `json:"name"`
}

type AddCustomerResponse struct {
	Customer *Customer `json:"customer"`
}

type ListCustomersRequest struct{}

type ListCustomersResponse struct {
	Customers []*Customer `json:"customers"`
}

type GetCustomerRequest struct {
	CustomerId int64 `json:"customer_id"`
}

type GetCustomerResponse struct {
	Customer *Customer `json:"customer"`
}

// PostRequest 存款與提款共用
type PostRequest struct {
	// RefId 冪等追蹤號 (UUID)，可為空
	RefId      string `json:"ref_id,omitempty"`
	CustomerId int64  `json:"customer_id"`
	Amount     string `json:"amount"`
}

type PostResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ListTransactionsRequest struct {
	CustomerId int64 `json:"customer_id"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}
