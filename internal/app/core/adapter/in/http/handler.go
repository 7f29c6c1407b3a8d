// Package http 以 gin 提供帳本的 REST/JSON 介面。
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JoeShih716/go-savings-ledger/internal/app/core/domain"
	"github.com/JoeShih716/go-savings-ledger/internal/app/core/usecase"
)

type Handler struct {
	core *usecase.CoreUseCase
}

func NewHandler(core *usecase.CoreUseCase) *Handler {
	return &Handler{core: core}
}

type customerResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	CurrentBalance string `json:"current_balance"`
}

type transactionResponse struct {
	ID             int64  `json:"id"`
	CustomerID     int64  `json:"customer_id"`
	DateAdded      string `json:"date_added"`
	Amount         string `json:"amount"`
	RunningBalance string `json:"running_balance"`
	IsDeposit      bool   `json:"is_deposit"`
	RefID          string `json:"ref_id,omitempty"`
}

type addCustomerRequest struct {
	Name string `json:"name"`
}

// postRequest 金額以字串傳入 ("50.00")，避免 JSON number 的浮點誤差
type postRequest struct {
	Amount string `json:"amount"`
	RefID  string `json:"ref_id"`
}

func (h *Handler) addCustomer(c *gin.Context) {
	var req addCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(c, http.StatusBadRequest, "name must not be empty")
		return
	}

	customer, err := h.core.AddCustomer(c.Request.Context(), req.Name)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCustomerResponse(customer))
}

func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.core.GetCustomers(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]customerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, toCustomerResponse(&customers[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}
	customer, err := h.core.GetCustomer(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCustomerResponse(customer))
}

func (h *Handler) deposit(c *gin.Context) {
	h.post(c, h.core.Deposit)
}

func (h *Handler) withdraw(c *gin.Context) {
	h.post(c, h.core.Withdraw)
}

type postFunc func(ctx context.Context, customerID int64, amount domain.Amount, opts ...usecase.PostOption) (*domain.Transaction, error)

func (h *Handler) post(c *gin.Context, fn postFunc) {
	id, ok := customerID(c)
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	var opts []usecase.PostOption
	if req.RefID != "" {
		ref, err := uuid.Parse(req.RefID)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid ref_id: "+err.Error())
			return
		}
		opts = append(opts, usecase.WithRefID(ref))
	}

	tran, err := fn(c.Request.Context(), id, amount, opts...)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransactionResponse(tran))
}

func (h *Handler) listTransactions(c *gin.Context) {
	id, ok := customerID(c)
	if !ok {
		return
	}
	trans, err := h.core.GetTransactions(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]transactionResponse, 0, len(trans))
	for i := range trans {
		out = append(out, toTransactionResponse(&trans[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func customerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid customer id")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// writeDomainError 業務錯誤對應 HTTP 狀態碼
func writeDomainError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidTransactionType):
		code = http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientBalance), errors.Is(err, domain.ErrBalanceOverflow):
		code = http.StatusConflict
	}
	writeError(c, code, err.Error())
}

func toCustomerResponse(customer *domain.Customer) customerResponse {
	return customerResponse{
		ID:             customer.ID,
		Name:           customer.Name,
		CurrentBalance: customer.CurrentBalance.String(),
	}
}

func toTransactionResponse(t *domain.Transaction) transactionResponse {
	out := transactionResponse{
		ID:             t.ID,
		CustomerID:     t.CustomerID,
		DateAdded:      t.DateAdded.Format(time.RFC3339Nano),
		Amount:         t.Amount.String(),
		RunningBalance: t.RunningBalance.String(),
		IsDeposit:      t.IsDeposit(),
	}
	if t.HasRefID() {
		out.RefID = t.RefID.String()
	}
	return out
}
