package dto

import (
	"time"

	"github.com/spec-kit/record-service/internal/domain"
)

// CreateTransactionRequest payload.
type CreateTransactionRequest struct {
	Type            string `json:"type"`
	CategoryID      int64  `json:"categoryId"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
	TransactionDate int64  `json:"transactionDate"`
	PaymentMethod   string `json:"paymentMethod"`
	Status          string `json:"status"`
	Location        string `json:"location"`
	Currency        string `json:"currency"`
	Tags            string `json:"tags"`
	Remark          string `json:"remark"`
}

// TransactionView is the serialized transaction.
type TransactionView struct {
	ID              int64     `json:"id"`
	Type            string    `json:"type"`
	CategoryID      int64     `json:"categoryId"`
	Amount          string    `json:"amount"`
	Description     string    `json:"description"`
	TransactionDate time.Time `json:"transactionDate"`
	PaymentMethod   string    `json:"paymentMethod"`
	Status          string    `json:"status"`
	Location        string    `json:"location"`
	Currency        string    `json:"currency"`
	Tags            string    `json:"tags"`
	Remark          string    `json:"remark"`
	CreatedAt       time.Time `json:"createdAt"`
}

// TransactionPageView is one page of transactions.
type TransactionPageView struct {
	Items    []*TransactionView `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"pageSize"`
}

// NewTransactionView maps a domain transaction.
func NewTransactionView(tx *domain.Transaction) *TransactionView {
	return &TransactionView{
		ID:              tx.ID,
		Type:            string(tx.Type),
		CategoryID:      tx.CategoryID,
		Amount:          tx.Amount,
		Description:     tx.Description,
		TransactionDate: tx.TransactionDate,
		PaymentMethod:   string(tx.PaymentMethod),
		Status:          string(tx.Status),
		Location:        tx.Location,
		Currency:        tx.Currency,
		Tags:            tx.Tags,
		Remark:          tx.Remark,
		CreatedAt:       tx.CreatedAt,
	}
}
