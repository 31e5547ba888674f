package domain

import "time"

// TransactionType differentiates income vs expense records.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// TransactionStatus tracks record processing state.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// PaymentMethod enumerates how a transaction was paid.
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodBankCard   PaymentMethod = "bank_card"
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodAlipay     PaymentMethod = "alipay"
	PaymentMethodWechatPay  PaymentMethod = "wechat_pay"
	PaymentMethodOther      PaymentMethod = "other"
)

// Transaction is a single income or expense record owned by a user.
// Amount is a decimal string to avoid float rounding on money values.
type Transaction struct {
	ID              int64
	UserID          string
	Type            TransactionType
	CategoryID      int64
	Amount          string
	Description     string
	TransactionDate time.Time
	PaymentMethod   PaymentMethod
	Status          TransactionStatus
	Location        string
	Currency        string
	Tags            string
	Remark          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
