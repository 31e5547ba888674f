package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered     EventType = "user_registered"
	EventUserLogin          EventType = "user_login"
	EventUserLogout         EventType = "user_logout"
	EventTokenRefreshed     EventType = "token_refreshed"
	EventTransactionCreated EventType = "transaction_created"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// LoginPayload accompanies user_login and token_refreshed events.
type LoginPayload struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// TransactionCreatedPayload accompanies transaction_created events.
type TransactionCreatedPayload struct {
	TransactionID int64  `json:"transaction_id"`
	Type          string `json:"type"`
	Amount        string `json:"amount"`
	CategoryID    int64  `json:"category_id"`
}
