package idempotency

import (
	"errors"
	"time"
)

// Status values for idempotency entries
const (
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
	StatusFailed     = "FAILED"
)

// ErrInProgress is reported when a duplicate submission arrives while the
// first one is still running.
var ErrInProgress = errors.New("checkout already in progress for this idempotency key")

// ErrKeyReused is returned when an idempotency key that belongs to another
// session is presented.
var ErrKeyReused = errors.New("idempotency key was issued to another session")

// IdempotencyRecord is the shape persisted in the idempotency DynamoDB table.
// One record guards one checkout submission identified by the client's
// Idempotency-Key.
type IdempotencyRecord struct {
	IdempotencyKey string    `dynamodbav:"idempotency_key"` // PK
	Status         string    `dynamodbav:"status"`
	SessionID      string    `dynamodbav:"session_id,omitempty"`
	OrderID        string    `dynamodbav:"order_id,omitempty"`
	ResponseBody   string    `dynamodbav:"response_body,omitempty"`   // checkout response replayed to duplicates
	ResponseStatus int       `dynamodbav:"response_status,omitempty"` // e.g., 201
	CreatedAt      time.Time `dynamodbav:"created_at"`
	UpdatedAt      time.Time `dynamodbav:"updated_at"`
	ExpiresAt      int64     `dynamodbav:"expires_at"` // TTL epoch seconds
	Note           string    `dynamodbav:"note,omitempty"`
}
