package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a ledger participant. Balance is derived state: it always equals
// the sum of all paid transaction effects the user participates in, and is
// mutated only by the balance engine inside a store transaction.
type User struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // Plaintext credential, compared verbatim at login
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
