package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRedemption records points converted into money by an approved redemption.
const TransactionRedemption = "redemption"

// Transaction is one entry in a user's balance history. Points is the signed change to
// the point balance and Amount the signed change to the money balance.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Type        string          `json:"type"`
	Points      int             `json:"points"`
	Amount      decimal.Decimal `json:"amount"`
	ReferenceID *int64          `json:"reference_id,omitempty"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}
