package distribution

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the payout state of a beneficiary's distribution.
type Status string

const (
	StatusPending     Status = "pending"
	StatusApproved    Status = "approved"
	StatusDistributed Status = "distributed"
)

// Beneficiary is one person or entity entitled to a share of the estate.
// Share is a percentage in (0, 100]; Amount is the calculated distribution
// in cents, zero until Calculate has run.
type Beneficiary struct {
	ID           uuid.UUID
	Name         string
	Relationship string
	Share        decimal.Decimal
	Address      string
	Contact      string
	Amount       int64
	Status       Status
	AddedAt      time.Time
}
