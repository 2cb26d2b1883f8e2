package deadline

import "time"

// Type names a dated obligation derived from the jurisdiction rule table.
type Type string

const (
	TypeInventoryFiling         Type = "inventory_filing"
	TypeCreditorClaimPeriodEnd  Type = "creditor_claim_period_close"
	TypeFinalAccounting         Type = "final_accounting"
)

// Deadline is a derived obligation. It is never edited directly: due dates
// are recomputed from the estate's trigger dates and the rule table, so
// correcting a trigger date shifts every dependent deadline with it.
type Deadline struct {
	Type        Type
	DueDate     time.Time
	Completed   bool
	CompletedAt *time.Time
}
