package creditor

import (
	"time"

	"github.com/google/uuid"
)

// Type is the statutory class of a claim. Payment order is driven by the
// numeric priority level assigned at filing, not by the type itself; the
// type is descriptive.
type Type string

const (
	TypeAdministrative   Type = "administrative"
	TypeFuneral          Type = "funeral"
	TypeSecured          Type = "secured"
	TypeWage             Type = "wage"
	TypeTax              Type = "tax"
	TypeGeneralUnsecured Type = "general_unsecured"
)

var validTypes = map[Type]bool{
	TypeAdministrative:   true,
	TypeFuneral:          true,
	TypeSecured:          true,
	TypeWage:             true,
	TypeTax:              true,
	TypeGeneralUnsecured: true,
}

func (t Type) Valid() bool {
	return validTypes[t]
}

// Types lists all claim types in statutory-priority order, for forms.
func Types() []Type {
	return []Type{
		TypeAdministrative,
		TypeFuneral,
		TypeSecured,
		TypeWage,
		TypeTax,
		TypeGeneralUnsecured,
	}
}

// Status is the adjudication state of a claim.
type Status string

const (
	StatusFiled       Status = "filed"
	StatusUnderReview Status = "under_review"
	StatusAllowed     Status = "allowed"
	StatusDenied      Status = "denied"
	StatusPaid        Status = "paid"
)

// Claim is one asserted debt against the estate. Amounts are cents.
// AmountAllowed stays nil until adjudication and never exceeds
// AmountClaimed.
type Claim struct {
	ID            uuid.UUID
	Type          Type
	Name          string
	Description   string
	AmountClaimed int64
	AmountAllowed *int64
	Priority      int // lower is paid first
	ProofReceived bool
	Status        Status
	FiledAt       time.Time

	// CollateralAssetID references the encumbered asset for secured claims,
	// by id only. Resolution happens through the asset ledger.
	CollateralAssetID *uuid.UUID
}

// Allowed is the adjudicated amount, zero before adjudication.
func (c *Claim) Allowed() int64 {
	if c.AmountAllowed == nil {
		return 0
	}

	return *c.AmountAllowed
}
