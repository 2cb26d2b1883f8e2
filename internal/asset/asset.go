package asset

import (
	"time"

	"github.com/google/uuid"
)

// Type categorizes one item of estate property.
type Type string

const (
	TypeRealProperty      Type = "real_property"
	TypePersonalProperty  Type = "personal_property"
	TypeCash              Type = "cash"
	TypeInvestment        Type = "investment"
	TypeVehicle           Type = "vehicle"
	TypeBusinessInterest  Type = "business_interest"
	TypeLifeInsurance     Type = "life_insurance"
	TypeRetirementAccount Type = "retirement_account"
)

var validTypes = map[Type]bool{
	TypeRealProperty:      true,
	TypePersonalProperty:  true,
	TypeCash:              true,
	TypeInvestment:        true,
	TypeVehicle:           true,
	TypeBusinessInterest:  true,
	TypeLifeInsurance:     true,
	TypeRetirementAccount: true,
}

func (t Type) Valid() bool {
	return validTypes[t]
}

// Types lists all asset types in a stable order, for forms and reports.
func Types() []Type {
	return []Type{
		TypeRealProperty,
		TypePersonalProperty,
		TypeCash,
		TypeInvestment,
		TypeVehicle,
		TypeBusinessInterest,
		TypeLifeInsurance,
		TypeRetirementAccount,
	}
}

// Encumbrance is a debt secured against a specific asset. The creditor is
// referenced by id only and resolved through the claim register.
type Encumbrance struct {
	CreditorID uuid.UUID
	Amount     int64 // cents
}

// Asset is one item of estate property. Amounts are cents.
type Asset struct {
	ID              uuid.UUID
	Type            Type
	Description     string
	Location        string
	Notes           string
	EstimatedValue  int64  // at date of death
	FairMarketValue *int64 // post-appraisal, nil until appraised
	AppraisalDate   *time.Time
	Encumbrance     *Encumbrance
	AddedAt         time.Time
}

// GrossValue is the fair-market value if appraised, else the estimate.
func (a *Asset) GrossValue() int64 {
	if a.FairMarketValue != nil {
		return *a.FairMarketValue
	}

	return a.EstimatedValue
}

// NetValue is the asset's contribution to the estate: gross value less any
// encumbrance, floored at zero. The shortfall is reported via Deficiency,
// never hidden inside a negative net.
func (a *Asset) NetValue() int64 {
	net := a.GrossValue() - a.encumbered()
	if net < 0 {
		return 0
	}

	return net
}

// Deficiency is the amount by which the encumbrance exceeds the asset's
// gross value. Zero for unencumbered or fully covered assets.
func (a *Asset) Deficiency() int64 {
	d := a.encumbered() - a.GrossValue()
	if d < 0 {
		return 0
	}

	return d
}

func (a *Asset) encumbered() int64 {
	if a.Encumbrance == nil {
		return 0
	}

	return a.Encumbrance.Amount
}
