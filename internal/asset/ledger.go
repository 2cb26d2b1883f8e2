package asset

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mwhardin/probata/internal/fault"
)

// CreditorDirectory answers whether a creditor id exists in the claim
// register. The ledger resolves encumbrance creditors through it instead of
// holding claim objects, keeping the two collections independently owned.
//
//go:generate mockgen -source=ledger.go -destination=directory_mock.go -package=asset
type CreditorDirectory interface {
	Exists(id uuid.UUID) bool
}

type CreateParams struct {
	Type           Type
	Description    string
	Location       string
	EstimatedValue int64
	Notes          string
}

// Ledger holds the estate's asset inventory. Assets are appended and
// corrected, never removed; probate inventories do not support deletion.
// Every mutation bumps the revision counter so downstream calculations can
// detect staleness.
type Ledger struct {
	creditors CreditorDirectory
	assets    map[uuid.UUID]*Asset
	order     []uuid.UUID
	rev       uint64
	now       func() time.Time
}

func NewLedger(creditors CreditorDirectory) *Ledger {
	return &Ledger{
		creditors: creditors,
		assets:    make(map[uuid.UUID]*Asset),
		now:       time.Now,
	}
}

// RestoreLedger rebuilds a ledger from previously exported assets, keeping
// their ids and slice order. Used when loading a snapshot.
func RestoreLedger(creditors CreditorDirectory, assets []*Asset) *Ledger {
	l := NewLedger(creditors)

	for _, a := range assets {
		l.assets[a.ID] = a
		l.order = append(l.order, a.ID)
	}

	l.rev = uint64(len(assets))

	return l
}

// Rev is the ledger's mutation revision. It increases on every state change.
func (l *Ledger) Rev() uint64 {
	return l.rev
}

func (l *Ledger) Len() int {
	return len(l.assets)
}

func (l *Ledger) AddAsset(p CreateParams) (*Asset, error) {
	const op = "asset.AddAsset"

	if err := validateParams(op, p); err != nil {
		return nil, err
	}

	a := &Asset{
		ID:             uuid.New(),
		Type:           p.Type,
		Description:    strings.TrimSpace(p.Description),
		Location:       strings.TrimSpace(p.Location),
		Notes:          p.Notes,
		EstimatedValue: p.EstimatedValue,
		AddedAt:        l.now(),
	}

	l.assets[a.ID] = a
	l.order = append(l.order, a.ID)
	l.rev++

	return a, nil
}

// AddBatch adds all params or none: every row is validated before the first
// asset is created, so a bad row in an imported inventory leaves the ledger
// untouched.
func (l *Ledger) AddBatch(params []CreateParams) ([]*Asset, error) {
	const op = "asset.AddBatch"

	for i, p := range params {
		if err := validateParams(op, p); err != nil {
			return nil, fault.Validation(op, "row %d: %v", i+1, err)
		}
	}

	added := make([]*Asset, 0, len(params))

	for _, p := range params {
		a, err := l.AddAsset(p)
		if err != nil {
			return nil, err
		}

		added = append(added, a)
	}

	return added, nil
}

func (l *Ledger) Get(id uuid.UUID) (*Asset, error) {
	a, ok := l.assets[id]
	if !ok {
		return nil, fault.Reference("asset.Get", "unknown asset %s", id)
	}

	return a, nil
}

// UpdateValuation records the appraised fair-market value. Reapplying an
// identical valuation is a no-op: the ledger state and revision are left
// unchanged, so retries are safe.
func (l *Ledger) UpdateValuation(id uuid.UUID, fairMarketValue int64, appraisalDate *time.Time) error {
	const op = "asset.UpdateValuation"

	a, ok := l.assets[id]
	if !ok {
		return fault.Reference(op, "unknown asset %s", id)
	}

	if fairMarketValue < 0 {
		return fault.Validation(op, "fair-market value must not be negative, got %d", fairMarketValue)
	}

	if a.FairMarketValue != nil && *a.FairMarketValue == fairMarketValue && sameDate(a.AppraisalDate, appraisalDate) {
		return nil
	}

	a.FairMarketValue = &fairMarketValue
	a.AppraisalDate = appraisalDate
	l.rev++

	return nil
}

// Encumber records a secured debt against an asset. The creditor must
// already exist in the claim register.
func (l *Ledger) Encumber(id, creditorID uuid.UUID, debtAmount int64) error {
	const op = "asset.Encumber"

	a, ok := l.assets[id]
	if !ok {
		return fault.Reference(op, "unknown asset %s", id)
	}

	if debtAmount < 0 {
		return fault.Validation(op, "debt amount must not be negative, got %d", debtAmount)
	}

	if !l.creditors.Exists(creditorID) {
		return fault.Reference(op, "unknown creditor %s", creditorID)
	}

	a.Encumbrance = &Encumbrance{CreditorID: creditorID, Amount: debtAmount}
	l.rev++

	return nil
}

// Assets returns the inventory in intake order.
func (l *Ledger) Assets() []*Asset {
	out := make([]*Asset, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.assets[id])
	}

	return out
}

type TypeSubtotal struct {
	Count int
	Net   int64
}

type Summary struct {
	TotalEstimated   int64
	TotalAppraised   int64 // sum of fair-market values where an appraisal exists
	TotalEncumbrance int64
	NetValue         int64 // per-asset floor applied before summing
	TotalDeficiency  int64
	ByType           map[Type]TypeSubtotal
}

func (l *Ledger) Summary() Summary {
	s := Summary{ByType: make(map[Type]TypeSubtotal)}

	for _, id := range l.order {
		a := l.assets[id]

		s.TotalEstimated += a.EstimatedValue
		if a.FairMarketValue != nil {
			s.TotalAppraised += *a.FairMarketValue
		}

		s.TotalEncumbrance += a.encumbered()
		s.NetValue += a.NetValue()
		s.TotalDeficiency += a.Deficiency()

		st := s.ByType[a.Type]
		st.Count++
		st.Net += a.NetValue()
		s.ByType[a.Type] = st
	}

	return s
}

func validateParams(op string, p CreateParams) error {
	if !p.Type.Valid() {
		return fault.Validation(op, "unknown asset type %q", p.Type)
	}

	if strings.TrimSpace(p.Description) == "" {
		return fault.Validation(op, "description is required")
	}

	if p.EstimatedValue < 0 {
		return fault.Validation(op, "estimated value must not be negative, got %d", p.EstimatedValue)
	}

	return nil
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Equal(*b)
}
