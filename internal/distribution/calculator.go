package distribution

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mwhardin/probata/internal/asset"
	"github.com/mwhardin/probata/internal/fault"
)

var hundred = decimal.NewFromInt(100)

// AssetSource supplies the net estate value and a revision counter that
// moves on every asset mutation.
type AssetSource interface {
	Summary() asset.Summary
	Rev() uint64
}

// ClaimSource supplies the allowed-but-unpaid claim total and its revision.
type ClaimSource interface {
	OutstandingAllowed() int64
	Rev() uint64
}

type CreateParams struct {
	Name         string
	Relationship string
	Share        decimal.Decimal
	Address      string
	Contact      string
}

// Line is one beneficiary's row in a calculation result.
type Line struct {
	BeneficiaryID uuid.UUID
	Name          string
	Share         decimal.Decimal
	Amount        int64
}

type Result struct {
	NetDistributable int64
	Lines            []Line
	CalculatedAt     time.Time
}

// Calculator converts beneficiary shares and the net distributable value
// into cent amounts. A calculation is only valid against the exact asset
// and claim state it was computed from: the source revision counters are
// recorded at calculation time and re-checked by Approve, so distributions
// are never approved against stale valuations.
type Calculator struct {
	assets AssetSource
	claims ClaimSource

	bens  map[uuid.UUID]*Beneficiary
	order []uuid.UUID

	calculated   bool
	calcAssetRev uint64
	calcClaimRev uint64
	calcBenRev   uint64
	benRev       uint64
	lastResult   Result

	now func() time.Time
}

func NewCalculator(assets AssetSource, claims ClaimSource) *Calculator {
	return &Calculator{
		assets: assets,
		claims: claims,
		bens:   make(map[uuid.UUID]*Beneficiary),
		now:    time.Now,
	}
}

// RestoreCalculator rebuilds a calculator from previously exported
// beneficiaries, keeping ids, amounts and statuses. The restored state has
// no live calculation: approvals already granted stand, but any further
// approval requires a fresh Calculate against the restored sources.
func RestoreCalculator(assets AssetSource, claims ClaimSource, bens []*Beneficiary) *Calculator {
	c := NewCalculator(assets, claims)

	for _, b := range bens {
		c.bens[b.ID] = b
		c.order = append(c.order, b.ID)
	}

	c.benRev = uint64(len(bens))

	return c
}

func (c *Calculator) Len() int {
	return len(c.bens)
}

func (c *Calculator) AddBeneficiary(p CreateParams) (*Beneficiary, error) {
	const op = "distribution.AddBeneficiary"

	if strings.TrimSpace(p.Name) == "" {
		return nil, fault.Validation(op, "beneficiary name is required")
	}

	if !p.Share.IsPositive() || p.Share.GreaterThan(hundred) {
		return nil, fault.Validation(op, "share percentage must be in (0, 100], got %s", p.Share)
	}

	if c.anyApproved() {
		return nil, fault.Invariant(op, "distributions already approved, beneficiaries are frozen")
	}

	b := &Beneficiary{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(p.Name),
		Relationship: p.Relationship,
		Share:        p.Share,
		Address:      p.Address,
		Contact:      p.Contact,
		Status:       StatusPending,
		AddedAt:      c.now(),
	}

	c.bens[b.ID] = b
	c.order = append(c.order, b.ID)
	c.benRev++

	return b, nil
}

func (c *Calculator) Get(id uuid.UUID) (*Beneficiary, error) {
	b, ok := c.bens[id]
	if !ok {
		return nil, fault.Reference("distribution.Get", "unknown beneficiary %s", id)
	}

	return b, nil
}

// Beneficiaries returns all beneficiaries in intake order.
func (c *Calculator) Beneficiaries() []*Beneficiary {
	out := make([]*Beneficiary, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.bens[id])
	}

	return out
}

// ShareSum is the current total of all share percentages.
func (c *Calculator) ShareSum() decimal.Decimal {
	sum := decimal.Zero
	for _, id := range c.order {
		sum = sum.Add(c.bens[id].Share)
	}

	return sum
}

// Calculate computes each beneficiary's distribution from the net
// distributable value: ledger net value minus allowed-but-unpaid claims,
// floored at zero. Shares must sum to exactly 100; anything else raises an
// imbalance error carrying the actual sum rather than normalizing.
func (c *Calculator) Calculate() (Result, error) {
	const op = "distribution.Calculate"

	if len(c.bens) == 0 {
		return Result{}, fault.Invariant(op, "no beneficiaries on record")
	}

	if sum := c.ShareSum(); !sum.Equal(hundred) {
		return Result{}, &fault.ImbalanceError{Op: op, Sum: sum}
	}

	net := c.assets.Summary().NetValue - c.claims.OutstandingAllowed()
	if net < 0 {
		net = 0
	}

	netDec := decimal.NewFromInt(net)
	res := Result{NetDistributable: net, CalculatedAt: c.now()}

	for _, id := range c.order {
		b := c.bens[id]
		b.Amount = netDec.Mul(b.Share).Div(hundred).Round(0).IntPart()

		res.Lines = append(res.Lines, Line{
			BeneficiaryID: b.ID,
			Name:          b.Name,
			Share:         b.Share,
			Amount:        b.Amount,
		})
	}

	c.calculated = true
	c.calcAssetRev = c.assets.Rev()
	c.calcClaimRev = c.claims.Rev()
	c.calcBenRev = c.benRev
	c.lastResult = res

	return res, nil
}

// Fresh reports whether a calculation exists and no asset, claim or
// beneficiary mutation has happened since it ran.
func (c *Calculator) Fresh() bool {
	return c.calculated &&
		c.calcAssetRev == c.assets.Rev() &&
		c.calcClaimRev == c.claims.Rev() &&
		c.calcBenRev == c.benRev
}

// LastResult returns the most recent calculation, valid only while Fresh.
func (c *Calculator) LastResult() (Result, bool) {
	return c.lastResult, c.Fresh()
}

// Approve moves every pending beneficiary to approved. It requires a fresh
// calculation; any upstream mutation since Calculate invalidates it.
func (c *Calculator) Approve() error {
	const op = "distribution.Approve"

	if !c.calculated {
		return fault.Invariant(op, "no calculation on record, run Calculate first")
	}

	if !c.Fresh() {
		return fault.Invariant(op, "calculation is stale, assets or claims changed since it ran")
	}

	for _, id := range c.order {
		if b := c.bens[id]; b.Status == StatusPending {
			b.Status = StatusApproved
		}
	}

	return nil
}

// RecordPayment marks an approved distribution as made.
func (c *Calculator) RecordPayment(id uuid.UUID) error {
	const op = "distribution.RecordPayment"

	b, ok := c.bens[id]
	if !ok {
		return fault.Reference(op, "unknown beneficiary %s", id)
	}

	if b.Status != StatusApproved {
		return fault.Invariant(op, "beneficiary %s is %s, only approved distributions can be paid", id, b.Status)
	}

	b.Status = StatusDistributed

	return nil
}

// Approved reports whether every beneficiary is at least approved (and at
// least one exists).
func (c *Calculator) Approved() bool {
	if len(c.bens) == 0 {
		return false
	}

	for _, b := range c.bens {
		if b.Status == StatusPending {
			return false
		}
	}

	return true
}

// AllDistributed reports whether every distribution has been paid out.
func (c *Calculator) AllDistributed() bool {
	if len(c.bens) == 0 {
		return false
	}

	for _, b := range c.bens {
		if b.Status != StatusDistributed {
			return false
		}
	}

	return true
}

func (c *Calculator) anyApproved() bool {
	for _, b := range c.bens {
		if b.Status != StatusPending {
			return true
		}
	}

	return false
}
