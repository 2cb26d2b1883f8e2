package creditor

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mwhardin/probata/internal/fault"
)

type CreateParams struct {
	Type          Type
	Name          string
	AmountClaimed int64
	Priority      int
	Description   string
}

// Register tracks claims against one estate. Mutations bump the revision
// counter so the distribution calculator can detect stale figures.
type Register struct {
	claims map[uuid.UUID]*Claim
	order  []uuid.UUID
	rev    uint64
	now    func() time.Time
}

func NewRegister() *Register {
	return &Register{
		claims: make(map[uuid.UUID]*Claim),
		now:    time.Now,
	}
}

// RestoreRegister rebuilds a register from previously exported claims,
// keeping their ids and filing order. Used when loading a snapshot.
func RestoreRegister(claims []*Claim) *Register {
	r := NewRegister()

	for _, c := range claims {
		r.claims[c.ID] = c
		r.order = append(r.order, c.ID)
	}

	r.rev = uint64(len(claims))

	return r
}

func (r *Register) Rev() uint64 {
	return r.rev
}

func (r *Register) Len() int {
	return len(r.claims)
}

// Exists satisfies the asset ledger's creditor directory.
func (r *Register) Exists(id uuid.UUID) bool {
	_, ok := r.claims[id]
	return ok
}

func (r *Register) AddCreditor(p CreateParams) (*Claim, error) {
	const op = "creditor.AddCreditor"

	if !p.Type.Valid() {
		return nil, fault.Validation(op, "unknown claim type %q", p.Type)
	}

	if strings.TrimSpace(p.Name) == "" {
		return nil, fault.Validation(op, "creditor name is required")
	}

	if p.AmountClaimed < 0 {
		return nil, fault.Validation(op, "amount claimed must not be negative, got %d", p.AmountClaimed)
	}

	if p.Priority < 0 {
		return nil, fault.Validation(op, "priority level must not be negative, got %d", p.Priority)
	}

	c := &Claim{
		ID:            uuid.New(),
		Type:          p.Type,
		Name:          strings.TrimSpace(p.Name),
		Description:   p.Description,
		AmountClaimed: p.AmountClaimed,
		Priority:      p.Priority,
		Status:        StatusFiled,
		FiledAt:       r.now(),
	}

	r.claims[c.ID] = c
	r.order = append(r.order, c.ID)
	r.rev++

	return c, nil
}

func (r *Register) Get(id uuid.UUID) (*Claim, error) {
	c, ok := r.claims[id]
	if !ok {
		return nil, fault.Reference("creditor.Get", "unknown creditor %s", id)
	}

	return c, nil
}

// MarkProofReceived records receipt of the proof-of-claim document.
func (r *Register) MarkProofReceived(id uuid.UUID) error {
	c, ok := r.claims[id]
	if !ok {
		return fault.Reference("creditor.MarkProofReceived", "unknown creditor %s", id)
	}

	if !c.ProofReceived {
		c.ProofReceived = true
		r.rev++
	}

	return nil
}

// BeginReview moves a filed claim under review.
func (r *Register) BeginReview(id uuid.UUID) error {
	const op = "creditor.BeginReview"

	c, ok := r.claims[id]
	if !ok {
		return fault.Reference(op, "unknown creditor %s", id)
	}

	if c.Status != StatusFiled {
		return fault.Invariant(op, "claim %s is %s, only filed claims can enter review", id, c.Status)
	}

	c.Status = StatusUnderReview
	r.rev++

	return nil
}

// ProcessClaim adjudicates a claim. An allowed amount of zero denies it.
// Claims may be re-adjudicated until paid; paid claims are final.
func (r *Register) ProcessClaim(id uuid.UUID, allowedAmount int64) error {
	const op = "creditor.ProcessClaim"

	c, ok := r.claims[id]
	if !ok {
		return fault.Reference(op, "unknown creditor %s", id)
	}

	if c.Status == StatusPaid {
		return fault.Invariant(op, "claim %s is already paid", id)
	}

	if allowedAmount < 0 {
		return fault.Validation(op, "allowed amount must not be negative, got %d", allowedAmount)
	}

	if allowedAmount > c.AmountClaimed {
		return fault.Invariant(op, "allowed amount %d exceeds amount claimed %d", allowedAmount, c.AmountClaimed)
	}

	c.AmountAllowed = &allowedAmount
	if allowedAmount == 0 {
		c.Status = StatusDenied
	} else {
		c.Status = StatusAllowed
	}

	r.rev++

	return nil
}

// MarkPaid records payment of an allowed claim. A claim can never reach
// paid without having been allowed first.
func (r *Register) MarkPaid(id uuid.UUID) error {
	const op = "creditor.MarkPaid"

	c, ok := r.claims[id]
	if !ok {
		return fault.Reference(op, "unknown creditor %s", id)
	}

	if c.Status != StatusAllowed {
		return fault.Invariant(op, "claim %s is %s, only allowed claims can be paid", id, c.Status)
	}

	c.Status = StatusPaid
	r.rev++

	return nil
}

// Claims returns all claims in filing order.
func (r *Register) Claims() []*Claim {
	out := make([]*Claim, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.claims[id])
	}

	return out
}

// OutstandingAllowed is the total allowed but not yet paid, the amount the
// distribution calculator holds back from the net estate.
func (r *Register) OutstandingAllowed() int64 {
	var total int64

	for _, c := range r.claims {
		if c.Status == StatusAllowed {
			total += c.Allowed()
		}
	}

	return total
}

// PendingAdjudication reports whether any claim is still filed or under
// review.
func (r *Register) PendingAdjudication() bool {
	for _, c := range r.claims {
		if c.Status == StatusFiled || c.Status == StatusUnderReview {
			return true
		}
	}

	return false
}

// AllAllowedPaid reports whether every allowed claim has been paid.
func (r *Register) AllAllowedPaid() bool {
	for _, c := range r.claims {
		if c.Status == StatusAllowed {
			return false
		}
	}

	return true
}

type PriorityGroup struct {
	Priority     int
	Claims       []*Claim
	AllowedTotal int64
}

type Report struct {
	// Groups holds outstanding (unpaid, undenied) claims by priority level
	// ascending, then type. This is the intended payment order.
	Groups []PriorityGroup

	TotalClaimed       int64
	TotalAllowed       int64
	TotalPaid          int64
	OutstandingAllowed int64
}

func (r *Register) Report() Report {
	rep := Report{}
	byPriority := make(map[int][]*Claim)

	for _, id := range r.order {
		c := r.claims[id]

		rep.TotalClaimed += c.AmountClaimed
		rep.TotalAllowed += c.Allowed()

		if c.Status == StatusPaid {
			rep.TotalPaid += c.Allowed()
			continue
		}

		if c.Status == StatusDenied {
			continue
		}

		byPriority[c.Priority] = append(byPriority[c.Priority], c)
	}

	rep.OutstandingAllowed = r.OutstandingAllowed()

	priorities := make([]int, 0, len(byPriority))
	for p := range byPriority {
		priorities = append(priorities, p)
	}

	sort.Ints(priorities)

	for _, p := range priorities {
		claims := byPriority[p]
		sort.SliceStable(claims, func(i, j int) bool {
			return claims[i].Type < claims[j].Type
		})

		g := PriorityGroup{Priority: p, Claims: claims}
		for _, c := range claims {
			g.AllowedTotal += c.Allowed()
		}

		rep.Groups = append(rep.Groups, g)
	}

	return rep
}
