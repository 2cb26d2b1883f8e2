package estate

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mwhardin/probata/internal/fault"
)

// Status is the lifecycle state of an estate. Progression is strictly
// forward through statusOrder; the engine never rolls a status back.
type Status string

const (
	StatusIntake                Status = "intake"
	StatusPetitionFiled         Status = "petition_filed"
	StatusLettersIssued         Status = "letters_issued"
	StatusInventoryFiled        Status = "inventory_filed"
	StatusCreditorPeriodOpen    Status = "creditor_period_open"
	StatusCreditorPeriodClosed  Status = "creditor_period_closed"
	StatusDistributionsApproved Status = "distributions_approved"
	StatusFinalAccountFiled     Status = "final_account_filed"
	StatusClosed                Status = "closed"
)

var statusOrder = []Status{
	StatusIntake,
	StatusPetitionFiled,
	StatusLettersIssued,
	StatusInventoryFiled,
	StatusCreditorPeriodOpen,
	StatusCreditorPeriodClosed,
	StatusDistributionsApproved,
	StatusFinalAccountFiled,
	StatusClosed,
}

// Index returns the position of s in the lifecycle, or -1 if s is unknown.
func (s Status) Index() int {
	for i, st := range statusOrder {
		if st == s {
			return i
		}
	}

	return -1
}

func (s Status) Valid() bool {
	return s.Index() >= 0
}

// Next returns the single defined successor of s. ok is false for the
// terminal status and for unknown statuses.
func (s Status) Next() (Status, bool) {
	i := s.Index()
	if i < 0 || i == len(statusOrder)-1 {
		return "", false
	}

	return statusOrder[i+1], true
}

// Jurisdiction identifies the governing court.
type Jurisdiction struct {
	State  string
	County string
}

func (j Jurisdiction) String() string {
	if j.County == "" {
		return j.State
	}

	return j.County + ", " + j.State
}

// Representative is the personal representative (executor or administrator)
// appointed for the estate.
type Representative struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// Estate is the root aggregate for one decedent's administration.
// The keyed asset, creditor and beneficiary collections live in their
// owning managers; the estate itself holds identity, dates and status.
type Estate struct {
	ID                  uuid.UUID
	DecedentName        string
	DateOfDeath         time.Time
	Jurisdiction        Jurisdiction
	Representative      Representative
	EstimatedGrossValue int64 // cents
	Status              Status
	OpenedAt            time.Time

	// Milestones records the date each status was reached. Deadline triggers
	// derive from these dates; they are the authoritative record.
	Milestones map[Status]time.Time
}

type CreateParams struct {
	DecedentName        string
	DateOfDeath         time.Time
	Jurisdiction        Jurisdiction
	Representative      Representative
	EstimatedGrossValue int64
}

func New(p CreateParams) (*Estate, error) {
	const op = "estate.New"

	if strings.TrimSpace(p.DecedentName) == "" {
		return nil, fault.Validation(op, "decedent name is required")
	}

	if p.DateOfDeath.IsZero() {
		return nil, fault.Validation(op, "date of death is required")
	}

	if strings.TrimSpace(p.Jurisdiction.State) == "" {
		return nil, fault.Validation(op, "jurisdiction state is required")
	}

	if p.EstimatedGrossValue < 0 {
		return nil, fault.Validation(op, "estimated gross value must not be negative, got %d", p.EstimatedGrossValue)
	}

	now := time.Now()

	return &Estate{
		ID:                  uuid.New(),
		DecedentName:        strings.TrimSpace(p.DecedentName),
		DateOfDeath:         p.DateOfDeath,
		Jurisdiction:        p.Jurisdiction,
		Representative:      p.Representative,
		EstimatedGrossValue: p.EstimatedGrossValue,
		Status:              StatusIntake,
		OpenedAt:            now,
		Milestones:          map[Status]time.Time{StatusIntake: now},
	}, nil
}
