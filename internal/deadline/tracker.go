package deadline

import (
	"sort"
	"time"

	"github.com/mwhardin/probata/internal/fault"
	"github.com/mwhardin/probata/internal/rules"
)

// Triggers are the estate dates deadlines derive from. Opened is always
// set; the later milestones narrow the clocks they govern once reached.
type Triggers struct {
	Opened               time.Time
	LettersIssued        *time.Time
	CreditorPeriodOpened *time.Time
}

// Compute derives all deadlines for one estate from its trigger dates and
// the active rule entry. It is a pure function: same inputs, same dates.
//
// The inventory clock runs from the letters-issued date once letters exist,
// else from the estate opening. The claim-period clock runs from the day
// the period opened, falling back the same way. The final accounting runs
// from the opening date.
func Compute(trig Triggers, rule rules.Rule) []Deadline {
	inventoryBase := trig.Opened
	if trig.LettersIssued != nil {
		inventoryBase = *trig.LettersIssued
	}

	claimBase := inventoryBase
	if trig.CreditorPeriodOpened != nil {
		claimBase = *trig.CreditorPeriodOpened
	}

	return []Deadline{
		{Type: TypeInventoryFiling, DueDate: inventoryBase.AddDate(0, 0, rule.InventoryDeadlineDays)},
		{Type: TypeCreditorClaimPeriodEnd, DueDate: claimBase.AddDate(0, 0, rule.CreditorClaimPeriodDays)},
		{Type: TypeFinalAccounting, DueDate: trig.Opened.AddDate(0, 0, rule.FinalAccountDeadlineDays)},
	}
}

// Tracker overlays completion state on the computed deadlines. Completions
// are recorded per type and survive recomputation; due dates of incomplete
// obligations always reflect the current triggers and rule table.
type Tracker struct {
	rule        rules.Rule
	triggers    Triggers
	completions map[Type]time.Time
	now         func() time.Time
}

func NewTracker(rule rules.Rule, trig Triggers) *Tracker {
	return &Tracker{
		rule:        rule,
		triggers:    trig,
		completions: make(map[Type]time.Time),
		now:         time.Now,
	}
}

// SetTriggers replaces the trigger dates; derived due dates shift with them.
func (t *Tracker) SetTriggers(trig Triggers) {
	t.triggers = trig
}

// SetRule replaces the active rule entry, e.g. after a table reload.
func (t *Tracker) SetRule(rule rules.Rule) {
	t.rule = rule
}

// Deadlines returns all deadlines with completion state applied, sorted by
// due date ascending.
func (t *Tracker) Deadlines() []Deadline {
	ds := Compute(t.triggers, t.rule)

	for i := range ds {
		if at, ok := t.completions[ds[i].Type]; ok {
			completedAt := at
			ds[i].Completed = true
			ds[i].CompletedAt = &completedAt
		}
	}

	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].DueDate.Before(ds[j].DueDate)
	})

	return ds
}

// Upcoming returns incomplete deadlines due within daysAhead from now,
// soonest first.
func (t *Tracker) Upcoming(daysAhead int) []Deadline {
	now := t.now()
	horizon := now.AddDate(0, 0, daysAhead)

	var out []Deadline

	for _, d := range t.Deadlines() {
		if d.Completed || d.DueDate.Before(now) || d.DueDate.After(horizon) {
			continue
		}

		out = append(out, d)
	}

	return out
}

// Overdue returns incomplete deadlines whose due date has passed.
func (t *Tracker) Overdue() []Deadline {
	now := t.now()

	var out []Deadline

	for _, d := range t.Deadlines() {
		if d.Completed || !d.DueDate.Before(now) {
			continue
		}

		out = append(out, d)
	}

	return out
}

// MarkCompleted records completion of a deadline type. completedAt defaults
// to now. Marking an already completed deadline again is a no-op.
func (t *Tracker) MarkCompleted(typ Type, completedAt *time.Time) error {
	switch typ {
	case TypeInventoryFiling, TypeCreditorClaimPeriodEnd, TypeFinalAccounting:
	default:
		return fault.Reference("deadline.MarkCompleted", "unknown deadline type %q", typ)
	}

	if _, done := t.completions[typ]; done {
		return nil
	}

	at := t.now()
	if completedAt != nil {
		at = *completedAt
	}

	t.completions[typ] = at

	return nil
}

// Completed reports whether the given deadline type has been completed.
func (t *Tracker) Completed(typ Type) bool {
	_, ok := t.completions[typ]
	return ok
}
