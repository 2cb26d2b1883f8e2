// Package workflow composes the estate managers into one lifecycle and is
// the single entry point external callers use.
package workflow

import (
	"time"

	"github.com/mwhardin/probata/internal/asset"
	"github.com/mwhardin/probata/internal/creditor"
	"github.com/mwhardin/probata/internal/deadline"
	"github.com/mwhardin/probata/internal/distribution"
	"github.com/mwhardin/probata/internal/estate"
	"github.com/mwhardin/probata/internal/fault"
	"github.com/mwhardin/probata/internal/rules"
)

// Engine owns one estate aggregate and its managers. It is single-writer:
// callers serialize access to one engine (the Registry does this for the
// HTTP layer); separate estates share nothing and need no coordination.
type Engine struct {
	est     *estate.Estate
	ledger  *asset.Ledger
	claims  *creditor.Register
	dist    *distribution.Calculator
	rule    rules.Rule
	tracker *deadline.Tracker
	now     func() time.Time
}

// New opens an estate. The jurisdiction must resolve in the rule table up
// front; deadline math against an unknown jurisdiction would be silent
// fiction.
func New(p estate.CreateParams, table *rules.Table) (*Engine, error) {
	est, err := estate.New(p)
	if err != nil {
		return nil, err
	}

	rule, err := table.Lookup(est.Jurisdiction.State)
	if err != nil {
		return nil, err
	}

	claims := creditor.NewRegister()
	ledger := asset.NewLedger(claims)

	return &Engine{
		est:     est,
		ledger:  ledger,
		claims:  claims,
		dist:    distribution.NewCalculator(ledger, claims),
		rule:    rule,
		tracker: deadline.NewTracker(rule, deadline.Triggers{Opened: est.OpenedAt}),
		now:     time.Now,
	}, nil
}

func (e *Engine) Estate() *estate.Estate                  { return e.est }
func (e *Engine) Assets() *asset.Ledger                   { return e.ledger }
func (e *Engine) Claims() *creditor.Register              { return e.claims }
func (e *Engine) Distributions() *distribution.Calculator { return e.dist }
func (e *Engine) Deadlines() *deadline.Tracker            { return e.tracker }
func (e *Engine) Rule() rules.Rule                        { return e.rule }

// Check is one failed transition precondition, phrased for a human
// checklist.
type Check struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Transition is the structured outcome of an Advance attempt. A failed
// precondition is an expected, user-facing condition, not an error: the
// process is advanced by a person working down the checklist.
type Transition struct {
	From   estate.Status `json:"from"`
	To     estate.Status `json:"to"`
	OK     bool          `json:"ok"`
	Failed []Check       `json:"failed,omitempty"`
}

// Advance attempts to move the estate to target, which must be the single
// defined successor of the current status; the lifecycle never skips or
// rolls back. Unknown statuses are a validation error; everything else is
// reported in the Transition result.
func (e *Engine) Advance(target estate.Status) (Transition, error) {
	const op = "workflow.Advance"

	if !target.Valid() {
		return Transition{}, fault.Validation(op, "unknown status %q", target)
	}

	tr := Transition{From: e.est.Status, To: target}

	next, ok := e.est.Status.Next()
	if !ok {
		tr.Failed = append(tr.Failed, Check{
			Code:   "terminal_status",
			Detail: "estate is closed, no further transitions exist",
		})

		return tr, nil
	}

	if target != next {
		tr.Failed = append(tr.Failed, Check{
			Code:   "not_next_status",
			Detail: "status can only advance from " + string(e.est.Status) + " to " + string(next),
		})

		return tr, nil
	}

	tr.Failed = e.preconditions(target)
	if len(tr.Failed) > 0 {
		return tr, nil
	}

	now := e.now()
	e.est.Status = target
	e.est.Milestones[target] = now
	e.applyMilestone(target, now)
	tr.OK = true

	return tr, nil
}

// preconditions returns the failed checks for a transition into target.
func (e *Engine) preconditions(target estate.Status) []Check {
	var failed []Check

	fail := func(code, detail string) {
		failed = append(failed, Check{Code: code, Detail: detail})
	}

	switch target {
	case estate.StatusPetitionFiled:
		if e.est.Representative.Name == "" {
			fail("representative_missing", "a personal representative must be named before the petition is filed")
		}

	case estate.StatusInventoryFiled:
		if e.ledger.Len() == 0 {
			fail("inventory_empty", "at least one asset must be on the inventory")
		}

		for _, a := range e.ledger.Assets() {
			if a.EstimatedValue == 0 && a.FairMarketValue == nil {
				fail("asset_unvalued", "asset "+a.Description+" has neither an estimated nor a fair-market value")
			}
		}

	case estate.StatusCreditorPeriodClosed:
		if e.claims.PendingAdjudication() {
			fail("claims_pending", "every filed claim must be allowed or denied before the period closes")
		}

	case estate.StatusDistributionsApproved:
		if !e.dist.Approved() {
			if e.dist.Len() == 0 {
				fail("no_beneficiaries", "no beneficiaries are on record")
			} else if !e.dist.Fresh() {
				fail("calculation_stale", "distributions must be calculated against the current asset and claim state")
			} else {
				fail("distributions_unapproved", "distributions have not been approved")
			}
		}

	case estate.StatusFinalAccountFiled:
		if !e.claims.AllAllowedPaid() {
			fail("claims_unpaid", "every allowed claim must be paid before the final account is filed")
		}

	case estate.StatusClosed:
		if !e.dist.AllDistributed() {
			fail("distributions_outstanding", "every approved distribution must be paid out")
		}

		if len(e.tracker.Overdue()) > 0 {
			fail("deadlines_overdue", "overdue deadlines must be completed or resolved before closing")
		}
	}

	return failed
}

// applyMilestone updates deadline triggers and auto-completes the deadline
// a milestone satisfies.
func (e *Engine) applyMilestone(target estate.Status, at time.Time) {
	switch target {
	case estate.StatusLettersIssued, estate.StatusCreditorPeriodOpen:
		e.tracker.SetTriggers(e.triggers())
	case estate.StatusInventoryFiled:
		_ = e.tracker.MarkCompleted(deadline.TypeInventoryFiling, &at)
	case estate.StatusCreditorPeriodClosed:
		_ = e.tracker.MarkCompleted(deadline.TypeCreditorClaimPeriodEnd, &at)
	case estate.StatusFinalAccountFiled:
		_ = e.tracker.MarkCompleted(deadline.TypeFinalAccounting, &at)
	}
}

func (e *Engine) triggers() deadline.Triggers {
	trig := deadline.Triggers{Opened: e.est.OpenedAt}

	if at, ok := e.est.Milestones[estate.StatusLettersIssued]; ok {
		letters := at
		trig.LettersIssued = &letters
	}

	if at, ok := e.est.Milestones[estate.StatusCreditorPeriodOpen]; ok {
		opened := at
		trig.CreditorPeriodOpened = &opened
	}

	return trig
}

// grossValue is the estate's gross value for threshold tests: the larger of
// the estimated and appraised inventory totals, or the intake estimate while
// the inventory is still empty.
func (e *Engine) grossValue(assets asset.Summary) int64 {
	if e.ledger.Len() == 0 {
		return e.est.EstimatedGrossValue
	}

	gross := assets.TotalEstimated
	if assets.TotalAppraised > gross {
		gross = assets.TotalAppraised
	}

	return gross
}

// DistributionState is the calculator's position in the summary snapshot.
type DistributionState struct {
	ShareSum         string                      `json:"share_sum"`
	Calculated       bool                        `json:"calculated"`
	NetDistributable int64                       `json:"net_distributable_cents"`
	Beneficiaries    []*distribution.Beneficiary `json:"-"`
}

// Summary is the consistent read-only snapshot reporting and document
// generation consume. Deadline lists honor the lookahead window.
type Summary struct {
	EstateID                  string
	DecedentName              string
	Jurisdiction              string
	Status                    estate.Status
	Assets                    asset.Summary
	Claims                    creditor.Report
	Distributions             DistributionState
	Upcoming                  []deadline.Deadline
	Overdue                   []deadline.Deadline
	SmallEstateEligible       bool
	BondRequired              bool
	IndependentAdministration bool
	GeneratedAt               time.Time
}

func (e *Engine) Summary(lookaheadDays int) Summary {
	assets := e.ledger.Summary()

	dist := DistributionState{
		ShareSum:      e.dist.ShareSum().String(),
		Beneficiaries: e.dist.Beneficiaries(),
	}
	if res, fresh := e.dist.LastResult(); fresh {
		dist.Calculated = true
		dist.NetDistributable = res.NetDistributable
	}

	gross := e.grossValue(assets)

	return Summary{
		EstateID:                  e.est.ID.String(),
		DecedentName:              e.est.DecedentName,
		Jurisdiction:              e.est.Jurisdiction.String(),
		Status:                    e.est.Status,
		Assets:                    assets,
		Claims:                    e.claims.Report(),
		Distributions:             dist,
		Upcoming:                  e.tracker.Upcoming(lookaheadDays),
		Overdue:                   e.tracker.Overdue(),
		SmallEstateEligible:       gross <= e.rule.SmallEstateThreshold,
		BondRequired:              e.rule.BondRequired,
		IndependentAdministration: e.rule.IndependentAdministration,
		GeneratedAt:               e.now(),
	}
}
