package workflow

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mwhardin/probata/internal/asset"
	"github.com/mwhardin/probata/internal/creditor"
	"github.com/mwhardin/probata/internal/deadline"
	"github.com/mwhardin/probata/internal/distribution"
	"github.com/mwhardin/probata/internal/estate"
	"github.com/mwhardin/probata/internal/fault"
	"github.com/mwhardin/probata/internal/rules"
)

// Snapshot is the fully serializable representation of an estate aggregate:
// the four entity collections plus the computed summary. It is the exchange
// format for persistence and for the document generator, which pulls values
// from it by field name. All amounts are cents.
type Snapshot struct {
	Estate        EstateSnapshot        `json:"estate"`
	Assets        []AssetSnapshot       `json:"assets"`
	Creditors     []ClaimSnapshot       `json:"creditors"`
	Beneficiaries []BeneficiarySnapshot `json:"beneficiaries"`
	Deadlines     []DeadlineSnapshot    `json:"deadlines"`
	Summary       SummarySnapshot       `json:"summary"`
	ExportedAt    time.Time             `json:"exported_at"`
}

type EstateSnapshot struct {
	ID                  uuid.UUID                    `json:"id"`
	DecedentName        string                       `json:"decedent_name"`
	DateOfDeath         time.Time                    `json:"date_of_death"`
	State               string                       `json:"state"`
	County              string                       `json:"county,omitempty"`
	Representative      RepresentativeSnapshot       `json:"representative"`
	EstimatedGrossValue int64                        `json:"estimated_gross_value_cents"`
	Status              estate.Status                `json:"status"`
	OpenedAt            time.Time                    `json:"opened_at"`
	Milestones          map[estate.Status]time.Time  `json:"milestones"`
}

type RepresentativeSnapshot struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

type AssetSnapshot struct {
	ID              uuid.UUID  `json:"id"`
	Type            asset.Type `json:"type"`
	Description     string     `json:"description"`
	Location        string     `json:"location,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	EstimatedValue  int64      `json:"estimated_value_cents"`
	FairMarketValue *int64     `json:"fair_market_value_cents,omitempty"`
	AppraisalDate   *time.Time `json:"appraisal_date,omitempty"`
	EncumbranceCreditorID *uuid.UUID `json:"encumbrance_creditor_id,omitempty"`
	EncumbranceAmount     int64      `json:"encumbrance_amount_cents,omitempty"`
	NetValue        int64      `json:"net_value_cents"`
	Deficiency      int64      `json:"deficiency_cents,omitempty"`
	AddedAt         time.Time  `json:"added_at"`
}

type ClaimSnapshot struct {
	ID                uuid.UUID       `json:"id"`
	Type              creditor.Type   `json:"type"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	AmountClaimed     int64           `json:"amount_claimed_cents"`
	AmountAllowed     *int64          `json:"amount_allowed_cents,omitempty"`
	Priority          int             `json:"priority"`
	ProofReceived     bool            `json:"proof_received"`
	Status            creditor.Status `json:"status"`
	FiledAt           time.Time       `json:"filed_at"`
	CollateralAssetID *uuid.UUID      `json:"collateral_asset_id,omitempty"`
}

type BeneficiarySnapshot struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Relationship string              `json:"relationship,omitempty"`
	Share        string              `json:"share_percent"`
	Address      string              `json:"address,omitempty"`
	Contact      string              `json:"contact,omitempty"`
	Amount       int64               `json:"distribution_amount_cents"`
	Status       distribution.Status `json:"status"`
	AddedAt      time.Time           `json:"added_at"`
}

type DeadlineSnapshot struct {
	Type        deadline.Type `json:"type"`
	DueDate     time.Time     `json:"due_date"`
	Completed   bool          `json:"completed"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

type SummarySnapshot struct {
	TotalEstimated      int64 `json:"total_estimated_cents"`
	TotalAppraised      int64 `json:"total_appraised_cents"`
	TotalEncumbrance    int64 `json:"total_encumbrance_cents"`
	NetEstateValue      int64 `json:"net_estate_value_cents"`
	TotalDeficiency     int64 `json:"total_deficiency_cents"`
	TotalClaimed        int64 `json:"total_claimed_cents"`
	TotalAllowed        int64 `json:"total_allowed_cents"`
	TotalPaid           int64 `json:"total_paid_cents"`
	OutstandingAllowed  int64 `json:"outstanding_allowed_cents"`
	SmallEstateEligible bool  `json:"small_estate_eligible"`
	BondRequired        bool  `json:"bond_required"`
}

// Export produces the serializable snapshot of the whole aggregate.
func (e *Engine) Export() Snapshot {
	est := e.est

	snap := Snapshot{
		Estate: EstateSnapshot{
			ID:           est.ID,
			DecedentName: est.DecedentName,
			DateOfDeath:  est.DateOfDeath,
			State:        est.Jurisdiction.State,
			County:       est.Jurisdiction.County,
			Representative: RepresentativeSnapshot{
				Name:    est.Representative.Name,
				Phone:   est.Representative.Phone,
				Email:   est.Representative.Email,
				Address: est.Representative.Address,
			},
			EstimatedGrossValue: est.EstimatedGrossValue,
			Status:              est.Status,
			OpenedAt:            est.OpenedAt,
			Milestones:          est.Milestones,
		},
		ExportedAt: e.now(),
	}

	for _, a := range e.ledger.Assets() {
		as := AssetSnapshot{
			ID:              a.ID,
			Type:            a.Type,
			Description:     a.Description,
			Location:        a.Location,
			Notes:           a.Notes,
			EstimatedValue:  a.EstimatedValue,
			FairMarketValue: a.FairMarketValue,
			AppraisalDate:   a.AppraisalDate,
			NetValue:        a.NetValue(),
			Deficiency:      a.Deficiency(),
			AddedAt:         a.AddedAt,
		}
		if a.Encumbrance != nil {
			id := a.Encumbrance.CreditorID
			as.EncumbranceCreditorID = &id
			as.EncumbranceAmount = a.Encumbrance.Amount
		}

		snap.Assets = append(snap.Assets, as)
	}

	for _, c := range e.claims.Claims() {
		snap.Creditors = append(snap.Creditors, ClaimSnapshot{
			ID:                c.ID,
			Type:              c.Type,
			Name:              c.Name,
			Description:       c.Description,
			AmountClaimed:     c.AmountClaimed,
			AmountAllowed:     c.AmountAllowed,
			Priority:          c.Priority,
			ProofReceived:     c.ProofReceived,
			Status:            c.Status,
			FiledAt:           c.FiledAt,
			CollateralAssetID: c.CollateralAssetID,
		})
	}

	for _, b := range e.dist.Beneficiaries() {
		snap.Beneficiaries = append(snap.Beneficiaries, BeneficiarySnapshot{
			ID:           b.ID,
			Name:         b.Name,
			Relationship: b.Relationship,
			Share:        b.Share.String(),
			Address:      b.Address,
			Contact:      b.Contact,
			Amount:       b.Amount,
			Status:       b.Status,
			AddedAt:      b.AddedAt,
		})
	}

	for _, d := range e.tracker.Deadlines() {
		snap.Deadlines = append(snap.Deadlines, DeadlineSnapshot{
			Type:        d.Type,
			DueDate:     d.DueDate,
			Completed:   d.Completed,
			CompletedAt: d.CompletedAt,
		})
	}

	assets := e.ledger.Summary()
	claims := e.claims.Report()

	gross := e.grossValue(assets)

	snap.Summary = SummarySnapshot{
		TotalEstimated:      assets.TotalEstimated,
		TotalAppraised:      assets.TotalAppraised,
		TotalEncumbrance:    assets.TotalEncumbrance,
		NetEstateValue:      assets.NetValue,
		TotalDeficiency:     assets.TotalDeficiency,
		TotalClaimed:        claims.TotalClaimed,
		TotalAllowed:        claims.TotalAllowed,
		TotalPaid:           claims.TotalPaid,
		OutstandingAllowed:  claims.OutstandingAllowed,
		SmallEstateEligible: gross <= e.rule.SmallEstateThreshold,
		BondRequired:        e.rule.BondRequired,
	}

	return snap
}

// ExportJSON is Export marshaled for storage or transport.
func (e *Engine) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(e.Export(), "", "  ")
}

// Restore rebuilds a live engine from a snapshot. The jurisdiction must
// still resolve in the supplied rule table.
func Restore(snap Snapshot, table *rules.Table) (*Engine, error) {
	const op = "workflow.Restore"

	es := snap.Estate
	if !es.Status.Valid() {
		return nil, fault.Configuration(op, "snapshot has unknown estate status %q", es.Status)
	}

	rule, err := table.Lookup(es.State)
	if err != nil {
		return nil, err
	}

	milestones := es.Milestones
	if milestones == nil {
		milestones = make(map[estate.Status]time.Time)
	}

	est := &estate.Estate{
		ID:           es.ID,
		DecedentName: es.DecedentName,
		DateOfDeath:  es.DateOfDeath,
		Jurisdiction: estate.Jurisdiction{State: es.State, County: es.County},
		Representative: estate.Representative{
			Name:    es.Representative.Name,
			Phone:   es.Representative.Phone,
			Email:   es.Representative.Email,
			Address: es.Representative.Address,
		},
		EstimatedGrossValue: es.EstimatedGrossValue,
		Status:              es.Status,
		OpenedAt:            es.OpenedAt,
		Milestones:          milestones,
	}

	claims := make([]*creditor.Claim, 0, len(snap.Creditors))
	for _, cs := range snap.Creditors {
		claims = append(claims, &creditor.Claim{
			ID:                cs.ID,
			Type:              cs.Type,
			Name:              cs.Name,
			Description:       cs.Description,
			AmountClaimed:     cs.AmountClaimed,
			AmountAllowed:     cs.AmountAllowed,
			Priority:          cs.Priority,
			ProofReceived:     cs.ProofReceived,
			Status:            cs.Status,
			FiledAt:           cs.FiledAt,
			CollateralAssetID: cs.CollateralAssetID,
		})
	}

	register := creditor.RestoreRegister(claims)

	assets := make([]*asset.Asset, 0, len(snap.Assets))
	for _, as := range snap.Assets {
		a := &asset.Asset{
			ID:              as.ID,
			Type:            as.Type,
			Description:     as.Description,
			Location:        as.Location,
			Notes:           as.Notes,
			EstimatedValue:  as.EstimatedValue,
			FairMarketValue: as.FairMarketValue,
			AppraisalDate:   as.AppraisalDate,
			AddedAt:         as.AddedAt,
		}
		if as.EncumbranceCreditorID != nil {
			a.Encumbrance = &asset.Encumbrance{
				CreditorID: *as.EncumbranceCreditorID,
				Amount:     as.EncumbranceAmount,
			}
		}

		assets = append(assets, a)
	}

	ledger := asset.RestoreLedger(register, assets)

	bens := make([]*distribution.Beneficiary, 0, len(snap.Beneficiaries))
	for _, bs := range snap.Beneficiaries {
		share, err := decimal.NewFromString(bs.Share)
		if err != nil {
			return nil, fault.Configuration(op, "beneficiary %s has malformed share %q", bs.ID, bs.Share)
		}

		bens = append(bens, &distribution.Beneficiary{
			ID:           bs.ID,
			Name:         bs.Name,
			Relationship: bs.Relationship,
			Share:        share,
			Address:      bs.Address,
			Contact:      bs.Contact,
			Amount:       bs.Amount,
			Status:       bs.Status,
			AddedAt:      bs.AddedAt,
		})
	}

	e := &Engine{
		est:     est,
		ledger:  ledger,
		claims:  register,
		dist:    distribution.RestoreCalculator(ledger, register, bens),
		rule:    rule,
		tracker: deadline.NewTracker(rule, deadline.Triggers{Opened: est.OpenedAt}),
		now:     time.Now,
	}

	e.tracker.SetTriggers(e.triggers())

	for _, ds := range snap.Deadlines {
		if ds.Completed {
			if err := e.tracker.MarkCompleted(ds.Type, ds.CompletedAt); err != nil {
				return nil, err
			}
		}
	}

	return e, nil
}

// RestoreJSON is Restore from marshaled bytes.
func RestoreJSON(data []byte, table *rules.Table) (*Engine, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fault.Configuration("workflow.RestoreJSON", "malformed snapshot: %v", err)
	}

	return Restore(snap, table)
}
