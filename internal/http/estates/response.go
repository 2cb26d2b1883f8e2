package estates

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mwhardin/probata/internal/asset"
	"github.com/mwhardin/probata/internal/creditor"
	"github.com/mwhardin/probata/internal/deadline"
	"github.com/mwhardin/probata/internal/distribution"
	"github.com/mwhardin/probata/internal/estate"
	"github.com/mwhardin/probata/internal/fault"
	"github.com/mwhardin/probata/internal/workflow"
)

type estateListItem struct {
	ID           uuid.UUID     `json:"id"`
	DecedentName string        `json:"decedent_name"`
	Jurisdiction string        `json:"jurisdiction"`
	Status       estate.Status `json:"status"`
	OpenedAt     time.Time     `json:"opened_at"`
}

type assetResponse struct {
	ID              uuid.UUID  `json:"id"`
	Type            asset.Type `json:"type"`
	Description     string     `json:"description"`
	Location        string     `json:"location,omitempty"`
	EstimatedValue  int64      `json:"estimated_value_cents"`
	FairMarketValue *int64     `json:"fair_market_value_cents,omitempty"`
	NetValue        int64      `json:"net_value_cents"`
	Deficiency      int64      `json:"deficiency_cents,omitempty"`
	AddedAt         time.Time  `json:"added_at"`
}

func toAssetResponse(a *asset.Asset) assetResponse {
	return assetResponse{
		ID:              a.ID,
		Type:            a.Type,
		Description:     a.Description,
		Location:        a.Location,
		EstimatedValue:  a.EstimatedValue,
		FairMarketValue: a.FairMarketValue,
		NetValue:        a.NetValue(),
		Deficiency:      a.Deficiency(),
		AddedAt:         a.AddedAt,
	}
}

type claimResponse struct {
	ID            uuid.UUID       `json:"id"`
	Type          creditor.Type   `json:"type"`
	Name          string          `json:"name"`
	AmountClaimed int64           `json:"amount_claimed_cents"`
	AmountAllowed *int64          `json:"amount_allowed_cents,omitempty"`
	Priority      int             `json:"priority"`
	ProofReceived bool            `json:"proof_received"`
	Status        creditor.Status `json:"status"`
	FiledAt       time.Time       `json:"filed_at"`
}

func toClaimResponse(c *creditor.Claim) claimResponse {
	return claimResponse{
		ID:            c.ID,
		Type:          c.Type,
		Name:          c.Name,
		AmountClaimed: c.AmountClaimed,
		AmountAllowed: c.AmountAllowed,
		Priority:      c.Priority,
		ProofReceived: c.ProofReceived,
		Status:        c.Status,
		FiledAt:       c.FiledAt,
	}
}

type beneficiaryResponse struct {
	ID           uuid.UUID           `json:"id"`
	Name         string              `json:"name"`
	Relationship string              `json:"relationship,omitempty"`
	Share        string              `json:"share_percent"`
	Amount       int64               `json:"distribution_amount_cents"`
	Status       distribution.Status `json:"status"`
}

func toBeneficiaryResponse(b *distribution.Beneficiary) beneficiaryResponse {
	return beneficiaryResponse{
		ID:           b.ID,
		Name:         b.Name,
		Relationship: b.Relationship,
		Share:        b.Share.String(),
		Amount:       b.Amount,
		Status:       b.Status,
	}
}

type deadlineResponse struct {
	Type        deadline.Type `json:"type"`
	DueDate     time.Time     `json:"due_date"`
	Completed   bool          `json:"completed"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

func toDeadlineResponses(dls []deadline.Deadline) []deadlineResponse {
	resp := make([]deadlineResponse, len(dls))
	for i, d := range dls {
		resp[i] = deadlineResponse{
			Type:        d.Type,
			DueDate:     d.DueDate,
			Completed:   d.Completed,
			CompletedAt: d.CompletedAt,
		}
	}

	return resp
}

type summaryResponse struct {
	EstateID                  string                `json:"estate_id"`
	DecedentName              string                `json:"decedent_name"`
	Jurisdiction              string                `json:"jurisdiction"`
	Status                    estate.Status         `json:"status"`
	TotalEstimated            int64                 `json:"total_estimated_cents"`
	TotalAppraised            int64                 `json:"total_appraised_cents"`
	TotalEncumbrance          int64                 `json:"total_encumbrance_cents"`
	NetEstateValue            int64                 `json:"net_estate_value_cents"`
	TotalDeficiency           int64                 `json:"total_deficiency_cents,omitempty"`
	TotalClaimed              int64                 `json:"total_claimed_cents"`
	TotalAllowed              int64                 `json:"total_allowed_cents"`
	OutstandingAllowed        int64                 `json:"outstanding_allowed_cents"`
	ShareSum                  string                `json:"share_sum_percent"`
	Calculated                bool                  `json:"distributions_calculated"`
	NetDistributable          int64                 `json:"net_distributable_cents,omitempty"`
	Beneficiaries             []beneficiaryResponse `json:"beneficiaries"`
	Upcoming                  []deadlineResponse    `json:"upcoming_deadlines"`
	Overdue                   []deadlineResponse    `json:"overdue_deadlines"`
	SmallEstateEligible       bool                  `json:"small_estate_eligible"`
	BondRequired              bool                  `json:"bond_required"`
	IndependentAdministration bool                  `json:"independent_administration"`
	GeneratedAt               time.Time             `json:"generated_at"`
}

func toSummaryResponse(s workflow.Summary) summaryResponse {
	bens := make([]beneficiaryResponse, 0, len(s.Distributions.Beneficiaries))
	for _, b := range s.Distributions.Beneficiaries {
		bens = append(bens, toBeneficiaryResponse(b))
	}

	return summaryResponse{
		EstateID:                  s.EstateID,
		DecedentName:              s.DecedentName,
		Jurisdiction:              s.Jurisdiction,
		Status:                    s.Status,
		TotalEstimated:            s.Assets.TotalEstimated,
		TotalAppraised:            s.Assets.TotalAppraised,
		TotalEncumbrance:          s.Assets.TotalEncumbrance,
		NetEstateValue:            s.Assets.NetValue,
		TotalDeficiency:           s.Assets.TotalDeficiency,
		TotalClaimed:              s.Claims.TotalClaimed,
		TotalAllowed:              s.Claims.TotalAllowed,
		OutstandingAllowed:        s.Claims.OutstandingAllowed,
		ShareSum:                  s.Distributions.ShareSum,
		Calculated:                s.Distributions.Calculated,
		NetDistributable:          s.Distributions.NetDistributable,
		Beneficiaries:             bens,
		Upcoming:                  toDeadlineResponses(s.Upcoming),
		Overdue:                   toDeadlineResponses(s.Overdue),
		SmallEstateEligible:       s.SmallEstateEligible,
		BondRequired:              s.BondRequired,
		IndependentAdministration: s.IndependentAdministration,
		GeneratedAt:               s.GeneratedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string     `json:"error"`
	Kind  fault.Kind `json:"kind,omitempty"`
}

// writeError maps error kinds to HTTP statuses: rejected input is 422,
// unknown references 404, operations illegal in the current state 409.
func writeError(w http.ResponseWriter, err error) {
	kind := fault.KindOf(err)

	status := http.StatusInternalServerError

	switch kind {
	case fault.KindValidation, fault.KindImbalance:
		status = http.StatusUnprocessableEntity
	case fault.KindReference:
		status = http.StatusNotFound
	case fault.KindInvariant:
		status = http.StatusConflict
	case fault.KindConfiguration:
		// Raised at request time only for unknown jurisdictions; rule-table
		// problems surface at startup.
		status = http.StatusBadRequest
	}

	writeJSON(w, status, errorResponse{Error: err.Error(), Kind: kind})
}
