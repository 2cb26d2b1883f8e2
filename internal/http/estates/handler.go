package estates

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mwhardin/probata/internal/asset"
	"github.com/mwhardin/probata/internal/creditor"
	"github.com/mwhardin/probata/internal/distribution"
	"github.com/mwhardin/probata/internal/estate"
	"github.com/mwhardin/probata/internal/importer"
	"github.com/mwhardin/probata/internal/workflow"
)

type Handler struct {
	reg           *workflow.Registry
	importSvc     *importer.Service
	lookaheadDays int
}

func NewHandler(reg *workflow.Registry, importSvc *importer.Service, lookaheadDays int) *Handler {
	return &Handler{
		reg:           reg,
		importSvc:     importSvc,
		lookaheadDays: lookaheadDays,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.summary)
	r.Get("/{id}/export", h.export)
	r.Get("/{id}/deadlines", h.deadlines)
	r.Post("/{id}/advance", h.advance)

	r.Post("/{id}/assets", h.addAsset)
	r.Post("/{id}/assets/import", h.importAssets)
	r.Patch("/{id}/assets/{assetID}/valuation", h.updateValuation)
	r.Patch("/{id}/assets/{assetID}/encumbrance", h.encumber)

	r.Post("/{id}/claims", h.addClaim)
	r.Patch("/{id}/claims/{claimID}/proof", h.markProofReceived)
	r.Patch("/{id}/claims/{claimID}/review", h.beginReview)
	r.Patch("/{id}/claims/{claimID}/adjudicate", h.adjudicate)
	r.Patch("/{id}/claims/{claimID}/paid", h.markClaimPaid)

	r.Post("/{id}/beneficiaries", h.addBeneficiary)
	r.Post("/{id}/distributions/calculate", h.calculate)
	r.Post("/{id}/distributions/approve", h.approve)
	r.Patch("/{id}/beneficiaries/{beneficiaryID}/paid", h.markDistributed)
}

type createEstateRequest struct {
	DecedentName        string    `json:"decedent_name"`
	DateOfDeath         time.Time `json:"date_of_death"`
	State               string    `json:"state"`
	County              string    `json:"county"`
	Representative      string    `json:"representative"`
	RepresentativePhone string    `json:"representative_phone"`
	RepresentativeEmail string    `json:"representative_email"`
	EstimatedGrossValue int64     `json:"estimated_gross_value_cents"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createEstateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id, err := h.reg.Open(estate.CreateParams{
		DecedentName: req.DecedentName,
		DateOfDeath:  req.DateOfDeath,
		Jurisdiction: estate.Jurisdiction{State: req.State, County: req.County},
		Representative: estate.Representative{
			Name:  req.Representative,
			Phone: req.RepresentativePhone,
			Email: req.RepresentativeEmail,
		},
		EstimatedGrossValue: req.EstimatedGrossValue,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	var resp summaryResponse

	_ = h.reg.Do(id, func(eng *workflow.Engine) error {
		resp = toSummaryResponse(eng.Summary(h.lookaheadDays))
		return nil
	})

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	items := make([]estateListItem, 0)

	for _, id := range h.reg.IDs() {
		_ = h.reg.Do(id, func(eng *workflow.Engine) error {
			est := eng.Estate()
			items = append(items, estateListItem{
				ID:           est.ID,
				DecedentName: est.DecedentName,
				Jurisdiction: est.Jurisdiction.String(),
				Status:       est.Status,
				OpenedAt:     est.OpenedAt,
			})

			return nil
		})
	}

	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		return toSummaryResponse(eng.Summary(h.lookaheadDays)), http.StatusOK, nil
	})
}

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		return eng.Export(), http.StatusOK, nil
	})
}

func (h *Handler) deadlines(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		return toDeadlineResponses(eng.Deadlines().Deadlines()), http.StatusOK, nil
	})
}

type advanceRequest struct {
	Target estate.Status `json:"target"`
}

func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		tr, err := eng.Advance(req.Target)
		if err != nil {
			return nil, 0, err
		}

		// A failed checklist is a valid outcome, not an error status.
		return tr, http.StatusOK, nil
	})
}

type addAssetRequest struct {
	Type           asset.Type `json:"type"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	EstimatedValue int64      `json:"estimated_value_cents"`
	Notes          string     `json:"notes"`
}

func (h *Handler) addAsset(w http.ResponseWriter, r *http.Request) {
	var req addAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		a, err := eng.Assets().AddAsset(asset.CreateParams{
			Type:           req.Type,
			Description:    req.Description,
			Location:       req.Location,
			EstimatedValue: req.EstimatedValue,
			Notes:          req.Notes,
		})
		if err != nil {
			return nil, 0, err
		}

		return toAssetResponse(a), http.StatusCreated, nil
	})
}

type importResponse struct {
	Imported int             `json:"imported"`
	Assets   []assetResponse `json:"assets"`
}

func (h *Handler) importAssets(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatInventory
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		added, err := eng.Assets().AddBatch(params)
		if err != nil {
			return nil, 0, err
		}

		resp := importResponse{Imported: len(added)}
		for _, a := range added {
			resp.Assets = append(resp.Assets, toAssetResponse(a))
		}

		return resp, http.StatusCreated, nil
	})
}

type valuationRequest struct {
	FairMarketValue int64      `json:"fair_market_value_cents"`
	AppraisalDate   *time.Time `json:"appraisal_date"`
}

func (h *Handler) updateValuation(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(chi.URLParam(r, "assetID"))
	if err != nil {
		http.Error(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	var req valuationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		if err := eng.Assets().UpdateValuation(assetID, req.FairMarketValue, req.AppraisalDate); err != nil {
			return nil, 0, err
		}

		a, err := eng.Assets().Get(assetID)
		if err != nil {
			return nil, 0, err
		}

		return toAssetResponse(a), http.StatusOK, nil
	})
}

type encumbranceRequest struct {
	CreditorID uuid.UUID `json:"creditor_id"`
	Amount     int64     `json:"amount_cents"`
}

func (h *Handler) encumber(w http.ResponseWriter, r *http.Request) {
	assetID, err := uuid.Parse(chi.URLParam(r, "assetID"))
	if err != nil {
		http.Error(w, "invalid asset id", http.StatusBadRequest)
		return
	}

	var req encumbranceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		if err := eng.Assets().Encumber(assetID, req.CreditorID, req.Amount); err != nil {
			return nil, 0, err
		}

		a, err := eng.Assets().Get(assetID)
		if err != nil {
			return nil, 0, err
		}

		return toAssetResponse(a), http.StatusOK, nil
	})
}

type addClaimRequest struct {
	Type          creditor.Type `json:"type"`
	Name          string        `json:"name"`
	AmountClaimed int64         `json:"amount_claimed_cents"`
	Priority      int           `json:"priority"`
	Description   string        `json:"description"`
}

func (h *Handler) addClaim(w http.ResponseWriter, r *http.Request) {
	var req addClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		c, err := eng.Claims().AddCreditor(creditor.CreateParams{
			Type:          req.Type,
			Name:          req.Name,
			AmountClaimed: req.AmountClaimed,
			Priority:      req.Priority,
			Description:   req.Description,
		})
		if err != nil {
			return nil, 0, err
		}

		return toClaimResponse(c), http.StatusCreated, nil
	})
}

func (h *Handler) markProofReceived(w http.ResponseWriter, r *http.Request) {
	h.claimAction(w, r, func(eng *workflow.Engine, claimID uuid.UUID) error {
		return eng.Claims().MarkProofReceived(claimID)
	})
}

func (h *Handler) beginReview(w http.ResponseWriter, r *http.Request) {
	h.claimAction(w, r, func(eng *workflow.Engine, claimID uuid.UUID) error {
		return eng.Claims().BeginReview(claimID)
	})
}

type adjudicateRequest struct {
	AmountAllowed int64 `json:"amount_allowed_cents"`
}

func (h *Handler) adjudicate(w http.ResponseWriter, r *http.Request) {
	var req adjudicateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.claimAction(w, r, func(eng *workflow.Engine, claimID uuid.UUID) error {
		return eng.Claims().ProcessClaim(claimID, req.AmountAllowed)
	})
}

func (h *Handler) markClaimPaid(w http.ResponseWriter, r *http.Request) {
	h.claimAction(w, r, func(eng *workflow.Engine, claimID uuid.UUID) error {
		return eng.Claims().MarkPaid(claimID)
	})
}

type addBeneficiaryRequest struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Share        string `json:"share_percent"`
	Address      string `json:"address"`
	Contact      string `json:"contact"`
}

func (h *Handler) addBeneficiary(w http.ResponseWriter, r *http.Request) {
	var req addBeneficiaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	share, err := decimal.NewFromString(req.Share)
	if err != nil {
		http.Error(w, "invalid share percentage: "+err.Error(), http.StatusBadRequest)
		return
	}

	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		b, err := eng.Distributions().AddBeneficiary(distribution.CreateParams{
			Name:         req.Name,
			Relationship: req.Relationship,
			Share:        share,
			Address:      req.Address,
			Contact:      req.Contact,
		})
		if err != nil {
			return nil, 0, err
		}

		return toBeneficiaryResponse(b), http.StatusCreated, nil
	})
}

type calculationLine struct {
	BeneficiaryID uuid.UUID `json:"beneficiary_id"`
	Name          string    `json:"name"`
	Share         string    `json:"share_percent"`
	Amount        int64     `json:"amount_cents"`
}

type calculationResponse struct {
	NetDistributable int64             `json:"net_distributable_cents"`
	Lines            []calculationLine `json:"lines"`
	CalculatedAt     time.Time         `json:"calculated_at"`
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		res, err := eng.Distributions().Calculate()
		if err != nil {
			return nil, 0, err
		}

		resp := calculationResponse{
			NetDistributable: res.NetDistributable,
			CalculatedAt:     res.CalculatedAt,
		}
		for _, line := range res.Lines {
			resp.Lines = append(resp.Lines, calculationLine{
				BeneficiaryID: line.BeneficiaryID,
				Name:          line.Name,
				Share:         line.Share.String(),
				Amount:        line.Amount,
			})
		}

		return resp, http.StatusOK, nil
	})
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) {
	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		if err := eng.Distributions().Approve(); err != nil {
			return nil, 0, err
		}

		bens := make([]beneficiaryResponse, 0, eng.Distributions().Len())
		for _, b := range eng.Distributions().Beneficiaries() {
			bens = append(bens, toBeneficiaryResponse(b))
		}

		return bens, http.StatusOK, nil
	})
}

func (h *Handler) markDistributed(w http.ResponseWriter, r *http.Request) {
	beneficiaryID, err := uuid.Parse(chi.URLParam(r, "beneficiaryID"))
	if err != nil {
		http.Error(w, "invalid beneficiary id", http.StatusBadRequest)
		return
	}

	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		if err := eng.Distributions().RecordPayment(beneficiaryID); err != nil {
			return nil, 0, err
		}

		b, err := eng.Distributions().Get(beneficiaryID)
		if err != nil {
			return nil, 0, err
		}

		return toBeneficiaryResponse(b), http.StatusOK, nil
	})
}

// withEngine resolves the estate id from the URL, runs fn under the
// registry's per-estate lock, and writes either the returned payload or the
// mapped error.
func (h *Handler) withEngine(w http.ResponseWriter, r *http.Request, fn func(*workflow.Engine) (any, int, error)) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid estate id", http.StatusBadRequest)
		return
	}

	var (
		payload any
		status  int
	)

	err = h.reg.Do(id, func(eng *workflow.Engine) error {
		var ferr error
		payload, status, ferr = fn(eng)

		return ferr
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, status, payload)
}

// claimAction runs a claim mutation and responds with the updated claim.
func (h *Handler) claimAction(w http.ResponseWriter, r *http.Request, fn func(*workflow.Engine, uuid.UUID) error) {
	claimID, err := uuid.Parse(chi.URLParam(r, "claimID"))
	if err != nil {
		http.Error(w, "invalid claim id", http.StatusBadRequest)
		return
	}

	h.withEngine(w, r, func(eng *workflow.Engine) (any, int, error) {
		if err := fn(eng, claimID); err != nil {
			return nil, 0, err
		}

		c, err := eng.Claims().Get(claimID)
		if err != nil {
			return nil, 0, err
		}

		return toClaimResponse(c), http.StatusOK, nil
	})
}
