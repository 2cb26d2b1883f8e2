package estates_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwhardin/probata/internal/http/estates"
	"github.com/mwhardin/probata/internal/importer"
	"github.com/mwhardin/probata/internal/rules"
	"github.com/mwhardin/probata/internal/workflow"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	table, err := rules.NewTable([]rules.Rule{{
		Jurisdiction:             "TX",
		SmallEstateThreshold:     7_500_000,
		InventoryDeadlineDays:    90,
		CreditorClaimPeriodDays:  120,
		FinalAccountDeadlineDays: 365,
	}})
	require.NoError(t, err)

	h := estates.NewHandler(workflow.NewRegistry(table), importer.NewService(), 30)

	r := chi.NewRouter()
	r.Route("/estates", h.Routes)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return srv
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)

	if buf.Len() > 0 {
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded), "body: %s", buf.String())
	}

	return resp, decoded
}

func openEstate(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/estates", `{
		"decedent_name": "Margaret Holt",
		"date_of_death": "2024-01-10T00:00:00Z",
		"state": "TX",
		"county": "Travis",
		"representative": "Daniel Holt",
		"estimated_gross_value_cents": 30000000
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	id, ok := body["estate_id"].(string)
	require.True(t, ok, "estate_id missing from %v", body)

	return id
}

func TestHandler_CreateAndSummary(t *testing.T) {
	srv := newServer(t)
	id := openEstate(t, srv)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/estates/"+id, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "Margaret Holt", body["decedent_name"])
	assert.Equal(t, "Travis, TX", body["jurisdiction"])
	assert.Equal(t, "intake", body["status"])
	assert.Equal(t, false, body["small_estate_eligible"])
}

func TestHandler_AssetAndClaimFlow(t *testing.T) {
	srv := newServer(t)
	id := openEstate(t, srv)

	resp, assetBody := doJSON(t, http.MethodPost, srv.URL+"/estates/"+id+"/assets", `{
		"type": "real_property",
		"description": "Primary residence",
		"estimated_value_cents": 30000000
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(30000000), assetBody["net_value_cents"])

	resp, claimBody := doJSON(t, http.MethodPost, srv.URL+"/estates/"+id+"/claims", `{
		"type": "funeral",
		"name": "Restland Funeral Home",
		"amount_claimed_cents": 1200000,
		"priority": 2
	}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "filed", claimBody["status"])

	claimID := claimBody["id"].(string)

	resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/estates/"+id+"/claims/"+claimID+"/review", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, claimBody = doJSON(t, http.MethodPatch, srv.URL+"/estates/"+id+"/claims/"+claimID+"/adjudicate", `{
		"amount_allowed_cents": 1000000
	}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "allowed", claimBody["status"])
	assert.Equal(t, float64(1000000), claimBody["amount_allowed_cents"])
}

func TestHandler_ErrorMapping(t *testing.T) {
	srv := newServer(t)
	id := openEstate(t, srv)

	t.Run("unknown estate is 404", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodGet, srv.URL+"/estates/00000000-0000-0000-0000-000000000001", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "reference", body["kind"])
	})

	t.Run("invalid input is 422", func(t *testing.T) {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/estates/"+id+"/assets", `{
			"type": "spaceship",
			"description": "x",
			"estimated_value_cents": 100
		}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "validation", body["kind"])
	})

	t.Run("paying an unallowed claim is 409", func(t *testing.T) {
		resp, claimBody := doJSON(t, http.MethodPost, srv.URL+"/estates/"+id+"/claims", `{
			"type": "general_unsecured",
			"name": "Acme Credit",
			"amount_claimed_cents": 50000,
			"priority": 6
		}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		claimID := claimBody["id"].(string)

		resp, body := doJSON(t, http.MethodPatch, srv.URL+"/estates/"+id+"/claims/"+claimID+"/paid", "")
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "invariant", body["kind"])
	})

	t.Run("imbalanced shares are 422", func(t *testing.T) {
		resp, _ := doJSON(t, http.MethodPost, srv.URL+"/estates/"+id+"/beneficiaries", `{
			"name": "Daniel Holt",
			"relationship": "son",
			"share_percent": "60"
		}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		resp, body := doJSON(t, http.MethodPost, srv.URL+"/estates/"+id+"/distributions/calculate", "")
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "imbalance", body["kind"])
	})
}

func TestHandler_Advance(t *testing.T) {
	srv := newServer(t)
	id := openEstate(t, srv)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/estates/"+id+"/advance", `{"target": "petition_filed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "petition_filed", body["to"])

	// Skipping a stage is reported as a failed check, not an HTTP error.
	resp, body = doJSON(t, http.MethodPost, srv.URL+"/estates/"+id+"/advance", `{"target": "inventory_filed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["ok"])

	failed, ok := body["failed"].([]any)
	require.True(t, ok)

	check := failed[0].(map[string]any)
	assert.Equal(t, "not_next_status", check["code"])
}

func TestHandler_ImportCSV(t *testing.T) {
	srv := newServer(t)
	id := openEstate(t, srv)

	var buf bytes.Buffer
	mw := newMultipart(t, &buf, "inventory.csv", "Asset Description,Value\nChecking account,\"12,000.00\"\n")

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/estates/"+id+"/assets/import", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(1), body["imported"])
}

func newMultipart(t *testing.T, buf *bytes.Buffer, filename, content string) string {
	t.Helper()

	w := multipart.NewWriter(buf)

	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)

	_, err = fmt.Fprint(fw, content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return w.FormDataContentType()
}
