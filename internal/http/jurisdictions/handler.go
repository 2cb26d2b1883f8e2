package jurisdictions

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mwhardin/probata/internal/rules"
)

type Handler struct {
	table *rules.Table
}

func NewHandler(table *rules.Table) *Handler {
	return &Handler{table: table}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{code}", h.get)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.table.Jurisdictions())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rule, err := h.table.Lookup(chi.URLParam(r, "code"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, rule)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
