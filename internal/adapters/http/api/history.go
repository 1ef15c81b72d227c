package api

import (
	"errors"
	"net/http"
	"strconv"

	service "github.com/okian/formline/internal/app"
	"github.com/okian/formline/internal/domain/model"
)

// HistoryHandler handles history read and clear requests.
type HistoryHandler struct {
	deps Dependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps Dependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

type historyResponse struct {
	Count int               `json:"count"`
	Bets  []model.LinkedBet `json:"bets"`
}

// HandleGetHistory handles GET /history requests. An optional limit query
// parameter keeps only the most recent rows.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		limit = v
	}

	bets, err := h.deps.History(r.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLimit) {
			writeError(w, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if bets == nil {
		bets = []model.LinkedBet{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Count: len(bets), Bets: bets})
}

// HandleClearHistory handles POST /clear-history requests.
func (h *HistoryHandler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	if err := h.deps.ClearHistory(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "history cleared"})
}
