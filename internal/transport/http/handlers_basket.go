package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medilabel/internal/basket"
	dErrors "medilabel/pkg/domain-errors"
	"medilabel/pkg/platform/httputil"
	"medilabel/pkg/requestcontext"
)

type BasketHandler struct {
	basket *basket.Service
	logger *slog.Logger
}

func NewBasketHandler(svc *basket.Service, logger *slog.Logger) *BasketHandler {
	return &BasketHandler{basket: svc, logger: logger}
}

func (h *BasketHandler) Register(r chi.Router) {
	r.Get("/api/basket", h.handleList)
	r.Post("/api/basket/add", h.handleAdd)
	r.Put("/api/basket/{id}/expiry", h.handleSetExpiry)
	r.Delete("/api/basket/{id}", h.handleRemove)
	r.Delete("/api/basket", h.handleClear)
}

func (h *BasketHandler) handleList(w http.ResponseWriter, r *http.Request) {
	lines, err := h.basket.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "list basket")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"lines": lines})
}

type addLineRequest struct {
	DrugName        string `json:"drugName"`
	InstructionText string `json:"instructionText"`
}

func (h *BasketHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	line, err := h.basket.Add(r.Context(), req.DrugName, req.InstructionText)
	if err != nil {
		h.writeServiceError(w, r, err, "add basket line")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, line)
}

type setExpiryRequest struct {
	Month *string `json:"month"`
	Year  *string `json:"year"`
}

// handleSetExpiry accepts either component, or both. A field that is
// present but empty clears that component.
func (h *BasketHandler) handleSetExpiry(w http.ResponseWriter, r *http.Request) {
	var req setExpiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Month == nil && req.Year == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "month or year is required"))
		return
	}

	id := chi.URLParam(r, "id")
	var (
		line basket.Line
		err  error
	)
	if req.Month != nil {
		line, err = h.basket.SetExpiryMonth(r.Context(), id, *req.Month)
		if err != nil {
			h.writeServiceError(w, r, err, "set expiry month")
			return
		}
	}
	if req.Year != nil {
		line, err = h.basket.SetExpiryYear(r.Context(), id, *req.Year)
		if err != nil {
			h.writeServiceError(w, r, err, "set expiry year")
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, line)
}

func (h *BasketHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.basket.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err, "remove basket line")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BasketHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.basket.Clear(r.Context()); err != nil {
		h.writeServiceError(w, r, err, "clear basket")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BasketHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	if dErrors.HasCode(err, dErrors.CodeStore) || dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(r.Context(), action+" failed",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
	}
	httputil.WriteError(w, err)
}
