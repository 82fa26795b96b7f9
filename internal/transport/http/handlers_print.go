package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medilabel/internal/printing"
	dErrors "medilabel/pkg/domain-errors"
	"medilabel/pkg/platform/httputil"
	"medilabel/pkg/requestcontext"
)

type PrintHandler struct {
	printing *printing.Service
	logger   *slog.Logger
}

func NewPrintHandler(svc *printing.Service, logger *slog.Logger) *PrintHandler {
	return &PrintHandler{printing: svc, logger: logger}
}

func (h *PrintHandler) Register(r chi.Router) {
	r.Post("/api/print", h.handlePrint)
}

type printRequest struct {
	Quantity int `json:"quantity"`
}

// handlePrint runs the whole pipeline. A missing body means one copy of
// each label.
func (h *PrintHandler) handlePrint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := printRequest{Quantity: 1}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
			return
		}
	}

	result, err := h.printing.Print(ctx, req.Quantity)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeStore) || dErrors.HasCode(err, dErrors.CodeInternal) || dErrors.HasCode(err, dErrors.CodeRenderFailed) {
			h.logger.ErrorContext(ctx, "print session failed",
				"error", err,
				"session_id", result.SessionID,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
