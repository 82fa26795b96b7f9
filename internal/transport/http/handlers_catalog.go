package httptransport

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medilabel/internal/catalog"
	dErrors "medilabel/pkg/domain-errors"
	"medilabel/pkg/platform/httputil"
	"medilabel/pkg/platform/sentinel"
	"medilabel/pkg/requestcontext"
)

type CatalogHandler struct {
	store  catalog.Store
	logger *slog.Logger
}

func NewCatalogHandler(store catalog.Store, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{store: store, logger: logger}
}

func (h *CatalogHandler) Register(r chi.Router) {
	r.Get("/api/medications", h.handleList)
	r.Get("/api/medications/{name}", h.handleFind)
}

func (h *CatalogHandler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meds, err := h.store.ListMedications(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list medications failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeStore, "list medications"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"medications": meds})
}

func (h *CatalogHandler) handleFind(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := chi.URLParam(r, "name")

	med, err := h.store.FindMedication(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeNotFound, "medication %q is not in the catalog", name))
			return
		}
		h.logger.ErrorContext(ctx, "find medication failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeStore, "find medication"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, med)
}
