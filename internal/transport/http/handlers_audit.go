package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medilabel/internal/audit"
	dErrors "medilabel/pkg/domain-errors"
	"medilabel/pkg/platform/httputil"
	"medilabel/pkg/requestcontext"
)

// RegistryStore is the server-side half of the remote sink: records
// posted by workstations land here.
type RegistryStore interface {
	Append(ctx context.Context, record audit.Record) (int64, error)
	List(ctx context.Context) ([]audit.Record, error)
}

type AuditHandler struct {
	audit    *audit.Service
	registry RegistryStore
	logger   *slog.Logger
}

func NewAuditHandler(svc *audit.Service, registry RegistryStore, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{audit: svc, registry: registry, logger: logger}
}

// Register wires the audit routes. Reading or purging the local log
// requires a logged-in operator; ingestion from other workstations does
// not, since those machines authenticate nobody.
func (h *AuditHandler) Register(r chi.Router, requireOperator func(http.Handler) http.Handler) {
	r.Post("/api/audit", h.handleIngest)
	r.Get("/api/audit/registry", h.handleRegistryList)

	r.Group(func(g chi.Router) {
		g.Use(requireOperator)
		g.Get("/api/audit/logs", h.handleLocalList)
		g.Delete("/api/audit/logs", h.handleLocalPurge)
	})
}

func (h *AuditHandler) handleIngest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var record audit.Record
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if record.DrugName == "" || record.PatientName == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "drugName and patientName are required"))
		return
	}

	auditID, err := h.registry.Append(ctx, record)
	if err != nil {
		h.logger.ErrorContext(ctx, "registry append failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeStore, "store audit record"))
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]int64{"auditId": auditID})
}

func (h *AuditHandler) handleRegistryList(w http.ResponseWriter, r *http.Request) {
	records, err := h.registry.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "registry list failed",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeStore, "list audit registry"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (h *AuditHandler) handleLocalList(w http.ResponseWriter, r *http.Request) {
	records, err := h.audit.Records(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "local audit list failed",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeStore, "list audit log"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"records": records})
}

func (h *AuditHandler) handleLocalPurge(w http.ResponseWriter, r *http.Request) {
	if err := h.audit.PurgeLocal(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "local audit purge failed",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeStore, "purge audit log"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
