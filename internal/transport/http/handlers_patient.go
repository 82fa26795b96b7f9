package httptransport

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"medilabel/internal/patient"
	"medilabel/internal/session"
	dErrors "medilabel/pkg/domain-errors"
	"medilabel/pkg/platform/httputil"
	"medilabel/pkg/platform/sentinel"
	"medilabel/pkg/requestcontext"
)

type PatientHandler struct {
	directory patient.Directory
	session   *session.Context
	logger    *slog.Logger
	observer  LookupObserver
}

// LookupObserver counts patient lookups by outcome.
type LookupObserver interface {
	RecordPatientLookup(outcome string)
}

type noopLookupObserver struct{}

func (noopLookupObserver) RecordPatientLookup(string) {}

func NewPatientHandler(directory patient.Directory, sess *session.Context, logger *slog.Logger, observer LookupObserver) *PatientHandler {
	if observer == nil {
		observer = noopLookupObserver{}
	}
	return &PatientHandler{directory: directory, session: sess, logger: logger, observer: observer}
}

func (h *PatientHandler) Register(r chi.Router) {
	r.Get("/api/patients/search", h.handleSearch)
	r.Delete("/api/patients/select", h.handleDeselect)
	r.Get("/api/session", h.handleSession)
}

// handleSearch looks the patient up and pins them to the session. Every
// basket line and label from here on belongs to this patient.
func (h *PatientHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	patientID, err1 := strconv.Atoi(r.URL.Query().Get("patientId"))
	year, err2 := strconv.Atoi(r.URL.Query().Get("year"))
	if err1 != nil || err2 != nil || patientID <= 0 || year <= 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "patientId and year query parameters are required"))
		return
	}

	p, err := h.directory.FindPatient(ctx, patientID, year)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			h.observer.RecordPatientLookup("miss")
			httputil.WriteError(w, dErrors.Newf(dErrors.CodeNotFound, "no patient %d/%d on file", patientID, year))
			return
		}
		h.observer.RecordPatientLookup("error")
		h.logger.ErrorContext(ctx, "patient lookup failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeStore, "look up patient"))
		return
	}

	h.observer.RecordPatientLookup("hit")
	h.session.SetPatient(p)
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *PatientHandler) handleDeselect(w http.ResponseWriter, _ *http.Request) {
	h.session.ClearPatient()
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	Operator *string          `json:"operator"`
	Patient  *patient.Patient `json:"patient"`
}

// handleSession reports who is logged in and which patient is selected
// so the UI can restore itself after a reload.
func (h *PatientHandler) handleSession(w http.ResponseWriter, _ *http.Request) {
	var resp sessionResponse
	if op, ok := h.session.Operator(); ok {
		resp.Operator = &op.FullName
	}
	if p, ok := h.session.Patient(); ok {
		resp.Patient = &p
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
