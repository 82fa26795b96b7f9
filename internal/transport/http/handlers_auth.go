package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"medilabel/internal/basket"
	"medilabel/internal/operator"
	"medilabel/internal/session"
	dErrors "medilabel/pkg/domain-errors"
	"medilabel/pkg/platform/httputil"
	"medilabel/pkg/requestcontext"
)

type AuthHandler struct {
	operators *operator.Service
	session   *session.Context
	basket    *basket.Service
	logger    *slog.Logger
	observer  LoginObserver
}

// LoginObserver counts login attempts by outcome.
type LoginObserver interface {
	RecordLogin(outcome string)
}

type noopLoginObserver struct{}

func (noopLoginObserver) RecordLogin(string) {}

func NewAuthHandler(operators *operator.Service, sess *session.Context, basketSvc *basket.Service, logger *slog.Logger, observer LoginObserver) *AuthHandler {
	if observer == nil {
		observer = noopLoginObserver{}
	}
	return &AuthHandler{operators: operators, session: sess, basket: basketSvc, logger: logger, observer: observer}
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/api/auth/login", h.handleLogin)
	r.Post("/api/auth/logout", h.handleLogout)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	FullName    string `json:"fullName"`
	AccessLevel string `json:"accessLevel"`
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	op, err := h.operators.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.observer.RecordLogin("failure")
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) || dErrors.HasCode(err, dErrors.CodeValidation) {
			httputil.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "login failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "login failed"))
		return
	}

	h.observer.RecordLogin("success")
	h.session.SetOperator(op)
	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		FullName:    op.FullName,
		AccessLevel: op.AccessLevel,
	})
}

// handleLogout ends the shift: operator, selected patient, and any
// half-built basket are all dropped so the next operator starts clean.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.session.ClearOperator()
	h.session.ClearPatient()
	if err := h.basket.Clear(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "basket clear on logout failed",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
