package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/accountvault/internal/application"
	"github.com/ericfisherdev/accountvault/internal/domain/model"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

// orgHeader carries the organization a request is scoped to.
const orgHeader = "X-Org-ID"

// maxBodyBytes caps JSON request bodies. SSH keys and certificate chains fit
// comfortably.
const maxBodyBytes = 1 << 20

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	accounts     *application.AccountService
	accountTypes driven.AccountTypeStore
	namespaces   driven.NamespaceStore
	health       *application.HealthService
	logger       *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	accounts *application.AccountService,
	accountTypes driven.AccountTypeStore,
	namespaces driven.NamespaceStore,
	health *application.HealthService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		accounts:     accounts,
		accountTypes: accountTypes,
		namespaces:   namespaces,
		health:       health,
		logger:       logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with request ID, org scoping, logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)

	mux.HandleFunc("GET /api/v1/accounts", h.ListAccounts)
	mux.HandleFunc("POST /api/v1/accounts", h.CreateAccount)
	mux.HandleFunc("GET /api/v1/accounts/{id}", h.GetAccount)
	mux.HandleFunc("PUT /api/v1/accounts/{id}", h.UpdateAccount)
	mux.HandleFunc("DELETE /api/v1/accounts/{id}", h.DeleteAccount)
	mux.HandleFunc("PUT /api/v1/accounts/{id}/extra-props", h.SaveExtraProps)
	mux.HandleFunc("GET /api/v1/accounts/{id}/secret", h.GetSecret)
	mux.HandleFunc("POST /api/v1/accounts/{id}/secret", h.CreateSecret)
	mux.HandleFunc("PUT /api/v1/accounts/{id}/secret", h.UpdateSecret)

	mux.HandleFunc("GET /api/v1/account-types", h.ListAccountTypes)
	mux.HandleFunc("POST /api/v1/account-types", h.AddAccountType)
	mux.HandleFunc("DELETE /api/v1/account-types/{id}", h.RemoveAccountType)

	mux.HandleFunc("GET /api/v1/namespaces", h.ListNamespaces)
	mux.HandleFunc("POST /api/v1/namespaces", h.AddNamespace)
	mux.HandleFunc("DELETE /api/v1/namespaces/{id}", h.RemoveNamespace)

	// Recovery innermost so panics are caught before logging. Org scoping and
	// request IDs wrap logging so the request log carries both.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = orgMiddleware(wrapped)
	wrapped = requestIDMiddleware(wrapped)

	return wrapped
}

// Health reports database reachability and the active secret backend.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.health.Check(r.Context())

	resp := HealthResponse{
		Status:        "ok",
		Database:      status.Database,
		SecretBackend: status.SecretBackend,
		Time:          status.CheckedAt.Format(time.RFC3339),
	}
	code := http.StatusOK
	if !status.Healthy {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, resp)
}

// orgMiddleware scopes the request context to the organization named in the
// X-Org-ID header. Requests without the header use model.DefaultOrgID.
func orgMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if org := r.Header.Get(orgHeader); org != "" {
			r = r.WithContext(model.WithOrg(r.Context(), org))
		}
		next.ServeHTTP(w, r)
	})
}
