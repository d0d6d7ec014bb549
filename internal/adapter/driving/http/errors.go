package httphandler

import (
	"errors"
	"net/http"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
	"github.com/ericfisherdev/accountvault/internal/domain/port/driven"
)

// errorStatus maps a domain or store error to an HTTP status. The message is
// safe to return to clients; 5xx details are only logged.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, driven.ErrAccountNotFound),
		errors.Is(err, driven.ErrAccountTypeNotFound),
		errors.Is(err, driven.ErrNamespaceNotFound),
		errors.Is(err, driven.ErrSecretNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, driven.ErrSecretAlreadyExists),
		errors.Is(err, driven.ErrAlreadyExists),
		errors.Is(err, driven.ErrReferenced):
		return http.StatusConflict, err.Error()

	case errors.Is(err, model.ErrInvalidAccount),
		errors.Is(err, driven.ErrInvalidPayload):
		return http.StatusBadRequest, err.Error()

	case errors.Is(err, driven.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "secret store unavailable"

	case errors.Is(err, driven.ErrStoreMisconfigured):
		return http.StatusInternalServerError, "secret store misconfigured"

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// writeDomainError writes err as a JSON error response, logging server-side
// failures with msg and the given attributes.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error, msg string, args ...any) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(msg, append(args, "error", err)...)
	}
	writeError(w, status, message)
}

// writePartialCreateError reports a failure that happened after account
// accountID was created, so the client can retry the failed step on it.
func (h *Handler) writePartialCreateError(w http.ResponseWriter, err error, accountID string) {
	status, message := errorStatus(err)
	h.logger.Warn("account created without secret", "account", accountID, "error", err)
	w.Header().Set("Location", "/api/v1/accounts/"+accountID)
	writeJSON(w, status, errorResponse{Error: message, AccountID: accountID})
}
