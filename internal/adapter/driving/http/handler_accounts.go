package httphandler

import (
	"context"
	"net/http"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
)

// ListAccounts returns every account in the caller's organization.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accounts.List(r.Context())
	if err != nil {
		h.writeDomainError(w, err, "failed to list accounts")
		return
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, toAccountResponse(a))
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetAccount returns a single account's metadata.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toAccountResponse(*acct))
}

// CreateAccount creates an account. When the body carries a secret it is
// pushed to the secret store after the metadata is saved. If that push fails
// the account remains; the error body carries its account_id so the secret can
// be created separately.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req AccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct := &model.Account{IsActive: true}
	req.applyTo(acct)

	if err := h.accounts.Create(r.Context(), acct); err != nil {
		h.writeDomainError(w, err, "failed to create account", "name", req.Name)
		return
	}

	if req.Secret != "" {
		if err := h.accounts.CreateSecret(r.Context(), acct, req.Secret); err != nil {
			h.writePartialCreateError(w, err, acct.ID)
			return
		}
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(*acct))
}

// UpdateAccount overwrites an account's metadata. A secret in the body is
// ignored; secret material only changes through the secret endpoint.
func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}

	var req AccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.applyTo(acct)

	if err := h.accounts.Save(r.Context(), acct); err != nil {
		h.writeDomainError(w, err, "failed to update account", "account", acct.ID)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(*acct))
}

// SaveExtraProps replaces an account's extra properties with the JSON object
// in the body.
func (h *Handler) SaveExtraProps(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}

	var props model.ExtraProps
	if err := decodeJSON(w, r, &props); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: expected a JSON object")
		return
	}

	if err := h.accounts.SaveExtraProps(r.Context(), acct, props); err != nil {
		h.writeDomainError(w, err, "failed to save extra props", "account", acct.ID)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(*acct))
}

// DeleteAccount removes the account's secret and then its metadata.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}

	if err := h.accounts.Delete(r.Context(), acct); err != nil {
		h.writeDomainError(w, err, "failed to delete account", "account", acct.ID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetSecret returns the account's secret material.
func (h *Handler) GetSecret(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}

	secret, err := h.accounts.GetSecret(r.Context(), acct)
	if err != nil {
		h.writeDomainError(w, err, "failed to read secret", "account", acct.ID)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, SecretResponse{
		AccountID: acct.ID,
		Backend:   h.accounts.SecretBackend(),
		Secret:    secret,
	})
}

// CreateSecret stores the account's initial secret material.
func (h *Handler) CreateSecret(w http.ResponseWriter, r *http.Request) {
	h.writeSecret(w, r, http.StatusCreated, h.accounts.CreateSecret)
}

// UpdateSecret replaces the account's secret material.
func (h *Handler) UpdateSecret(w http.ResponseWriter, r *http.Request) {
	h.writeSecret(w, r, http.StatusNoContent, h.accounts.UpdateSecret)
}

func (h *Handler) writeSecret(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	write func(ctx context.Context, acct *model.Account, secret string) error,
) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}

	var req SecretRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := write(r.Context(), acct, req.Secret); err != nil {
		h.writeDomainError(w, err, "failed to write secret", "account", acct.ID)
		return
	}

	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, map[string]string{"account_id": acct.ID, "backend": h.accounts.SecretBackend()})
}

// loadAccount fetches the account named by the {id} path value, writing the
// error response itself when the lookup fails.
func (h *Handler) loadAccount(w http.ResponseWriter, r *http.Request) (*model.Account, bool) {
	id := r.PathValue("id")
	acct, err := h.accounts.Get(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, err, "failed to load account", "account", id)
		return nil, false
	}
	return acct, true
}
