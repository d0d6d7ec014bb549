package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// errorResponse is the standard error response body. AccountID is set when
// the account was created but a later step of the request failed.
type errorResponse struct {
	Error     string `json:"error"`
	AccountID string `json:"account_id,omitempty"`
}

// AccountResponse is the JSON representation of an account's metadata. It has
// no secret field; secrets are only served by the secret endpoint.
type AccountResponse struct {
	ID          string         `json:"id"`
	OrgID       string         `json:"org_id"`
	Name        string         `json:"name"`
	Username    string         `json:"username"`
	Address     string         `json:"address"`
	SecretType  string         `json:"secret_type"`
	TypeID      int64          `json:"type_id"`
	NamespaceID int64          `json:"namespace_id"`
	ExtraProps  map[string]any `json:"extra_props"`
	IsActive    bool           `json:"is_active"`
	Comment     string         `json:"comment"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

// AccountRequest is the JSON body for creating or updating an account. Secret
// is only honoured on create, where it becomes the initial secret material.
type AccountRequest struct {
	Name        string         `json:"name"`
	Username    string         `json:"username"`
	Address     string         `json:"address"`
	SecretType  string         `json:"secret_type"`
	TypeID      int64          `json:"type_id"`
	NamespaceID int64          `json:"namespace_id"`
	ExtraProps  map[string]any `json:"extra_props"`
	IsActive    *bool          `json:"is_active"`
	Comment     string         `json:"comment"`
	Secret      string         `json:"secret"`
}

// SecretRequest is the JSON body for writing secret material.
type SecretRequest struct {
	Secret string `json:"secret"`
}

// SecretResponse is the JSON body of a secret read.
type SecretResponse struct {
	AccountID string `json:"account_id"`
	Backend   string `json:"backend"`
	Secret    string `json:"secret"`
}

// AccountTypeResponse is the JSON representation of an account type.
type AccountTypeResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// NamespaceResponse is the JSON representation of a namespace.
type NamespaceResponse struct {
	ID        int64  `json:"id"`
	OrgID     string `json:"org_id"`
	Name      string `json:"name"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// CatalogRequest is the JSON body for adding an account type or namespace.
type CatalogRequest struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	SecretBackend string `json:"secret_backend"`
	Time          string `json:"time"`
}

// toAccountResponse converts a domain Account to its JSON response representation.
func toAccountResponse(a model.Account) AccountResponse {
	props := map[string]any(a.ExtraProps)
	if props == nil {
		props = map[string]any{}
	}

	return AccountResponse{
		ID:          a.ID,
		OrgID:       a.OrgID,
		Name:        a.Name,
		Username:    a.Username,
		Address:     a.Address,
		SecretType:  string(a.SecretType),
		TypeID:      a.TypeID,
		NamespaceID: a.NamespaceID,
		ExtraProps:  props,
		IsActive:    a.IsActive,
		Comment:     a.Comment,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// applyTo copies the request's metadata fields onto acct. ExtraProps is left
// alone when the request omits it.
func (req AccountRequest) applyTo(acct *model.Account) {
	acct.Name = req.Name
	acct.Username = req.Username
	acct.Address = req.Address
	acct.SecretType = model.SecretType(req.SecretType)
	acct.TypeID = req.TypeID
	acct.NamespaceID = req.NamespaceID
	acct.Comment = req.Comment
	if req.ExtraProps != nil {
		acct.ExtraProps = req.ExtraProps
	}
	if req.IsActive != nil {
		acct.IsActive = *req.IsActive
	}
}

// toAccountTypeResponse converts a domain AccountType to its JSON representation.
func toAccountTypeResponse(t model.AccountType) AccountTypeResponse {
	return AccountTypeResponse{
		ID:        t.ID,
		Name:      t.Name,
		Comment:   t.Comment,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// toNamespaceResponse converts a domain Namespace to its JSON representation.
func toNamespaceResponse(ns model.Namespace) NamespaceResponse {
	return NamespaceResponse{
		ID:        ns.ID,
		OrgID:     ns.OrgID,
		Name:      ns.Name,
		Comment:   ns.Comment,
		CreatedAt: ns.CreatedAt.UTC().Format(time.RFC3339),
	}
}
