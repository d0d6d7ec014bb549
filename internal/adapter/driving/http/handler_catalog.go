package httphandler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
)

// ListAccountTypes returns all account types.
func (h *Handler) ListAccountTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.accountTypes.ListAll(r.Context())
	if err != nil {
		h.writeDomainError(w, err, "failed to list account types")
		return
	}

	resp := make([]AccountTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, toAccountTypeResponse(t))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddAccountType adds a new account type.
func (h *Handler) AddAccountType(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCatalogRequest(w, r)
	if !ok {
		return
	}

	saved, err := h.accountTypes.Add(r.Context(), model.AccountType{Name: req.Name, Comment: req.Comment})
	if err != nil {
		h.writeDomainError(w, err, "failed to add account type", "name", req.Name)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountTypeResponse(saved))
}

// RemoveAccountType removes an account type. Types still used by an account
// are rejected with 409.
func (h *Handler) RemoveAccountType(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.accountTypes.Remove(r.Context(), id); err != nil {
		h.writeDomainError(w, err, "failed to remove account type", "id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListNamespaces returns the caller's organization's namespaces.
func (h *Handler) ListNamespaces(w http.ResponseWriter, r *http.Request) {
	namespaces, err := h.namespaces.ListAll(r.Context())
	if err != nil {
		h.writeDomainError(w, err, "failed to list namespaces")
		return
	}

	resp := make([]NamespaceResponse, 0, len(namespaces))
	for _, ns := range namespaces {
		resp = append(resp, toNamespaceResponse(ns))
	}

	writeJSON(w, http.StatusOK, resp)
}

// AddNamespace adds a namespace to the caller's organization.
func (h *Handler) AddNamespace(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCatalogRequest(w, r)
	if !ok {
		return
	}

	saved, err := h.namespaces.Add(r.Context(), model.Namespace{Name: req.Name, Comment: req.Comment})
	if err != nil {
		h.writeDomainError(w, err, "failed to add namespace", "name", req.Name)
		return
	}

	writeJSON(w, http.StatusCreated, toNamespaceResponse(saved))
}

// RemoveNamespace removes a namespace. Namespaces still used by an account are
// rejected with 409.
func (h *Handler) RemoveNamespace(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.namespaces.Remove(r.Context(), id); err != nil {
		h.writeDomainError(w, err, "failed to remove namespace", "id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeCatalogRequest(w http.ResponseWriter, r *http.Request) (CatalogRequest, bool) {
	var req CatalogRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return req, false
	}
	return req, true
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
