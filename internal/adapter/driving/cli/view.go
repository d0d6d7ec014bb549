package cli

import (
	"time"

	"github.com/ericfisherdev/accountvault/internal/domain/model"
)

// The --json views use the same field names as the HTTP API. Accounts carry
// no secret field.

type accountView struct {
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

type accountTypeView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

type namespaceView struct {
	ID        int64  `json:"id"`
	OrgID     string `json:"org_id"`
	Name      string `json:"name"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

func toAccountView(a model.Account) accountView {
	props := map[string]any(a.ExtraProps)
	if props == nil {
		props = map[string]any{}
	}
	return accountView{
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
		CreatedAt:   a.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.Format(time.RFC3339),
	}
}

func toAccountViews(accounts []model.Account) []accountView {
	views := make([]accountView, 0, len(accounts))
	for _, a := range accounts {
		views = append(views, toAccountView(a))
	}
	return views
}

func toAccountTypeViews(types []model.AccountType) []accountTypeView {
	views := make([]accountTypeView, 0, len(types))
	for _, t := range types {
		views = append(views, accountTypeView{
			ID:        t.ID,
			Name:      t.Name,
			Comment:   t.Comment,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
		})
	}
	return views
}

func toNamespaceViews(namespaces []model.Namespace) []namespaceView {
	views := make([]namespaceView, 0, len(namespaces))
	for _, ns := range namespaces {
		views = append(views, namespaceView{
			ID:        ns.ID,
			OrgID:     ns.OrgID,
			Name:      ns.Name,
			Comment:   ns.Comment,
			CreatedAt: ns.CreatedAt.Format(time.RFC3339),
		})
	}
	return views
}
