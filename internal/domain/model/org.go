package model

import "context"

// DefaultOrgID is the organization used when a request carries no explicit
// scope.
const DefaultOrgID = "00000000-0000-0000-0000-000000000002"

type orgKey struct{}

// WithOrg returns a copy of ctx scoped to orgID. An empty orgID leaves ctx
// unchanged so the default organization applies.
func WithOrg(ctx context.Context, orgID string) context.Context {
	if orgID == "" {
		return ctx
	}
	return context.WithValue(ctx, orgKey{}, orgID)
}

// OrgFromContext returns the organization ctx is scoped to, or DefaultOrgID.
func OrgFromContext(ctx context.Context) string {
	if orgID, ok := ctx.Value(orgKey{}).(string); ok && orgID != "" {
		return orgID
	}
	return DefaultOrgID
}
