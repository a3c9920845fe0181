package auth

import (
	"context"
)

// Authentication methods recorded on a Principal
const (
	MethodAPIKey = "api_key"
	MethodJWT    = "jwt"
)

// RoleAdmin is the only role admin endpoints accept
const RoleAdmin = "admin"

// Principal holds the authenticated caller of an admin endpoint
type Principal struct {
	Subject string
	Name    string
	Email   string
	Roles   []string
	Method  string
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal adds the principal to the context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// FromContext extracts the principal from the context
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey).(*Principal)
	return p, ok
}

// HasRole checks if the principal has a specific role
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal may use admin endpoints
func (p *Principal) IsAdmin() bool {
	return p.Method == MethodAPIKey || p.HasRole(RoleAdmin)
}
