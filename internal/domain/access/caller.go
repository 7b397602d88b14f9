package access

import (
	"context"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
)

// Caller is the resolved identity behind a request. The zero value is an
// anonymous caller.
type Caller struct {
	IdentityID int64
	Username   string
	IsStaff    bool

	// Role is nil when the identity has no profile.
	Role *entities.Role
}

// Anonymous returns a caller with no identity
func Anonymous() Caller {
	return Caller{}
}

// IsAuthenticated reports whether the caller carries an identity
func (c Caller) IsAuthenticated() bool {
	return c.IdentityID > 0
}

type callerKey struct{}

// WithCaller returns a copy of ctx carrying caller
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller stored in ctx, or an anonymous caller
func CallerFromContext(ctx context.Context) Caller {
	if caller, ok := ctx.Value(callerKey{}).(Caller); ok {
		return caller
	}
	return Anonymous()
}
