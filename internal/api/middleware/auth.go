package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/infrastructure/auth"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
)

// IdentityLookup loads the identity named by a token
type IdentityLookup interface {
	GetByID(ctx context.Context, id int64) (*entities.Identity, error)
}

// ProfileLookup loads the profile carrying an identity's role
type ProfileLookup interface {
	GetByIdentityID(ctx context.Context, identityID int64) (*entities.UserProfile, error)
}

// Authenticator resolves bearer tokens into an access.Caller on the
// request context
type Authenticator struct {
	tokens     *auth.TokenIssuer
	identities IdentityLookup
	profiles   ProfileLookup
}

// NewAuthenticator creates a new authenticator
func NewAuthenticator(tokens *auth.TokenIssuer, identities IdentityLookup, profiles ProfileLookup) *Authenticator {
	return &Authenticator{
		tokens:     tokens,
		identities: identities,
		profiles:   profiles,
	}
}

// Middleware leaves requests without an Authorization header anonymous and
// rejects malformed or invalid bearer tokens with 401
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		scheme, raw, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
			respondWithError(w, http.StatusUnauthorized, apperrors.ErrorTypeAuthentication, "Authorization header must be 'Bearer <token>'")
			return
		}

		caller, err := a.resolve(r.Context(), strings.TrimSpace(raw))
		if err != nil {
			if apperrors.Is(err, apperrors.ErrorTypeAuthentication) {
				respondWithError(w, http.StatusUnauthorized, apperrors.ErrorTypeAuthentication, "Given token not valid for any token type")
				return
			}
			log.Ctx(r.Context()).Error().Err(err).Msg("failed to resolve caller")
			respondWithError(w, http.StatusInternalServerError, apperrors.ErrorTypeInternal, "internal server error")
			return
		}

		next.ServeHTTP(w, r.WithContext(access.WithCaller(r.Context(), caller)))
	})
}

func (a *Authenticator) resolve(ctx context.Context, raw string) (access.Caller, error) {
	claims, err := a.tokens.Parse(raw, auth.KindAccess)
	if err != nil {
		return access.Caller{}, apperrors.NewAuthenticationError("invalid access token")
	}

	identity, err := a.identities.GetByID(ctx, claims.IdentityID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrorTypeNotFound) {
			return access.Caller{}, apperrors.NewAuthenticationError("identity no longer exists")
		}
		return access.Caller{}, err
	}
	if !identity.IsActive {
		return access.Caller{}, apperrors.NewAuthenticationError("identity is inactive")
	}

	caller := access.Caller{
		IdentityID: identity.ID,
		Username:   identity.Username,
		IsStaff:    identity.IsStaff,
	}

	// Role stays nil when the profile cannot be read; role checks then deny.
	profile, err := a.profiles.GetByIdentityID(ctx, identity.ID)
	switch {
	case err == nil:
		role := profile.Role
		caller.Role = &role
	case !apperrors.Is(err, apperrors.ErrorTypeNotFound):
		log.Ctx(ctx).Warn().Err(err).Int64("identity_id", identity.ID).Msg("failed to load profile role")
	}

	return caller, nil
}
