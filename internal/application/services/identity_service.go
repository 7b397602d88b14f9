package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/hospital-management/internal/domain/access"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	"github.com/zatekoja/hospital-management/internal/domain/providers"
	"github.com/zatekoja/hospital-management/internal/domain/repositories"
	"github.com/zatekoja/hospital-management/internal/infrastructure/auth"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]{1,150}$`)

const (
	errBadCredentials = "No active account found with the given credentials"
	errBadToken       = "Token is invalid or expired"
	errBadLink        = "Invalid verification link."
)

// RegisterInput is a new account
type RegisterInput struct {
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// IdentityService handles registration, verification and sessions
type IdentityService struct {
	identities   repositories.IdentityRepository
	hook         *ProfileHook
	tokens       *auth.TokenIssuer
	blacklist    *auth.Blacklist
	verification *auth.VerificationTokens
	mailer       providers.Mailer
	eventBus     providers.EventBus
	baseURL      string
}

// NewIdentityService creates a new identity service. baseURL prefixes the
// verification links sent by mail.
func NewIdentityService(
	identities repositories.IdentityRepository,
	hook *ProfileHook,
	tokens *auth.TokenIssuer,
	blacklist *auth.Blacklist,
	verification *auth.VerificationTokens,
	mailer providers.Mailer,
	eventBus providers.EventBus,
	baseURL string,
) *IdentityService {
	return &IdentityService{
		identities:   identities,
		hook:         hook,
		tokens:       tokens,
		blacklist:    blacklist,
		verification: verification,
		mailer:       mailer,
		eventBus:     eventBus,
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

// Register creates an inactive identity with its profile and patient
// record, then mails a verification link. Neither a mail failure nor a
// provisioning failure undoes the registration; VerifyEmail provisions
// again before activating.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*entities.Identity, error) {
	input.Username = strings.TrimSpace(input.Username)
	if !usernamePattern.MatchString(input.Username) {
		return nil, apperrors.NewValidationError("Enter a valid username. It may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if email == "" {
		return nil, apperrors.NewValidationError("email is required")
	}
	if input.Password != input.ConfirmPassword {
		return nil, apperrors.NewValidationError("Passwords do not match.")
	}
	if err := auth.ValidatePassword(input.Password, input.Username); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	identity := &entities.Identity{
		Username:     input.Username,
		Email:        email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
		IsActive:     false,
		DateJoined:   time.Now().UTC(),
	}
	if err := s.identities.Create(ctx, identity); err != nil {
		return nil, err
	}
	if err := s.hook.Provision(ctx, identity.ID); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("identity_id", identity.ID).Msg("failed to provision identity, retrying on verification")
	}

	s.sendVerification(ctx, identity)
	publish(ctx, s.eventBus, providers.EventChannelIdentities,
		entities.NewDomainEvent(entities.EventIdentityRegistered, "identity", identity.ID, nil))

	return identity, nil
}

// VerificationLink builds the link mailed to identity
func (s *IdentityService) VerificationLink(identity *entities.Identity) string {
	return fmt.Sprintf("%s/api/patients/verify-email/%s/%s/",
		s.baseURL, auth.EncodeUID(identity.ID), s.verification.Make(identity))
}

func (s *IdentityService) sendVerification(ctx context.Context, identity *entities.Identity) {
	msg := providers.Mail{
		To:      identity.Email,
		Subject: "Verify your email",
		Body: fmt.Sprintf("Hi %s,\n\nPlease confirm your email address by opening the link below:\n\n%s\n",
			identity.Username, s.VerificationLink(identity)),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("identity_id", identity.ID).Msg("failed to send verification email")
	}
}

// VerifyEmail activates the identity encoded in uid when token is valid
func (s *IdentityService) VerifyEmail(ctx context.Context, uid, token string) error {
	id, err := auth.DecodeUID(uid)
	if err != nil {
		return apperrors.NewValidationError(errBadLink)
	}
	identity, err := s.identities.GetByID(ctx, id)
	if apperrors.Is(err, apperrors.ErrorTypeNotFound) {
		return apperrors.NewValidationError(errBadLink)
	}
	if err != nil {
		return err
	}
	if !s.verification.Check(identity, token) {
		return apperrors.NewValidationError(errBadLink)
	}

	if err := s.identities.SetActive(ctx, identity.ID, true); err != nil {
		return err
	}
	if err := s.hook.Provision(ctx, identity.ID); err != nil {
		return apperrors.NewInternalError("failed to provision identity", err)
	}

	publish(ctx, s.eventBus, providers.EventChannelIdentities,
		entities.NewDomainEvent(entities.EventIdentityVerified, "identity", identity.ID, nil))
	return nil
}

// Login exchanges credentials for a token pair
func (s *IdentityService) Login(ctx context.Context, username, password string) (auth.TokenPair, error) {
	identity, err := s.identities.GetByUsername(ctx, strings.TrimSpace(username))
	if apperrors.Is(err, apperrors.ErrorTypeNotFound) {
		return auth.TokenPair{}, apperrors.NewAuthenticationError(errBadCredentials)
	}
	if err != nil {
		return auth.TokenPair{}, err
	}
	if !auth.CheckPassword(identity.PasswordHash, password) || !identity.IsActive {
		return auth.TokenPair{}, apperrors.NewAuthenticationError(errBadCredentials)
	}

	pair, err := s.tokens.IssuePair(identity.ID)
	if err != nil {
		return auth.TokenPair{}, apperrors.NewInternalError("failed to issue tokens", err)
	}
	return pair, nil
}

// Refresh issues a new access token for a live refresh token
func (s *IdentityService) Refresh(ctx context.Context, refresh string) (string, error) {
	claims, err := s.tokens.Parse(refresh, auth.KindRefresh)
	if err != nil {
		return "", apperrors.NewAuthenticationError(errBadToken)
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", apperrors.NewInternalError("failed to check token blacklist", err)
	}
	if revoked {
		return "", apperrors.NewAuthenticationError("Token is blacklisted")
	}

	token, err := s.tokens.IssueAccess(claims.IdentityID)
	if err != nil {
		return "", apperrors.NewInternalError("failed to issue token", err)
	}
	return token, nil
}

// Logout blacklists the caller's refresh token. A token that does not parse
// or belongs to someone else is a client error.
func (s *IdentityService) Logout(ctx context.Context, caller access.Caller, refresh string) error {
	if err := requireAuthenticated(caller); err != nil {
		return err
	}
	claims, err := s.tokens.Parse(refresh, auth.KindRefresh)
	if err != nil || claims.IdentityID != caller.IdentityID {
		return apperrors.NewValidationError(errBadToken)
	}
	if err := s.blacklist.Revoke(ctx, claims); err != nil {
		return apperrors.NewInternalError("failed to blacklist token", err)
	}
	return nil
}
