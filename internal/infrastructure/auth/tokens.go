package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/zatekoja/hospital-management/internal/domain/providers"
)

var ErrBadToken = errors.New("invalid token")

// TokenKind distinguishes access from refresh tokens
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims are the JWT claims issued by the API
type Claims struct {
	IdentityID int64     `json:"uid"`
	Kind       TokenKind `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login
type TokenPair struct {
	Refresh string `json:"refresh"`
	Access  string `json:"access"`
}

// TokenIssuer signs and verifies HS256 tokens
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenIssuer creates a token issuer
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssuePair issues a fresh access and refresh token for identityID
func (t *TokenIssuer) IssuePair(identityID int64) (TokenPair, error) {
	refresh, err := t.sign(identityID, KindRefresh, t.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	access, err := t.sign(identityID, KindAccess, t.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Refresh: refresh, Access: access}, nil
}

// IssueAccess issues an access token only
func (t *TokenIssuer) IssueAccess(identityID int64) (string, error) {
	return t.sign(identityID, KindAccess, t.accessTTL)
}

func (t *TokenIssuer) sign(identityID int64, kind TokenKind, ttl time.Duration) (string, error) {
	now := t.now()
	c := Claims{
		IdentityID: identityID,
		Kind:       kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(identityID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Parse verifies raw and checks that it is a token of the expected kind
func (t *TokenIssuer) Parse(raw string, kind TokenKind) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(tok *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || c.Kind != kind || c.IdentityID <= 0 || c.ID == "" {
		return nil, ErrBadToken
	}
	return c, nil
}

// Blacklist records revoked refresh tokens by jti until they expire
type Blacklist struct {
	cache providers.CacheProvider
	now   func() time.Time
}

// NewBlacklist creates a blacklist stored in cache
func NewBlacklist(cache providers.CacheProvider) *Blacklist {
	return &Blacklist{cache: cache, now: time.Now}
}

func blacklistKey(jti string) string {
	return "auth:blacklist:" + jti
}

// Revoke blacklists the token described by claims for its remaining lifetime
func (b *Blacklist) Revoke(ctx context.Context, claims *Claims) error {
	ttl := 1
	if claims.ExpiresAt != nil {
		if remaining := int(claims.ExpiresAt.Sub(b.now()).Seconds()) + 1; remaining > ttl {
			ttl = remaining
		}
	}
	return b.cache.Set(ctx, blacklistKey(claims.ID), []byte("1"), ttl)
}

// IsRevoked reports whether jti has been blacklisted
func (b *Blacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return b.cache.Exists(ctx, blacklistKey(jti))
}
