package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/hospital-management/internal/adapters/cache"
	"github.com/zatekoja/hospital-management/internal/domain/entities"
	apperrors "github.com/zatekoja/hospital-management/pkg/errors"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse"))
	assert.False(t, CheckPassword(hash, "wrong horse"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("s3cure-enough", "jane"))

	for _, pw := range []string{"short", "1234567890", "JaneDoe99"} {
		err := ValidatePassword(pw, "janedoe99")
		require.Error(t, err, pw)
		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation), pw)
	}
}

func TestTokenIssuer_PairRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", 15*time.Minute, 24*time.Hour)

	pair, err := issuer.IssuePair(42)
	require.NoError(t, err)

	access, err := issuer.Parse(pair.Access, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, int64(42), access.IdentityID)
	assert.NotEmpty(t, access.ID)

	refresh, err := issuer.Parse(pair.Refresh, KindRefresh)
	require.NoError(t, err)
	assert.NotEqual(t, access.ID, refresh.ID)
}

func TestTokenIssuer_RejectsWrongKind(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)
	pair, err := issuer.IssuePair(1)
	require.NoError(t, err)

	_, err = issuer.Parse(pair.Refresh, KindAccess)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestTokenIssuer_RejectsForeignSecretAndExpiry(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)
	other := NewTokenIssuer("other-secret", time.Minute, time.Hour)

	foreign, err := other.IssueAccess(1)
	require.NoError(t, err)
	_, err = issuer.Parse(foreign, KindAccess)
	assert.ErrorIs(t, err, ErrBadToken)

	now := time.Now()
	issuer.now = func() time.Time { return now }
	token, err := issuer.IssueAccess(1)
	require.NoError(t, err)

	issuer.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = issuer.Parse(token, KindAccess)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestTokenIssuer_RejectsNoneAlgorithm(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)

	claims := Claims{IdentityID: 1, Kind: KindAccess, RegisteredClaims: jwt.RegisteredClaims{
		ID:        "x",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = issuer.Parse(raw, KindAccess)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestBlacklist(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryAdapter(0, nil)
	defer store.Close()

	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)
	pair, err := issuer.IssuePair(9)
	require.NoError(t, err)
	claims, err := issuer.Parse(pair.Refresh, KindRefresh)
	require.NoError(t, err)

	bl := NewBlacklist(store)
	revoked, err := bl.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, claims))

	revoked, err = bl.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestVerificationTokens(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tokens := NewVerificationTokens("secret", 72*time.Hour)
	tokens.now = func() time.Time { return now }

	identity := &entities.Identity{ID: 12, PasswordHash: "$2a$10$hash", IsActive: false}
	token := tokens.Make(identity)

	assert.True(t, tokens.Check(identity, token))
	assert.False(t, tokens.Check(identity, token+"0"))
	assert.False(t, tokens.Check(&entities.Identity{ID: 13, PasswordHash: "$2a$10$hash"}, token))

	t.Run("invalid once activated", func(t *testing.T) {
		activated := *identity
		activated.IsActive = true
		assert.False(t, tokens.Check(&activated, token))
	})

	t.Run("expires after ttl", func(t *testing.T) {
		tokens.now = func() time.Time { return now.Add(73 * time.Hour) }
		defer func() { tokens.now = func() time.Time { return now } }()
		assert.False(t, tokens.Check(identity, token))
	})
}

func TestUIDEncoding(t *testing.T) {
	uid := EncodeUID(1234)
	id, err := DecodeUID(uid)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), id)

	_, err = DecodeUID("!!!")
	assert.Error(t, err)
}
