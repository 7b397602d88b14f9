package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zatekoja/hospital-management/internal/domain/entities"
)

// VerificationTokens issues stateless email verification tokens. A token is
// bound to the identity's password hash and active flag, so it stops
// working once the identity is activated or its password changes.
type VerificationTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewVerificationTokens creates a verification token generator
func NewVerificationTokens(secret string, ttl time.Duration) *VerificationTokens {
	return &VerificationTokens{
		secret: []byte("email-verification:" + secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Make returns a token for identity
func (v *VerificationTokens) Make(identity *entities.Identity) string {
	ts := v.now().Unix()
	return strconv.FormatInt(ts, 36) + "-" + v.sign(identity, ts)
}

// Check reports whether token is valid for identity and not expired
func (v *VerificationTokens) Check(identity *entities.Identity, token string) bool {
	tsPart, sig, ok := strings.Cut(token, "-")
	if !ok || identity == nil {
		return false
	}
	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return false
	}
	if !hmac.Equal([]byte(sig), []byte(v.sign(identity, ts))) {
		return false
	}
	age := v.now().Sub(time.Unix(ts, 0))
	return age >= 0 && age <= v.ttl
}

func (v *VerificationTokens) sign(identity *entities.Identity, ts int64) string {
	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%d|%s|%t|%d", identity.ID, identity.PasswordHash, identity.IsActive, ts)
	return hex.EncodeToString(mac.Sum(nil))[:40]
}

// EncodeUID encodes an identity id for use in a link
func EncodeUID(id int64) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
}

// DecodeUID reverses EncodeUID
func DecodeUID(uid string) (int64, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(uid, "="))
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(string(raw), 10, 64)
}
