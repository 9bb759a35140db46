package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vaughan-dsouza/gamehub/internal/models"
)

var testSecret = []byte("test-secret-key")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newPair(t *testing.T, cfg TokenConfig) (*Issuer, *Verifier) {
	t.Helper()
	iss, err := NewIssuer(cfg)
	require.NoError(t, err)
	ver, err := NewVerifier(cfg)
	require.NoError(t, err)
	return iss, ver
}

func TestIssueThenVerify(t *testing.T) {
	iss, ver := newPair(t, TokenConfig{Secret: testSecret})
	u := &models.User{ID: 7, Email: "a@x.com"}

	token, err := iss.Issue(u)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	id, err := ver.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Identity{ID: 7, Email: "a@x.com"}, id)
}

func TestIssue_ClaimSet(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	iss, err := NewIssuer(TokenConfig{Secret: testSecret, Now: fixedClock(now)})
	require.NoError(t, err)

	token, err := iss.Issue(&models.User{ID: 3, Email: "c@x.com"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	header := decodeSegment(t, parts[0])
	assert.Equal(t, "HS256", header["alg"])

	claims := decodeSegment(t, parts[1])
	assert.Equal(t, "3", claims["sub"])
	assert.Equal(t, "c@x.com", claims["email"])
	assert.NotEmpty(t, claims["jti"])
	assert.EqualValues(t, now.Unix(), claims["nbf"])
	assert.EqualValues(t, now.Add(8*time.Hour).Unix(), claims["exp"])
}

func TestIssue_FreshJTI(t *testing.T) {
	iss, err := NewIssuer(TokenConfig{Secret: testSecret})
	require.NoError(t, err)
	u := &models.User{ID: 1, Email: "a@x.com"}

	first, err := iss.Issue(u)
	require.NoError(t, err)
	second, err := iss.Issue(u)
	require.NoError(t, err)

	p := jwt.NewParser()
	var c1, c2 Claims
	_, _, err = p.ParseUnverified(first, &c1)
	require.NoError(t, err)
	_, _, err = p.ParseUnverified(second, &c2)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestVerify_FlippedSignature(t *testing.T) {
	iss, ver := newPair(t, TokenConfig{Secret: testSecret})
	token, err := iss.Issue(&models.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = ver.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_TamperedClaims(t *testing.T) {
	iss, ver := newPair(t, TokenConfig{Secret: testSecret})
	token, err := iss.Issue(&models.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	claims := decodeSegment(t, parts[1])
	claims["sub"] = "2"
	forged := parts[0] + "." + encodeSegment(t, claims) + "." + parts[2]

	_, err = ver.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_WrongSecret(t *testing.T) {
	iss, err := NewIssuer(TokenConfig{Secret: []byte("secret-key-1")})
	require.NoError(t, err)
	ver, err := NewVerifier(TokenConfig{Secret: []byte("secret-key-2")})
	require.NoError(t, err)

	token, err := iss.Issue(&models.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	_, err = ver.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_Expired(t *testing.T) {
	issued := time.Now().Add(-9 * time.Hour)
	iss, err := NewIssuer(TokenConfig{Secret: testSecret, Now: fixedClock(issued)})
	require.NoError(t, err)
	ver, err := NewVerifier(TokenConfig{Secret: testSecret})
	require.NoError(t, err)

	token, err := iss.Issue(&models.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	_, err = ver.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_NoLeewayAtExpiry(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	iss, err := NewIssuer(TokenConfig{Secret: testSecret, Now: fixedClock(issued)})
	require.NoError(t, err)
	token, err := iss.Issue(&models.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	justBefore, err := NewVerifier(TokenConfig{Secret: testSecret, Now: fixedClock(issued.Add(TokenLifetime - time.Second))})
	require.NoError(t, err)
	_, err = justBefore.Verify(token)
	assert.NoError(t, err)

	justAfter, err := NewVerifier(TokenConfig{Secret: testSecret, Now: fixedClock(issued.Add(TokenLifetime + time.Second))})
	require.NoError(t, err)
	_, err = justAfter.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerify_ExpiredWithBadSignatureReportsSignature(t *testing.T) {
	issued := time.Now().Add(-9 * time.Hour)
	iss, err := NewIssuer(TokenConfig{Secret: []byte("other"), Now: fixedClock(issued)})
	require.NoError(t, err)
	ver, err := NewVerifier(TokenConfig{Secret: testSecret})
	require.NoError(t, err)

	token, err := iss.Issue(&models.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	_, err = ver.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_NotYetValid(t *testing.T) {
	future := time.Now().Add(time.Hour)
	iss, err := NewIssuer(TokenConfig{Secret: testSecret, Now: fixedClock(future)})
	require.NoError(t, err)
	ver, err := NewVerifier(TokenConfig{Secret: testSecret})
	require.NoError(t, err)

	token, err := iss.Issue(&models.User{ID: 1, Email: "a@x.com"})
	require.NoError(t, err)

	_, err = ver.Verify(token)
	assert.ErrorIs(t, err, ErrNotYetValid)
}

func TestVerify_Malformed(t *testing.T) {
	_, ver := newPair(t, TokenConfig{Secret: testSecret})

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"one segment", "abc"},
		{"two segments", "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
		{"four segments", "a.b.c.d"},
		{"bad base64", "!!!.###.$$$"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ver.Verify(tt.token)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	_, ver := newPair(t, TokenConfig{Secret: testSecret})
	now := time.Now()
	claims := Claims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)
	_, err = ver.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidSignature)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ver.Verify(none)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerify_BadSubject(t *testing.T) {
	_, ver := newPair(t, TokenConfig{Secret: testSecret})
	now := time.Now()

	for _, sub := range []string{"", "abc", "0", "-4"} {
		t.Run(sub, func(t *testing.T) {
			claims := Claims{
				Email: "a@x.com",
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   sub,
					NotBefore: jwt.NewNumericDate(now),
					ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				},
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
			require.NoError(t, err)

			_, err = ver.Verify(token)
			assert.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	_, ver := newPair(t, TokenConfig{Secret: testSecret})
	claims := Claims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = ver.Verify(token)
	assert.Error(t, err)
}

func TestNewIssuerVerifier_RequireSecret(t *testing.T) {
	_, err := NewIssuer(TokenConfig{})
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = NewVerifier(TokenConfig{Secret: []byte{}})
	assert.ErrorIs(t, err, ErrNoSecret)
}

func decodeSegment(t *testing.T, seg string) map[string]any {
	t.Helper()
	raw, err := base64.RawURLEncoding.DecodeString(seg)
	require.NoError(t, err)
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func encodeSegment(t *testing.T, v map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return base64.RawURLEncoding.EncodeToString(raw)
}
