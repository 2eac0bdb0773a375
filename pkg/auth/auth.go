package auth

import (
	"time"

	"github.com/arnavshah/shiftdock-api/pkg/apperr"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var jwtAlgorithm = jwt.SigningMethodHS256

// Token kinds. Tokens without a kind are access tokens.
const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// DefaultRefreshTTL applies when WithRefreshTTL is not used
const DefaultRefreshTTL = 30 * 24 * time.Hour

// Claims represents the JWT claims
type Claims struct {
	UserID  string `json:"user_id"`
	Kind    string `json:"kind,omitempty"`
	Version int    `json:"ver,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies bearer tokens
type Tokens struct {
	secret     []byte
	ttl        time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokens(secret []byte, ttl time.Duration) *Tokens {
	return &Tokens{secret: secret, ttl: ttl, refreshTTL: DefaultRefreshTTL, now: time.Now}
}

// WithRefreshTTL sets the lifetime of refresh tokens
func (t *Tokens) WithRefreshTTL(d time.Duration) *Tokens {
	if d > 0 {
		t.refreshTTL = d
	}
	return t
}

func (t *Tokens) sign(claims *Claims, ttl time.Duration) (string, time.Time, error) {
	now := t.now()
	expiresAt := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   claims.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwtAlgorithm, claims).SignedString(t.secret)
	return signed, expiresAt, err
}

// Issue creates a signed access token for userID and returns it with its expiry
func (t *Tokens) Issue(userID string) (string, time.Time, error) {
	return t.sign(&Claims{UserID: userID, Kind: KindAccess}, t.ttl)
}

// IssueRefresh creates a refresh token bound to the user's token version
func (t *Tokens) IssueRefresh(userID string, version int) (string, time.Time, error) {
	return t.sign(&Claims{UserID: userID, Kind: KindRefresh, Version: version}, t.refreshTTL)
}

// Verify parses an access token and returns its claims. Any failure is
// INVALID_TOKEN, including a refresh token used as a bearer token.
func (t *Tokens) Verify(tokenString string) (*Claims, error) {
	claims, err := t.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != "" && claims.Kind != KindAccess {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "not an access token")
	}
	return claims, nil
}

// VerifyRefresh parses a refresh token. Revocation is checked by the caller
// against the stored token version.
func (t *Tokens) VerifyRefresh(tokenString string) (*Claims, error) {
	claims, err := t.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Kind != KindRefresh {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "not a refresh token")
	}
	return claims, nil
}

func (t *Tokens) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwtAlgorithm.Alg() {
			return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "unexpected signing method %s", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "invalid or expired token")
	}
	if claims.UserID == "" {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "token has no user")
	}
	return claims, nil
}

// HashCode hashes a one-time code using bcrypt
func HashCode(code string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	return string(bytes), err
}

// CheckCodeHash compares a one-time code with its hash
func CheckCodeHash(code, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
	return err == nil
}
