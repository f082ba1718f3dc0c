package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/akozlov/activityhub/internal/common"
)

// TokenType tags a token as short-lived (access) or long-lived (refresh).
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the claim set embedded in every issued token. Subject carries
// the organizer ID and ID (jti) is the revocation key. Username is only
// present on access tokens, keeping the claim surface of the longer-lived
// refresh token minimal.
type Claims struct {
	jwt.RegisteredClaims
	Username  string    `json:"username,omitempty"`
	TokenType TokenType `json:"typ"`
}

// Issuer mints and verifies signed tokens. The secret and lifetimes are
// fixed at construction time; an Issuer is safe for concurrent use.
type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// IssueAccessToken mints an access token for the organizer with a fresh jti.
func (i *Issuer) IssueAccessToken(organizerID string, username string) (string, error) {
	return i.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   organizerID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Username:  username,
		TokenType: TokenTypeAccess,
	})
}

// IssueRefreshToken mints a refresh token for the organizer with a fresh jti.
func (i *Issuer) IssueRefreshToken(organizerID string) (string, error) {
	return i.sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   organizerID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		TokenType: TokenTypeRefresh,
	})
}

func (i *Issuer) sign(claims Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify checks the signature and expiry of tokenString and returns its
// claims. The signing algorithm is pinned to HS256; tokens signed with any
// other method (including "none") are rejected as invalid. Expired tokens
// yield common.ErrTokenExpired, everything else common.ErrInvalidToken.
//
// Verify does not consult the revocation ledger; that check belongs to the
// caller so this stays a pure cryptographic primitive.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return i.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
