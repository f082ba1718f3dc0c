package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/akozlov/activityhub/internal/common"
	"github.com/akozlov/activityhub/internal/server/auth"
)

// gin context keys set by requireToken.
const (
	ctxOrganizerID = "organizer_id"
	ctxUsername    = "username"
	ctxJTI         = "jti"
)

// Machine-readable reason codes returned in 401 bodies. Clients branch on
// these (e.g. token_expired triggers a refresh attempt), so they are part
// of the API contract.
const (
	reasonMissingToken   = "missing_token"
	reasonTokenExpired   = "token_expired"
	reasonInvalidToken   = "invalid_token"
	reasonTokenRevoked   = "token_revoked"
	reasonWrongTokenType = "wrong_token_type"
)

// requireToken guards a route: it extracts the bearer token, verifies the
// signature and expiry, rejects tokens without a jti, consults the
// revocation ledger, and checks the token kind against the allowed kinds.
// A ledger lookup failure is a 500, never an admit. On success the
// organizer ID, jti, and (for access tokens) username are set on the
// context.
func (s *Server) requireToken(kinds ...auth.TokenType) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			s.reject(c, common.ErrMissingToken)
			return
		}

		claims, err := s.issuer.Verify(tokenString)
		if err != nil {
			s.reject(c, err)
			return
		}

		// A token without a jti cannot be revoked, so it is not honored.
		if claims.ID == "" {
			s.reject(c, common.ErrInvalidToken)
			return
		}

		revoked, err := s.revokedRepo.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			s.log.Error(c.Request.Context(), "revocation ledger lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if revoked {
			s.reject(c, common.ErrTokenRevoked)
			return
		}

		if !kindAllowed(claims.TokenType, kinds) {
			s.reject(c, common.ErrWrongTokenType)
			return
		}

		c.Set(ctxOrganizerID, claims.Subject)
		c.Set(ctxJTI, claims.ID)
		if claims.TokenType == auth.TokenTypeAccess {
			c.Set(ctxUsername, claims.Username)
		}
		c.Next()
	}
}

func (s *Server) reject(c *gin.Context, err error) {
	reason := authReason(err)
	s.log.Warn(c.Request.Context(), "request rejected",
		"reason", reason,
		"path", c.Request.URL.Path,
	)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": reason})
}

func authReason(err error) string {
	switch {
	case errors.Is(err, common.ErrMissingToken):
		return reasonMissingToken
	case errors.Is(err, common.ErrTokenExpired):
		return reasonTokenExpired
	case errors.Is(err, common.ErrTokenRevoked):
		return reasonTokenRevoked
	case errors.Is(err, common.ErrWrongTokenType):
		return reasonWrongTokenType
	default:
		return reasonInvalidToken
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func kindAllowed(kind auth.TokenType, allowed []auth.TokenType) bool {
	for _, k := range allowed {
		if kind == k {
			return true
		}
	}
	return false
}

// organizerID returns the authenticated organizer's ID set by requireToken.
func organizerID(c *gin.Context) string {
	return c.GetString(ctxOrganizerID)
}

// tokenJTI returns the jti of the admitted token.
func tokenJTI(c *gin.Context) string {
	return c.GetString(ctxJTI)
}
