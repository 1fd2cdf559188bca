package middleware

import (
	"context"
	"errors"
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/navbryce/next-dorm-blog/util"
	"log/slog"
	"net/http"
	"strings"
)

const (
	TOKEN_KEY   = "authToken"
	ADMIN_CLAIM = "admin"
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

type AuthConfig struct {
	SessionNotRequired bool
}

// GenAuth verifies the bearer firebase ID token and stores it on the context.
func GenAuth(verifier TokenVerifier, config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorizationHeader := c.GetHeader("Authorization")
		if authorizationHeader == "" {
			if config.SessionNotRequired {
				return
			}
			abort(c, http.StatusUnauthorized, "no authorization header")
			return
		}
		if !strings.HasPrefix(authorizationHeader, "Bearer ") || len(authorizationHeader) < 8 {
			abort(c, http.StatusUnauthorized, "incorrectly formatted authorization header")
			return
		}
		token, err := verifier.VerifyIDToken(c, authorizationHeader[7:])
		if err != nil {
			slog.Debug("rejected id token", "error", err)
			if config.SessionNotRequired {
				return
			}
			abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(TOKEN_KEY, token)
	}
}

// RequireAdmin must run after GenAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := GetTokenMaybe(c)
		if token == nil {
			abort(c, http.StatusUnauthorized, "must be logged in")
			return
		}
		if isAdmin, _ := token.Claims[ADMIN_CLAIM].(bool); !isAdmin {
			abort(c, http.StatusForbidden, "must be an admin")
			return
		}
	}
}

func GetTokenMaybe(c *gin.Context) *auth.Token {
	token, ok := c.Get(TOKEN_KEY)
	if !ok {
		return nil
	}
	return token.(*auth.Token)
}

func abort(c *gin.Context, status int, message string) {
	util.HandleHTTPErrorRes(c, &util.HTTPError{Status: status, Message: message})
	c.Abort()
}

// RejectAll verifies no tokens. Used when firebase is not configured.
type RejectAll struct{}

func (RejectAll) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return nil, errors.New("token verification is not configured")
}
