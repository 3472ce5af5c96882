package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/consistency/pkg/httpcontext"
)

const (
	claimUserID    = "user_id"
	claimSessionID = "sid"
)

// JWTAuth verifies bearer tokens signed by the identity provider and forwards
// the user id as X-User-ID. A client-sent X-User-ID is always discarded. The
// board session travels in X-Session-ID unless the token pins one with a sid
// claim; handlers check that the session belongs to the verified user.
// A non-empty issuer must match the token's iss claim.
func JWTAuth(secret, issuer string, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Request.Header.Del(httpcontext.HeaderUserID)

			tokenString := extractToken(ctx)
			if tokenString == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			userID, sessionID, err := ParseToken(secret, issuer, tokenString)
			if err != nil {
				logger.Warn("invalid jwt token", zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			ctx.Request.Header.Set(httpcontext.HeaderUserID, userID)
			if sessionID != "" {
				ctx.Request.Header.Set(httpcontext.HeaderSessionID, sessionID)
			}
			next(ctx)
		}
	}
}

// ParseToken validates an HMAC-signed token and returns its user id and the
// optional session id.
func ParseToken(secret, issuer, tokenString string) (string, string, error) {
	if secret == "" {
		return "", "", errors.New("jwt secret not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	if !token.Valid {
		return "", "", errors.New("token invalid")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("unexpected claims type")
	}
	if issuer != "" && !claims.VerifyIssuer(issuer, true) {
		return "", "", fmt.Errorf("unexpected issuer %v", claims["iss"])
	}
	userID, _ := claims[claimUserID].(string)
	if userID == "" {
		return "", "", errors.New("token missing user id")
	}
	sessionID, _ := claims[claimSessionID].(string)
	return userID, sessionID, nil
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}
