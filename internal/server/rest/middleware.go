package rest

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/labstack/echo/v4"
)

// TokenVerifier checks session tokens.
type TokenVerifier interface {
	Verify(token string) (auth.SessionClaims, error)
}

// bearerToken extracts the credential of a "Bearer <token>" header value.
func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", common.ErrMissingToken
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", common.ErrMissingToken
	}
	return token, nil
}

// requireAuth rejects requests without a valid bearer token (401 when
// absent, 403 when verification fails) and stores the verified claims in
// the request context otherwise.
func requireAuth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(common.AuthorizationHeaderName))
			if err != nil {
				return httpError(err, msgServerError)
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				return httpError(err, msgInvalidToken)
			}

			ctx := auth.WithClaims(c.Request().Context(), claims)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// claimsFrom returns the claims put in place by requireAuth.
func claimsFrom(c echo.Context) (auth.SessionClaims, error) {
	claims, ok := auth.ClaimsFromContext(c.Request().Context())
	if !ok {
		return auth.SessionClaims{}, httpError(common.ErrMissingToken, msgServerError)
	}
	return claims, nil
}

func logRequests(logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			args := []any{
				"method", req.Method,
				"uri", req.RequestURI,
				"route", c.Path(),
				"status", res.Status,
				"latency", latency,
				"request_id", res.Header().Get(echo.HeaderXRequestID),
			}
			if claims, ok := auth.ClaimsFromContext(req.Context()); ok {
				args = append(args, "user_id", claims.UserID)
			}
			logger.Info(req.Context(), "request handled", args...)
			return err
		}
	}
}
