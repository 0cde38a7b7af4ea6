package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/connect-service/internal/apperr"
	"github.com/prperemyshlev/connect-service/internal/service"
	"github.com/prperemyshlev/connect-service/internal/utils"
)

// Context keys set by AuthMiddleware
const (
	ContextClaims    = "claims"
	ContextAccountID = "account_id"
	ContextSessionID = "session_id"
)

// AuthMiddleware authenticates the access token cookie and adds its claims to the context
func AuthMiddleware(authService service.AuthService, errs *ErrorResponder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(accessTokenCookie)
		if err != nil || token == "" {
			errs.Respond(c, apperr.Unauthorized("access token is required"))
			return
		}

		claims, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			errs.Respond(c, err)
			return
		}

		c.Set(ContextClaims, claims)
		c.Set(ContextAccountID, claims.Account.ID)
		c.Set(ContextSessionID, claims.Session)

		c.Next()
	}
}

func claimsFrom(c *gin.Context) (*utils.AccessClaims, bool) {
	value, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*utils.AccessClaims)
	return claims, ok
}
