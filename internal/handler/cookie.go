package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const accessTokenCookie = "accessToken"

func setAccessCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, token, maxAge, "/", "", secure, true)
}

func clearAccessCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(accessTokenCookie, "", -1, "/", "", secure, true)
}
