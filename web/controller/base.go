package controller

import (
	"net/http"
	"strings"

	"favor-bot/web/service"

	"github.com/gin-gonic/gin"
)

type BaseController struct {
	settingService *service.SettingService
}

// checkToken guards the API with a bearer token. Unauthorized requests
// get a plain 404 so scanners cannot tell the API exists.
func (a *BaseController) checkToken(c *gin.Context) {
	token, err := a.settingService.GetAPIToken()
	if err != nil || token == "" {
		pureJsonMsg(c, http.StatusNotFound, false, "404 page not found")
		c.Abort()
		return
	}

	header := c.GetHeader("Authorization")
	provided := strings.TrimPrefix(header, "Bearer ")
	if provided == "" || provided != token {
		pureJsonMsg(c, http.StatusNotFound, false, "404 page not found")
		c.Abort()
		return
	}
	c.Next()
}
