package controller

import (
	"net/http"

	"favor-bot/logger"
	"favor-bot/web/entity"

	"github.com/gin-gonic/gin"
)

func jsonMsg(c *gin.Context, msg string, err error) {
	jsonMsgObj(c, msg, nil, err)
}

func jsonObj(c *gin.Context, obj any, err error) {
	jsonMsgObj(c, "", obj, err)
}

func jsonMsgObj(c *gin.Context, msg string, obj any, err error) {
	m := entity.Msg{
		Obj:     obj,
		Success: true,
		Msg:     msg,
	}
	if err != nil {
		m.Success = false
		m.Msg = err.Error()
		logger.Warningf("%s failed: %v", msg, err)
	}
	c.JSON(http.StatusOK, m)
}

func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}
