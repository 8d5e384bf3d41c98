package controller

import (
	"io"
	"net/http"
	"strconv"

	"favor-bot/logger"
	"favor-bot/util/qr"
	"favor-bot/web/service"

	"github.com/gin-gonic/gin"
)

// APIController exposes the registration data over JSON for organizer
// tooling. Everything except /health requires the API token.
type APIController struct {
	BaseController

	registrationService  *service.RegistrationService
	accommodationService *service.AccommodationService
	statsService         *service.StatsService
}

func NewAPIController(
	g *gin.RouterGroup,
	registrationService *service.RegistrationService,
	accommodationService *service.AccommodationService,
	statsService *service.StatsService,
	settingService *service.SettingService,
) *APIController {
	a := &APIController{
		registrationService:  registrationService,
		accommodationService: accommodationService,
		statsService:         statsService,
	}
	a.settingService = settingService
	a.initRouter(g)
	return a
}

func (a *APIController) initRouter(g *gin.RouterGroup) {
	g.GET("/health", a.health)

	api := g.Group("/")
	api.Use(a.checkToken)

	api.GET("/stats", a.stats)
	api.GET("/logs", a.logs)
	api.GET("/registrations", a.registrations)
	api.GET("/registrations/:id", a.registration)
	api.GET("/rooms", a.rooms)
	api.POST("/checkin/:id", a.checkIn)
	api.POST("/checkin/scan", a.checkInScan)
}

func (a *APIController) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *APIController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "50"))
	if err != nil || count <= 0 {
		count = 50
	}
	level := c.DefaultQuery("level", "INFO")
	jsonObj(c, logger.GetLogs(count, level), nil)
}

func (a *APIController) stats(c *gin.Context) {
	stats, err := a.statsService.Get()
	jsonObj(c, stats, err)
}

func (a *APIController) registrations(c *gin.Context) {
	regs, err := a.registrationService.All()
	jsonObj(c, regs, err)
}

func (a *APIController) registration(c *gin.Context) {
	reg, err := a.registrationService.GetByRegID(c.Param("id"))
	if err != nil {
		jsonMsg(c, "get registration", err)
		return
	}
	jsonObj(c, reg, nil)
}

func (a *APIController) rooms(c *gin.Context) {
	rooms, err := a.accommodationService.Occupancy()
	jsonObj(c, rooms, err)
}

func (a *APIController) checkIn(c *gin.Context) {
	reg, err := a.registrationService.CheckIn(c.Param("id"))
	if err != nil {
		jsonMsg(c, "check-in", err)
		return
	}
	jsonObj(c, reg, nil)
}

// checkInScan accepts a multipart image upload, decodes the QR code and
// marks the registration as arrived.
func (a *APIController) checkInScan(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		jsonMsg(c, "read upload", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		jsonMsg(c, "read upload", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonMsg(c, "read upload", err)
		return
	}

	regID, err := qr.Decode(data)
	if err != nil {
		jsonMsg(c, "decode qr", err)
		return
	}
	reg, err := a.registrationService.CheckIn(regID)
	if err != nil {
		jsonMsg(c, "check-in", err)
		return
	}
	jsonObj(c, reg, nil)
}
