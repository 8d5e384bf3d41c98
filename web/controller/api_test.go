package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"favor-bot/database"
	"favor-bot/database/model"
	"favor-bot/database/repository"
	"favor-bot/web/entity"
	"favor-bot/web/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupAPI(t *testing.T) (*gin.Engine, *service.RegistrationService, string) {
	err := database.InitTestDB()
	assert.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	regRepo := repository.NewRegistrationRepository(database.GetDB())
	settingService := service.NewSettingService(repository.NewSettingRepository(database.GetDB()))
	registrationService := service.NewRegistrationService(regRepo)
	accommodationService := service.NewAccommodationService(regRepo, settingService)
	statsService := service.NewStatsService(regRepo, repository.NewBotUserRepository(database.GetDB()))

	assert.NoError(t, settingService.SetAPIToken("test-token"))

	g := router.Group("/api")
	NewAPIController(g, registrationService, accommodationService, statsService, settingService)

	return router, registrationService, "test-token"
}

func doRequest(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPI_HealthIsOpen(t *testing.T) {
	router, _, _ := setupAPI(t)

	w := doRequest(router, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestAPI_RejectsMissingToken(t *testing.T) {
	router, _, _ := setupAPI(t)

	// Unauthorized requests look like a missing route.
	w := doRequest(router, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/stats", "wrong-token")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_Stats(t *testing.T) {
	router, regService, token := setupAPI(t)

	_, err := regService.Register(1, &service.RegDraft{
		Name:        "Иванов Иван",
		Days:        2,
		ArrivalDate: "03.07.2025",
		City:        "Хабаровск",
		Phone:       "+79990001122",
		BirthDate:   "15.06.2001",
		Gender:      model.GenderMale,
	})
	assert.NoError(t, err)

	w := doRequest(router, http.MethodGet, "/api/stats", token)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.Msg
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	obj, ok := resp.Obj.(map[string]any)
	assert.True(t, ok)
	assert.EqualValues(t, 1, obj["registered"])
}

func TestAPI_CheckIn(t *testing.T) {
	router, regService, token := setupAPI(t)

	reg, err := regService.Register(1, &service.RegDraft{
		Name:        "Иванов Иван",
		Days:        2,
		ArrivalDate: "03.07.2025",
		City:        "Хабаровск",
		Phone:       "+79990001122",
		BirthDate:   "15.06.2001",
		Gender:      model.GenderMale,
	})
	assert.NoError(t, err)

	w := doRequest(router, http.MethodPost, "/api/checkin/"+reg.RegID, token)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.Msg
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	updated, err := regService.GetByRegID(reg.RegID)
	assert.NoError(t, err)
	assert.True(t, updated.CheckedIn)
}

func TestAPI_CheckInUnknownID(t *testing.T) {
	router, _, token := setupAPI(t)

	w := doRequest(router, http.MethodPost, "/api/checkin/missing", token)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.Msg
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}

func TestAPI_Rooms(t *testing.T) {
	router, _, token := setupAPI(t)

	w := doRequest(router, http.MethodGet, "/api/rooms", token)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp entity.Msg
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	rooms, ok := resp.Obj.([]any)
	assert.True(t, ok)
	assert.Len(t, rooms, 10)
}
