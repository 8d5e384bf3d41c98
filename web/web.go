package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"favor-bot/config"
	"favor-bot/logger"
	"favor-bot/util/common"
	"favor-bot/web/controller"
	"favor-bot/web/job"
	"favor-bot/web/service"

	"github.com/gin-gonic/gin"
	cron "github.com/robfig/cron/v3"
)

// Server hosts the JSON API and the cron jobs. The Telegram bot itself
// is injected from main so both sides share the same services.
type Server struct {
	httpServer *http.Server
	listener   net.Listener

	api *controller.APIController

	registrationService  *service.RegistrationService
	accommodationService *service.AccommodationService
	statsService         *service.StatsService
	settingService       *service.SettingService
	tgbotService         service.TelegramService

	cron *cron.Cron

	ctx    context.Context
	cancel context.CancelFunc
}

func NewServer(
	registrationService *service.RegistrationService,
	accommodationService *service.AccommodationService,
	statsService *service.StatsService,
	settingService *service.SettingService,
) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		ctx:                  ctx,
		cancel:               cancel,
		registrationService:  registrationService,
		accommodationService: accommodationService,
		statsService:         statsService,
		settingService:       settingService,
	}
}

func (s *Server) SetTelegramService(tgService service.TelegramService) {
	s.tgbotService = tgService
}

func (s *Server) initRouter() (*gin.Engine, error) {
	if config.IsDebug() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.DefaultWriter = io.Discard
		gin.DefaultErrorWriter = io.Discard
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.Default()

	g := engine.Group("/api")
	s.api = controller.NewAPIController(g, s.registrationService, s.accommodationService, s.statsService, s.settingService)

	return engine, nil
}

func (s *Server) startTask() {
	// Daily summary to the channel.
	_, _ = s.cron.AddJob("@daily", job.NewStatsReportJob(s.statsService, s.tgbotService))

	// Nightly database backup to the admin chats.
	_, _ = s.cron.AddJob("0 30 3 * * *", job.NewBackupJob(s.tgbotService))
}

func (s *Server) Start() (err error) {
	defer func() {
		if err != nil {
			_ = s.Stop()
		}
	}()

	s.cron = cron.New(cron.WithSeconds(), cron.WithLogger(cronLogger{}))
	s.cron.Start()

	engine, err := s.initRouter()
	if err != nil {
		return err
	}

	listen, err := s.settingService.GetListen()
	if err != nil {
		return err
	}
	port, err := s.settingService.GetPort()
	if err != nil {
		return err
	}

	listenAddr := net.JoinHostPort(listen, strconv.Itoa(port))
	listener, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return err
	}
	s.listener = listener
	logger.Info("Web server running HTTP on", listener.Addr())

	s.httpServer = &http.Server{
		Handler:      engine,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		_ = s.httpServer.Serve(listener)
	}()

	s.startTask()

	return nil
}

func (s *Server) Stop() error {
	s.cancel()
	if s.cron != nil {
		s.cron.Stop()
	}
	if tgBot, ok := s.tgbotService.(*service.Tgbot); ok {
		if tgBot.IsRunning() {
			tgBot.Stop()
		}
	}
	var err1 error
	var err2 error
	if s.httpServer != nil {
		err1 = s.httpServer.Shutdown(s.ctx)
	}
	if s.listener != nil {
		err2 = s.listener.Close()
	}
	return common.Combine(err1, err2)
}
