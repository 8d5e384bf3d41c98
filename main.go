package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"favor-bot/config"
	"favor-bot/database"
	"favor-bot/database/repository"
	"favor-bot/logger"
	"favor-bot/web"
	"favor-bot/web/service"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
)

// app bundles everything main needs to start, restart and stop.
type app struct {
	server *web.Server
	tgbot  *service.Tgbot
}

func buildApp() (*app, error) {
	db := database.GetDB()
	regRepo := repository.NewRegistrationRepository(db)
	userRepo := repository.NewBotUserRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	settingService := service.NewSettingService(settingRepo)
	registrationService := service.NewRegistrationService(regRepo)
	accommodationService := service.NewAccommodationService(regRepo, settingService)
	statsService := service.NewStatsService(regRepo, userRepo)
	serverService := service.NewServerService()

	tgbot := service.NewTgbot(
		registrationService,
		accommodationService,
		statsService,
		settingService,
		serverService,
		userRepo,
	)

	server := web.NewServer(registrationService, accommodationService, statsService, settingService)
	server.SetTelegramService(tgbot)

	return &app{server: server, tgbot: tgbot}, nil
}

func (a *app) start() error {
	// The bot is not fatal: the API keeps serving even when Telegram is
	// unreachable or unconfigured.
	if err := a.tgbot.Start(); err != nil {
		logger.Warning("Telegram bot not started:", err)
	}
	return a.server.Start()
}

func (a *app) stop() {
	if err := a.server.Stop(); err != nil {
		logger.Warning("Error stopping web server:", err)
	}
}

func runServer() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error loading .env file: %v", err)
	}

	var level logging.Level
	switch config.GetLogLevel() {
	case config.Debug:
		level = logging.DEBUG
	case config.Info:
		level = logging.INFO
	case config.Notice:
		level = logging.NOTICE
	case config.Warning:
		level = logging.WARNING
	case config.Error:
		level = logging.ERROR
	default:
		log.Fatalf("Unknown log level: %v", config.GetLogLevel())
	}
	logger.InitLogger(level)

	if err := database.InitDB(config.GetDBPath()); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	a, err := buildApp()
	if err != nil {
		log.Fatalf("Error initializing application: %v", err)
	}
	if err := a.start(); err != nil {
		log.Fatalf("Error starting web server: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	setupSignalHandler(sigCh)

	for {
		sig := <-sigCh

		if handleCustomSignal(sig, a.tgbot) {
			continue
		}

		switch sig {
		case syscall.SIGHUP:
			logger.Info("Received SIGHUP signal. Restarting servers...")
			a.stop()
			a, err = buildApp()
			if err != nil {
				log.Fatalf("Error restarting: %v", err)
			}
			if err := a.start(); err != nil {
				log.Fatalf("Error restarting: %v", err)
			}

		default:
			a.stop()
			if err := database.CloseDB(); err != nil {
				logger.Warning("Error closing database:", err)
			}
			log.Println("Shutting down servers.")
			return
		}
	}
}

func main() {
	if len(os.Args) < 2 {
		runServer()
		return
	}

	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "show version")

	runCmd := flag.NewFlagSet("run", flag.ExitOnError)

	settingCmd := flag.NewFlagSet("setting", flag.ExitOnError)
	var port int
	var listenIP string
	var apiToken string
	var reset bool
	var show bool
	settingCmd.BoolVar(&reset, "reset", false, "Reset all settings")
	settingCmd.BoolVar(&show, "show", false, "Display current settings")
	settingCmd.IntVar(&port, "port", 0, "Set API port number")
	settingCmd.StringVar(&listenIP, "listenIP", "", "Set API listen IP")
	settingCmd.StringVar(&apiToken, "apitoken", "", "Set API bearer token")

	oldUsage := flag.Usage
	flag.Usage = func() {
		oldUsage()
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("    run            run the bot and the API server")
		fmt.Println("    setting        set settings")
	}

	flag.Parse()
	if showVersion {
		fmt.Println(config.GetVersion())
		return
	}

	switch os.Args[1] {
	case "run":
		if err := runCmd.Parse(os.Args[2:]); err != nil {
			fmt.Println(err)
			return
		}
		runServer()
	case "setting":
		if err := settingCmd.Parse(os.Args[2:]); err != nil {
			fmt.Println(err)
			return
		}
		if reset {
			resetSetting()
		} else {
			updateSetting(port, listenIP, apiToken)
		}
		if show {
			showSetting()
		}
	default:
		fmt.Println("Invalid subcommand")
		fmt.Println()
		runCmd.Usage()
		fmt.Println()
		settingCmd.Usage()
	}
}
