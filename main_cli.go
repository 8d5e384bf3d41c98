package main

import (
	"fmt"
	"log"

	"favor-bot/config"
	"favor-bot/database"
	"favor-bot/database/repository"
	"favor-bot/web/service"
)

func openSettingService() *service.SettingService {
	if err := database.InitDB(config.GetDBPath()); err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	return service.NewSettingService(repository.NewSettingRepository(database.GetDB()))
}

func resetSetting() {
	settingService := openSettingService()
	if err := settingService.Reset(); err != nil {
		fmt.Println("Failed to reset settings:", err)
		return
	}
	fmt.Println("Settings successfully reset.")
}

func updateSetting(port int, listenIP string, apiToken string) {
	if port == 0 && listenIP == "" && apiToken == "" {
		return
	}
	settingService := openSettingService()

	if port > 0 {
		if err := settingService.SetPort(port); err != nil {
			fmt.Println("Failed to set port:", err)
		} else {
			fmt.Printf("Port set successfully: %v\n", port)
		}
	}
	if listenIP != "" {
		if err := settingService.SetListen(listenIP); err != nil {
			fmt.Println("Failed to set listen IP:", err)
		} else {
			fmt.Printf("Listen IP set successfully: %v\n", listenIP)
		}
	}
	if apiToken != "" {
		if err := settingService.SetAPIToken(apiToken); err != nil {
			fmt.Println("Failed to set API token:", err)
		} else {
			fmt.Println("API token set successfully.")
		}
	}
}

func showSetting() {
	settingService := openSettingService()
	out, err := settingService.Show()
	if err != nil {
		fmt.Println("Failed to read settings:", err)
		return
	}
	fmt.Print(out)
}
