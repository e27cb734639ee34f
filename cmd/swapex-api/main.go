package main

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/openswap/swapex/config"
	"github.com/openswap/swapex/models"
	"github.com/openswap/swapex/routes"
)

func main() {
	godotenv.Load()

	if err := config.InitializeConfig(); err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := models.AutoMigrate(); err != nil {
		config.Logger.Fatalf("migration failed: %v", err)
	}

	r := routes.SetupRouter()
	// running
	r.Listen(":" + config.App.Port)
}
