package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/calcledger/internal/server"
	"github.com/dmitrijs2005/calcledger/internal/server/config"
)

func main() {

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Fatalf("error loading .env file: %v", err)
		}
	}

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
