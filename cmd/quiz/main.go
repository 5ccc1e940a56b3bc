package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/k5602/quizdesk/internal/app"
	"github.com/k5602/quizdesk/internal/cli"
	"github.com/k5602/quizdesk/internal/config"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	instance := app.New(cfg)
	cli.New(instance, os.Stdin, os.Stdout).Run()
}
