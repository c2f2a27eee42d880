package main

import (
	"flag"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/sweeplab/leaderboard/internal/app"
	"github.com/sweeplab/leaderboard/internal/handlers"
)

func main() {
	var configPath = flag.String("config", "config.toml", "Path to config file")
	flag.Parse()

	// captcha secret and friends live in the environment
	if err := godotenv.Load(); err != nil {
		logger.Debug.Printf("No .env file loaded: %v", err)
	}

	config, err := app.LoadConfig(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to load config: %v", err)
	}

	service, err := app.NewService(config)
	if err != nil {
		logger.Error.Fatalf("Failed to init service: %v", err)
	}
	defer service.Close()

	scoreHandler := handlers.NewScoreHandler(service)

	http.HandleFunc("/submit", scoreHandler.HandleSubmit)
	http.HandleFunc("/get_top_100", scoreHandler.HandleTopScores)
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/", scoreHandler.HandleNotFound)

	logger.Info.Printf("Starting leaderboard server on %s", config.Server.Port)
	if config.Server.TestMode {
		logger.Info.Printf("Running in test mode against %s, captcha gate is off", config.DSN())
	}
	if err := http.ListenAndServe(config.Server.Port, nil); err != nil {
		logger.Error.Fatalf("Leaderboard server failed: %v", err)
	}
}
