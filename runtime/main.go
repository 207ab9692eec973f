package main

import (
	"os"

	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shawnadoherty9/travelogie-sub001/services"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file found, using system environment variables")
	}

	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}

	ctx, err := context.NewCtx(
		databaseService(os.Getenv("DB_DRIVER")),
		&services.RedisService{},
		&services.MinIOService{},
		&services.MonitoringService{},

		&services.JWTService{},
		&services.AuthMiddleware{},
		&services.RateLimitService{},
		&services.ImportService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure services")
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("Service stopped")
		return
	}
}

func databaseService(driver string) context.Service {
	if driver == "sqlite" {
		return &services.SqliteService{}
	}
	return &services.PostgresService{}
}
