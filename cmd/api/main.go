package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/emskillz/instructpoint/internal/pkg/logger"
	"github.com/emskillz/instructpoint/internal/server"
)

// @title InstructPoint API
// @version 1.0
// @description Administrative backend for a medical training organization: instructor roster, course records, curriculum library and team chat.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@instructpoint.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
