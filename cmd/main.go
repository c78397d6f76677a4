package main

import (
  "fmt"
  "os"
  "strings"

  "github.com/joho/godotenv"

  "github.com/daily-diet-org/daily-diet-backend/internal/db"
  "github.com/daily-diet-org/daily-diet-backend/internal/handlers"
  "github.com/daily-diet-org/daily-diet-backend/internal/logger"
  "github.com/daily-diet-org/daily-diet-backend/internal/middleware"
  "github.com/daily-diet-org/daily-diet-backend/internal/repos"
  "github.com/daily-diet-org/daily-diet-backend/internal/server"
  "github.com/daily-diet-org/daily-diet-backend/internal/services"
  "github.com/daily-diet-org/daily-diet-backend/internal/utils"
)

func main() {
  // Local .env is optional
  _ = godotenv.Load()

  // Logger Setup
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Environment Variables
  log.Info("Attempting to load environment variables for Main now...")
  corsOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log)
  log.Debug("Environment variables loaded for Main :)", "corsOrigins", corsOrigins)

  // Postgres Setup
  log.Info("Setting Up Postgres from Main now...")
  postgresService, err := db.NewPostgresService(log)
  if err != nil {
    log.Error("DB init failed", "error", err)
    os.Exit(1)
  }
  if err = postgresService.AutoMigrateAll(); err != nil {
    log.Warn("Postgres auto migration failed", "error", err)
  }
  thePG := postgresService.DB()
  log.Info("Postgres Setup From Main Successful :)")

  // Repositories Setup
  log.Info("Setting Up Repositories from Main now...")
  mealRepo := repos.NewMealRepo(thePG, log)
  log.Info("Repositories Set Up From Main Successful :)")

  // Services Setup
  log.Info("Setting up Services from Main now...")
  sessionService := services.NewSessionService(log)
  mealService := services.NewMealService(log, mealRepo)
  log.Info("Services Set Up From Main Successful :)")

  // Handler Setup
  log.Info("Setting Up Handlers from Main now...")
  mealHandler := handlers.NewMealHandler(mealService, sessionService)
  log.Info("Handlers Set Up From Main Successful :)")

  // MiddleWare Setup
  log.Info("Setting Up Middleware from Main now...")
  sessionMiddleware := middleware.NewSessionMiddleware(log)
  log.Info("Middleware Set Up From Main Successful :)")

  // Router Setup
  log.Info("Setting Up Router from Main now...")
  router := server.NewRouter(server.RouterConfig{
    MealHandler:       mealHandler,
    SessionMiddleware: sessionMiddleware,
    AllowOrigins:      strings.Split(corsOrigins, ","),
  })
  log.Info("Router Set Up From Main Successful :)")

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Error("Server failed", "error", err)
  }
}
