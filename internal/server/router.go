package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"

  "github.com/daily-diet-org/daily-diet-backend/internal/handlers"
  "github.com/daily-diet-org/daily-diet-backend/internal/middleware"
)

type RouterConfig struct {
  MealHandler           *handlers.MealHandler
  SessionMiddleware     *middleware.SessionMiddleware
  AllowOrigins          []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()

  //-----------------------------------------
  // Cors Setup
  //-----------------------------------------
  allowOrigins := cfg.AllowOrigins
  if len(allowOrigins) == 0 {
    allowOrigins = []string{"http://localhost:3000"}
  }
  router.Use(cors.New(cors.Config{
    AllowOrigins:     allowOrigins,
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

  //-----------------------------------------
  // Health Routes
  //-----------------------------------------
  router.GET("/healthz", handlers.Healthz)

  //-----------------------------------------
  // Public Routes
  //-----------------------------------------
  meals := router.Group("/meals")
  meals.POST("", cfg.MealHandler.CreateMeal)

  //------------------------------------------
  // Session-Gated Routes
  //------------------------------------------
  gated := meals.Group("")
  gated.Use(cfg.SessionMiddleware.RequireSession())
  gated.GET("", cfg.MealHandler.ListMeals)
  gated.GET("/metrics", cfg.MealHandler.GetMetrics)
  gated.GET("/:id", cfg.MealHandler.GetMeal)
  gated.PUT("/:id", cfg.MealHandler.UpdateMeal)
  gated.DELETE("/:id", cfg.MealHandler.DeleteMeal)

  return router
}
