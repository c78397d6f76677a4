package handlers

import (
  "errors"
  "io"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/daily-diet-org/daily-diet-backend/internal/requestdata"
  "github.com/daily-diet-org/daily-diet-backend/internal/services"
  "github.com/daily-diet-org/daily-diet-backend/internal/types"
)

type MealHandler struct {
  mealService     services.MealService
  sessionService  services.SessionService
}

func NewMealHandler(mealService services.MealService, sessionService services.SessionService) *MealHandler {
  return &MealHandler{mealService: mealService, sessionService: sessionService}
}

// CreateMeal is the only route allowed to run without an existing session: it
// mints one and sets the cookie itself when the request carries none.
func (mh *MealHandler) CreateMeal(c *gin.Context) {
  var input services.CreateMealInput
  if err := c.ShouldBindJSON(&input); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }

  raw, _ := c.Cookie(services.SessionCookieName)
  sessionID, isNew := mh.sessionService.ResolveOrMint(raw)
  if isNew {
    c.SetCookie(services.SessionCookieName, sessionID.String(), services.SessionCookieMaxAge, services.SessionCookiePath, "", false, false)
  }

  if _, err := mh.mealService.CreateMeal(c.Request.Context(), nil, sessionID, input); err != nil {
    if errors.Is(err, services.ErrValidation) {
      c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
      return
    }
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.Status(http.StatusCreated)
}

func (mh *MealHandler) ListMeals(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  meals, err := mh.mealService.ListMeals(c.Request.Context(), nil, rd.SessionID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  if meals == nil {
    meals = []*types.Meal{}
  }
  c.JSON(http.StatusOK, gin.H{"meals": meals})
}

func (mh *MealHandler) GetMeal(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  mealID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
    return
  }
  meal, err := mh.mealService.GetMeal(c.Request.Context(), nil, rd.SessionID, mealID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  // A miss is a soft null, not a 404.
  c.JSON(http.StatusOK, gin.H{"meal": meal})
}

func (mh *MealHandler) UpdateMeal(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  mealID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
    return
  }
  // An empty body is the same as an empty update, and both are valid no-ops.
  var input services.UpdateMealInput
  if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  if err := mh.mealService.UpdateMeal(c.Request.Context(), nil, rd.SessionID, mealID, input); err != nil {
    if errors.Is(err, services.ErrValidation) {
      c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
      return
    }
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.Status(http.StatusNoContent)
}

func (mh *MealHandler) DeleteMeal(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  mealID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
    return
  }
  if err := mh.mealService.DeleteMeal(c.Request.Context(), nil, rd.SessionID, mealID); err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.Status(http.StatusNoContent)
}

func (mh *MealHandler) GetMetrics(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
    return
  }
  metrics, err := mh.mealService.Metrics(c.Request.Context(), nil, rd.SessionID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, metrics)
}
