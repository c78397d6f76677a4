package middleware

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/daily-diet-org/daily-diet-backend/internal/logger"
  "github.com/daily-diet-org/daily-diet-backend/internal/requestdata"
  "github.com/daily-diet-org/daily-diet-backend/internal/services"
)

type SessionMiddleware struct {
  log             *logger.Logger
}

func NewSessionMiddleware(log *logger.Logger) *SessionMiddleware {
  middlewareLogger := log.With("Middleware", "SessionMiddleware")
  return &SessionMiddleware{log: middlewareLogger}
}

// RequireSession gates every route that reads or mutates existing meals. A
// missing or non-UUID cookie can never own rows, so both abort with a 401
// before any store access.
func (sm *SessionMiddleware) RequireSession() gin.HandlerFunc {
  return func(c *gin.Context) {
    raw, err := c.Cookie(services.SessionCookieName)
    if err != nil || raw == "" {
      sm.log.Debug("Session cookie missing, rejecting request")
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
      return
    }
    sessionID, err := uuid.Parse(raw)
    if err != nil {
      sm.log.Debug("Session cookie is not a UUID, rejecting request", "raw", raw)
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
      return
    }
    ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{SessionID: sessionID})
    c.Request = c.Request.WithContext(ctx)
    c.Next()
  }
}
