package services

import (
  "github.com/google/uuid"

  "github.com/daily-diet-org/daily-diet-backend/internal/logger"
)

const (
  // SessionCookieName is the cookie carrying the anonymous session token.
  SessionCookieName = "sessionId"
  // SessionCookiePath scopes the cookie to the whole API.
  SessionCookiePath = "/"
  // SessionCookieMaxAge is 7 days, in seconds.
  SessionCookieMaxAge = 60 * 60 * 24 * 7
)

type SessionService interface {
  // ResolveOrMint returns the session token for the given raw cookie value,
  // minting a fresh token when the value is absent or not a UUID. The second
  // return reports whether a new token was minted; writing the cookie is the
  // caller's job.
  ResolveOrMint(raw string) (uuid.UUID, bool)
}

type sessionService struct {
  log *logger.Logger
}

func NewSessionService(log *logger.Logger) SessionService {
  serviceLog := log.With("service", "SessionService")
  return &sessionService{log: serviceLog}
}

func (ss *sessionService) ResolveOrMint(raw string) (uuid.UUID, bool) {
  if raw != "" {
    token, err := uuid.Parse(raw)
    if err == nil {
      ss.log.Debug("Existing session token resolved from cookie", "sessionID", token)
      return token, false
    }
    ss.log.Warn("Session cookie present but not a UUID, minting a fresh token", "raw", raw)
  }
  token := uuid.New()
  ss.log.Info("Minted fresh session token", "sessionID", token)
  return token, true
}
