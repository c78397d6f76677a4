package services

import (
  "testing"

  "github.com/google/uuid"
  "github.com/stretchr/testify/assert"
)

func TestResolveOrMint(t *testing.T) {
  svc := NewSessionService(testLogger(t))

  t.Run("existing token is reused", func(t *testing.T) {
    existing := uuid.New()
    token, isNew := svc.ResolveOrMint(existing.String())
    assert.Equal(t, existing, token)
    assert.False(t, isNew)
  })

  t.Run("empty value mints", func(t *testing.T) {
    token, isNew := svc.ResolveOrMint("")
    assert.NotEqual(t, uuid.Nil, token)
    assert.True(t, isNew)
  })

  t.Run("garbage value mints", func(t *testing.T) {
    token, isNew := svc.ResolveOrMint("definitely-not-a-uuid")
    assert.NotEqual(t, uuid.Nil, token)
    assert.True(t, isNew)
  })

  t.Run("minted tokens are unique", func(t *testing.T) {
    a, _ := svc.ResolveOrMint("")
    b, _ := svc.ResolveOrMint("")
    assert.NotEqual(t, a, b)
  })
}
