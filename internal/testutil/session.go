package testutil

import (
	"testing"
	"time"

	"github.com/automaatje/automaatje/internal/app/system/auth"
	"go.uber.org/zap"
)

// NewSessionManager returns a session manager with a fixed test key.
func NewSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("test-session-key-0123456789abcdef", "", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return sm
}
