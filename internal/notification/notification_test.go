package notification

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fauzankm/storefront/internal/session"
)

func TestHubDrain(t *testing.T) {
	t.Run("given pushed notifications should drain in fifo order", func(t *testing.T) {
		hub := NewHub()
		hub.Success("session-1", "first")
		hub.Error("session-1", "second")

		pending := hub.Drain("session-1")

		assert.Len(t, pending, 2)
		assert.Equal(t, Notification{Level: LevelSuccess, Message: "first"}, pending[0])
		assert.Equal(t, Notification{Level: LevelError, Message: "second"}, pending[1])
	})
	t.Run("given drained session should be empty on the next drain", func(t *testing.T) {
		hub := NewHub()
		hub.Success("session-1", "first")

		hub.Drain("session-1")

		assert.Empty(t, hub.Drain("session-1"))
	})
	t.Run("given other sessions should not leak across", func(t *testing.T) {
		hub := NewHub()
		hub.Success("session-1", "first")

		assert.Empty(t, hub.Drain("session-2"))
		assert.Len(t, hub.Drain("session-1"), 1)
	})
	t.Run("given never-drained idle queue should be reaped", func(t *testing.T) {
		hub := NewHub()
		now := time.Now()
		hub.nowFunc = func() time.Time { return now }

		hub.Success("idle-session", "first")
		now = now.Add(session.Lifetime + time.Minute)
		hub.Success("active-session", "second")

		hub.sweep(now)

		assert.Empty(t, hub.Drain("idle-session"))
		assert.Len(t, hub.Drain("active-session"), 1)
	})
	t.Run("given overflow should drop the oldest entry", func(t *testing.T) {
		hub := NewHub()
		for i := 0; i < maxPending+1; i++ {
			hub.Success("session-1", fmt.Sprintf("message-%d", i))
		}

		pending := hub.Drain("session-1")

		assert.Len(t, pending, maxPending)
		assert.Equal(t, "message-1", pending[0].Message)
		assert.Equal(t, fmt.Sprintf("message-%d", maxPending), pending[len(pending)-1].Message)
	})
}
