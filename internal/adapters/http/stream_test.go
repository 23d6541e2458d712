package http

import (
	"testing"

	"github.com/keyloom/keyloom/internal/logging"
	"github.com/stretchr/testify/assert"
)

func TestStreamManagerBroadcast(t *testing.T) {
	sm := NewStreamManager(logging.NewNop())

	ch, cancel := sm.Subscribe("sess-1")
	other, cancelOther := sm.Subscribe("sess-2")
	defer cancelOther()

	sm.Broadcast("sess-1", "hello")

	assert.Equal(t, "hello", <-ch)
	assert.Empty(t, other, "broadcast must not cross sessions")

	cancel()
	_, open := <-ch
	assert.False(t, open, "cancel closes the subscriber channel")

	// Broadcasting to a session with no subscribers is a no-op.
	sm.Broadcast("sess-1", "dropped")
}

func TestStreamManagerSlowClient(t *testing.T) {
	sm := NewStreamManager(logging.NewNop())

	ch, cancel := sm.Subscribe("sess-1")
	defer cancel()

	// Fill the buffer and keep going; the overflow is dropped, not blocked on.
	for i := 0; i < cap(ch)+5; i++ {
		sm.Broadcast("sess-1", "msg")
	}
	assert.Len(t, ch, cap(ch))
}
