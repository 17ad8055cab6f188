package ws

import (
	"testing"

	"github.com/codefionn/socklet/internal/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// liveResponder builds a responder whose command queue is still open.
func liveResponder(id ConnectionID) (*Responder, *queue.Queue[responderCommand]) {
	q := queue.New[responderCommand]()
	return newResponder(q, id), q
}

func TestRegistryInsertRemove(t *testing.T) {
	r := NewRegistry()
	resp, _ := liveResponder(1)

	r.Insert(1, resp)
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(1)
	require.True(t, ok)
	assert.Same(t, resp, got)

	assert.True(t, r.Remove(1))
	assert.False(t, r.Remove(1), "second remove of the same id")
	assert.Equal(t, 0, r.Len())
}

func TestRegistryIDsSorted(t *testing.T) {
	r := NewRegistry()
	for _, id := range []ConnectionID{5, 1, 3} {
		resp, _ := liveResponder(id)
		r.Insert(id, resp)
	}

	assert.Equal(t, []ConnectionID{1, 3, 5}, r.IDs())
}

func TestBroadcastAttemptsEveryEntry(t *testing.T) {
	r := NewRegistry()

	queues := make(map[ConnectionID]*queue.Queue[responderCommand])
	for id := ConnectionID(0); id < 4; id++ {
		resp, q := liveResponder(id)
		r.Insert(id, resp)
		queues[id] = q
	}

	// one dead client must not block delivery to the others
	queues[2].Close()

	accepted := r.Broadcast(TextMessage("hello"))
	assert.Equal(t, 3, accepted)

	for id, q := range queues {
		if id == 2 {
			assert.Equal(t, 0, q.Len(), "dead client %d received a command", id)
			continue
		}
		assert.Equal(t, 1, q.Len(), "client %d command count", id)
	}
}

func TestSendToUnknownID(t *testing.T) {
	r := NewRegistry()

	delivered, err := r.SendTo(42, TextMessage("x"))
	assert.ErrorIs(t, err, ErrClientNotFound)
	assert.False(t, delivered)
}

func TestSendToDeadActor(t *testing.T) {
	r := NewRegistry()
	resp, q := liveResponder(7)
	r.Insert(7, resp)

	// actor died between lookup and send
	q.Close()

	delivered, err := r.SendTo(7, TextMessage("x"))
	require.NoError(t, err, "a dead actor is not a fault")
	assert.False(t, delivered)
}

func TestSendToLiveActor(t *testing.T) {
	r := NewRegistry()
	resp, q := liveResponder(7)
	r.Insert(7, resp)

	delivered, err := r.SendTo(7, TextMessage("x"))
	require.NoError(t, err)
	assert.True(t, delivered)

	cmd, ok := q.TryRecv()
	require.True(t, ok)
	assert.Equal(t, cmdSend, cmd.kind)
	assert.Equal(t, "x", cmd.msg.Text)
}
