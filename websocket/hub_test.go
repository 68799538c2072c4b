package websocket

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeConn struct {
	mu        sync.Mutex
	events    []CbtEvent
	deadlines []time.Time
	fail      bool
	closed    bool
}

func (f *fakeConn) SetWriteDeadline(t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deadlines = append(f.deadlines, t)
	return nil
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("broken pipe")
	}
	f.events = append(f.events, v.(CbtEvent))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() []CbtEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CbtEvent(nil), f.events...)
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func TestHubDeliversEventsToTheClassOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	classA, classB := uuid.New(), uuid.New()
	watcherA := &fakeConn{}
	watcherB := &fakeConn{}
	hub.Register(&Client{UserID: uuid.New(), ClassID: classA, Conn: watcherA})
	hub.Register(&Client{UserID: uuid.New(), ClassID: classB, Conn: watcherB})

	assert.Eventually(t, func() bool { return hub.Subscribers(classA) == 1 && hub.Subscribers(classB) == 1 },
		time.Second, 10*time.Millisecond)

	event := CbtEvent{Type: EventCbtSubmitted, ClassID: classA, ResultID: uuid.New(), TriggerType: "manual"}
	hub.Publish(event)

	assert.Eventually(t, func() bool { return len(watcherA.received()) == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, event, watcherA.received()[0])
	assert.Empty(t, watcherB.received())
}

func TestHubDropsFailingClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	classID := uuid.New()
	broken := &fakeConn{fail: true}
	client := &Client{UserID: uuid.New(), ClassID: classID, Conn: broken}
	hub.Register(client)

	hub.Publish(CbtEvent{Type: EventCbtStarted, ClassID: classID})

	assert.Eventually(t, func() bool { return hub.Subscribers(classID) == 0 && broken.isClosed() },
		time.Second, 10*time.Millisecond)

	// unregistering an already removed client is a no-op
	hub.Unregister(client)
	assert.Equal(t, 0, hub.Subscribers(classID))
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(CbtEvent{Type: EventCbtStarted})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
}

func TestHubBoundsEachWrite(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	classID := uuid.New()
	conn := &fakeConn{}
	hub.Register(&Client{UserID: uuid.New(), ClassID: classID, Conn: conn})

	before := time.Now()
	hub.Publish(CbtEvent{Type: EventCbtStarted, ClassID: classID})
	hub.Publish(CbtEvent{Type: EventCbtSubmitted, ClassID: classID})

	assert.Eventually(t, func() bool { return len(conn.received()) == 2 }, time.Second, 10*time.Millisecond)

	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.Len(t, conn.deadlines, 2)
	for _, d := range conn.deadlines {
		assert.False(t, d.Before(before.Add(writeWait)))
		assert.True(t, d.Before(time.Now().Add(writeWait+time.Second)))
	}
}
