package audit

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type memoryWriter struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (w *memoryWriter) Log(ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return errors.New("db unavailable")
	}
	w.events = append(w.events, ev)
	return nil
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	w := &memoryWriter{}
	d := NewDispatcher(w, zap.NewNop())

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{ProviderID: 1, Action: "reservation_created"})
	}
	d.Close()

	assert.Len(t, w.events, 10)
}

func TestDispatcherSurvivesWriterErrors(t *testing.T) {
	w := &memoryWriter{fail: true}
	d := NewDispatcher(w, zap.NewNop())

	d.Dispatch(Event{ProviderID: 1, Action: "reservation_cancelled"})
	d.Close()

	assert.Empty(t, w.events)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Dispatch(Event{Action: "x"}) })
}
