package testutil

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-ClubBookingService/internal/integrations/eventbus"
)

// EventRecorder запоминает опубликованные события; Err возвращается из каждой публикации
type EventRecorder struct {
	mu     sync.Mutex
	Events []eventbus.BookingEvent
	Err    error
}

func (r *EventRecorder) PublishBookingEvent(ctx context.Context, event eventbus.BookingEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, event)
	return nil
}

// Types типы опубликованных событий по порядку
func (r *EventRecorder) Types() []eventbus.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]eventbus.EventType, 0, len(r.Events))
	for _, e := range r.Events {
		out = append(out, e.Type)
	}
	return out
}
