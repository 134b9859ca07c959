package eventbus

import "context"

// NoopPublisher используется, когда брокер не настроен
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingEvent(ctx context.Context, event BookingEvent) error {
	return nil
}

func (NoopPublisher) Close() error {
	return nil
}
