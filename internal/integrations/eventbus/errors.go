package eventbus

import "errors"

var (
	// ErrConnect возвращается, когда не удалось подключиться к брокеру
	ErrConnect = errors.New("eventbus: connect to broker")

	// ErrPublish возвращается, когда событие не удалось отправить
	ErrPublish = errors.New("eventbus: publish event")

	// ErrClosed возвращается при публикации в закрытый publisher
	ErrClosed = errors.New("eventbus: publisher is closed")
)
