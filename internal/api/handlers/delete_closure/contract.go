package delete_closure

import (
	"context"
)

type FacilityService interface {
	DeleteClosure(ctx context.Context, closureID string, userID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
