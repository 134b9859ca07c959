package facility

import (
	"github.com/m04kA/SMC-ClubBookingService/pkg/dbmetrics"
)

// DBExecutor исполнитель запросов: *dbmetrics.DB или транзакция из контекста
type DBExecutor = dbmetrics.DBExecutor
