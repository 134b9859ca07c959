package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gorilla/mux"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/create_booking"
	createClosureHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/create_closure"
	deleteClosureHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/delete_closure"
	getAvailableSlotsHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/get_booking"
	getUserBookingsHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/get_user_bookings"
	listBookingsHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/list_bookings"
	listFacilityTypesHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/list_facility_types"
	updateBookingHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/update_booking"
	updateBookingRulesHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/update_booking_rules"
	updateOpeningHoursHandler "github.com/m04kA/SMC-ClubBookingService/internal/api/handlers/update_opening_hours"
	"github.com/m04kA/SMC-ClubBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClubBookingService/internal/config"
	bookingRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/booking"
	facilityRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/facility"
	membershipRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/membership"
	ruleRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/rule"
	scheduleRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ClubBookingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/admission"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/authz"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-ClubBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/conflicts"
	facilitiesService "github.com/m04kA/SMC-ClubBookingService/internal/service/facilities"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/rules"
	cancelBookingUC "github.com/m04kA/SMC-ClubBookingService/internal/usecase/cancel_booking"
	createBookingUC "github.com/m04kA/SMC-ClubBookingService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-ClubBookingService/internal/usecase/get_available_slots"
	updateBookingUC "github.com/m04kA/SMC-ClubBookingService/internal/usecase/update_booking"
	"github.com/m04kA/SMC-ClubBookingService/migrations"
	"github.com/m04kA/SMC-ClubBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/logger"
	"github.com/m04kA/SMC-ClubBookingService/pkg/metrics"
	"github.com/m04kA/SMC-ClubBookingService/pkg/tracing"
	"github.com/m04kA/SMC-ClubBookingService/pkg/txmanager"
)

// Публикатор событий: RabbitMQ или noop
type eventPublisher interface {
	PublishBookingEvent(ctx context.Context, event eventbus.BookingEvent) error
	Close() error
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-ClubBookingService...")
	log.Info("Configuration loaded from config.toml")

	location, err := cfg.Booking.Location()
	if err != nil {
		log.Fatal("Failed to load booking timezone %q: %v", cfg.Booking.Timezone, err)
	}

	// Трейсинг (при выключенном остаётся noop-провайдер)
	shutdownTracing, err := tracing.Init(context.Background(), tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Metrics.ServiceName,
		Environment: cfg.Tracing.Environment,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		log.Fatal("Failed to initialize tracing: %v", err)
	}
	if cfg.Tracing.Enabled {
		log.Info("Tracing enabled, exporting to %s", cfg.Tracing.Endpoint)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных ("postgres" - lib/pq, "pgx" - pgx stdlib)
	db, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (driver=%s, host=%s, port=%d, db=%s)",
		cfg.Database.Driver, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if err := migrations.Up(db); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Database migrations applied")

	// Обёртка с метриками; без коллектора работает как прозрачный прокси
	var wrappedDB *dbmetrics.DB
	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		log.Info("Database metrics collection started")
	} else {
		wrappedDB = dbmetrics.Plain(db)
	}
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Публикация событий бронирований
	var publisher eventPublisher = eventbus.NoopPublisher{}
	if cfg.Events.Enabled {
		p, err := eventbus.NewPublisher(
			cfg.Events.URL,
			cfg.Events.Exchange,
			time.Duration(cfg.Events.Timeout)*time.Second,
			log,
		)
		if err != nil {
			log.Fatal("Failed to connect to event broker: %v", err)
		}
		publisher = p
		log.Info("Booking events are published to exchange %s", cfg.Events.Exchange)
	}
	defer publisher.Close()

	// Инициализируем репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	facilityRepository := facilityRepo.NewRepository(wrappedDB)
	membershipRepository := membershipRepo.NewRepository(wrappedDB)
	ruleRepository := ruleRepo.NewRepository(wrappedDB)
	scheduleRepository := scheduleRepo.NewRepository(wrappedDB)

	// Инициализируем сервисы
	accessResolver := authz.NewResolver(membershipRepository)
	availabilitySvc := availability.NewService(scheduleRepository, log)
	rulesSvc := rules.NewService(ruleRepository, log)
	conflictDetector := conflicts.NewDetector(bookingRepository)
	admissionChecker := admission.NewChecker(
		facilityRepository,
		availabilitySvc,
		rulesSvc,
		conflictDetector,
		location,
		log,
	)

	bookingSvc := bookingsService.NewService(
		bookingRepository,
		accessResolver,
		log,
	)
	facilitySvc := facilitiesService.NewService(
		facilityRepository,
		scheduleRepository,
		ruleRepository,
		accessResolver,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		accessResolver,
		admissionChecker,
		bookingRepository,
		rulesSvc,
		publisher,
		metricsCollector,
		txMgr,
		log,
	)
	updateBookingUseCase := updateBookingUC.NewUseCase(
		bookingRepository,
		facilityRepository,
		admissionChecker,
		publisher,
		metricsCollector,
		txMgr,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		facilityRepository,
		admissionChecker,
		publisher,
		metricsCollector,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		accessResolver,
		admissionChecker,
		availabilitySvc,
		bookingRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	updateBooking := updateBookingHandler.NewHandler(updateBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	listBookings := listBookingsHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	listFacilityTypes := listFacilityTypesHandler.NewHandler(facilitySvc, log)
	updateOpeningHours := updateOpeningHoursHandler.NewHandler(facilitySvc, log)
	updateBookingRules := updateBookingRulesHandler.NewHandler(facilitySvc, log)
	createClosure := createClosureHandler.NewHandler(facilitySvc, log)
	deleteClosure := deleteClosureHandler.NewHandler(facilitySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		protected.Use(middleware.RateLimit(limiter))
		log.Info("Rate limit enabled: %.1f rps, burst %d", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// --- Бронирования ---
	// Создание бронирования
	protected.HandleFunc("/clubs/{clubId}/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Бронирования клуба за период
	protected.HandleFunc("/clubs/{clubId}/bookings", listBookings.Handle).Methods(http.MethodGet)

	// Получение бронирования по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Перенос бронирования и замена участников
	protected.HandleFunc("/bookings/{bookingId}", updateBooking.Handle).Methods(http.MethodPut)

	// Отмена бронирования
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Предстоящие бронирования текущего пользователя
	protected.HandleFunc("/users/me/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Площадки ---
	// Каталог типов площадок клуба
	protected.HandleFunc("/clubs/{clubId}/facility-types", listFacilityTypes.Handle).Methods(http.MethodGet)

	// Слоты площадки на дату
	protected.HandleFunc("/clubs/{clubId}/facilities/{facilityId}/available-slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// --- Управление клубом (для владельца и администраторов) ---
	// Часы работы типа площадки
	protected.HandleFunc("/facility-types/{typeId}/opening-hours", updateOpeningHours.Handle).Methods(http.MethodPut)

	// Правила бронирования типа площадки
	protected.HandleFunc("/facility-types/{typeId}/rules", updateBookingRules.Handle).Methods(http.MethodPut)

	// Закрытия площадок
	protected.HandleFunc("/clubs/{clubId}/closures", createClosure.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/closures/{closureId}", deleteClosure.Handle).Methods(http.MethodDelete)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("Failed to flush traces: %v", err)
	}

	log.Info("Server stopped gracefully")
}
