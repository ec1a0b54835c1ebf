package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/api"
	createBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/create_booking"
	deleteBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/delete_booking"
	getAvailableSlotsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking"
	getBookingStatisticsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_booking_statistics"
	getBookingsHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/get_bookings"
	updateBookingStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_booking_status"
	updatePaymentStatusHandler "github.com/m04kA/SMC-AppointmentService/internal/api/handlers/update_payment_status"
	"github.com/m04kA/SMC-AppointmentService/internal/config"
	bookingRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/catalog"
	"github.com/m04kA/SMC-AppointmentService/internal/service/availability"
	bookingsService "github.com/m04kA/SMC-AppointmentService/internal/service/bookings"
	createBookingUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/keylock"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/metrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/redislock"
	"github.com/m04kA/SMC-AppointmentService/pkg/txmanager"
)

// bookingStore общий интерфейс Postgres и in-memory хранилищ
type bookingStore interface {
	createBookingUC.BookingRepository
	availability.BookingRepository
	bookingsService.BookingRepository
}

const (
	poolStatsInterval = 15 * time.Second
	lockRetryDelay    = 20 * time.Millisecond
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
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

	log.Info("Starting SMC-AppointmentService...")
	log.Info("Configuration loaded from %s", *configPath)

	location, err := cfg.Scheduling.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Scheduling.Timezone, err)
	}

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}
	stopMetricsCh := make(chan struct{})

	// Хранилище бронирований и менеджер транзакций
	var (
		repository bookingStore
		txMgr      bookingsService.TransactionManager
	)
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		if err := db.Ping(); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		wrappedDB := dbmetrics.Wrap(db, metricsCollector)
		if metricsCollector != nil {
			go wrappedDB.CollectPoolStats(poolStatsInterval, stopMetricsCh)
			log.Info("Database metrics collection started")
		}

		repository = bookingRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	default:
		repository = bookingRepo.NewMemoryRepository()
		txMgr = txmanager.Noop{}
		log.Warn("Using in-memory booking storage, data is lost on restart")
	}

	// Блокировка мутаций по сотруднику
	var locker bookingsService.Locker
	switch cfg.Locking.Driver {
	case "redis":
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Locking.RedisAddr,
			Password: cfg.Locking.RedisPassword,
			DB:       cfg.Locking.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to ping redis at %s: %v", cfg.Locking.RedisAddr, err)
		}
		locker = redislock.New(redisClient, time.Duration(cfg.Locking.TTL)*time.Second, lockRetryDelay)
		log.Info("Using redis employee locks (addr=%s)", cfg.Locking.RedisAddr)
	default:
		locker = keylock.New()
	}

	// Каталог услуг и справочник сотрудников
	var catalogSource getAvailableSlotsUC.Catalog
	switch cfg.Catalog.Source {
	case "http":
		catalogSource = catalog.NewClient(cfg.Catalog.URL, time.Duration(cfg.Catalog.Timeout)*time.Second, log.With("component", "catalog"))
		log.Info("Catalog client initialized (url=%s, timeout=%ds)", cfg.Catalog.URL, cfg.Catalog.Timeout)
	default:
		static, err := catalog.LoadStatic(cfg.Catalog.File)
		if err != nil {
			log.Fatal("Failed to load catalog file %s: %v", cfg.Catalog.File, err)
		}
		catalogSource = static
		log.Info("Catalog loaded from %s", cfg.Catalog.File)
	}

	// Инициализируем сервисы
	availabilitySvc := availability.NewService(repository, cfg.Scheduling.SlotStepMinutes, log)
	bookingSvc := bookingsService.NewService(repository, txMgr, locker, metricsCollector, location, log)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		repository,
		catalogSource,
		availabilitySvc,
		txMgr,
		locker,
		metricsCollector,
		location,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		catalogSource,
		availabilitySvc,
		getAvailableSlotsUC.FirstActiveSelector{},
		metricsCollector,
		location,
		log,
	)

	// Настраиваем роутер
	router := api.NewRouter(api.Handlers{
		GetAvailableSlots:    getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log).Handle,
		CreateBooking:        createBookingHandler.NewHandler(createBookingUseCase, log).Handle,
		GetBookings:          getBookingsHandler.NewHandler(bookingSvc, log).Handle,
		GetBookingStatistics: getBookingStatisticsHandler.NewHandler(bookingSvc, log).Handle,
		GetBooking:           getBookingHandler.NewHandler(bookingSvc, log).Handle,
		UpdateBookingStatus:  updateBookingStatusHandler.NewHandler(bookingSvc, log).Handle,
		UpdatePaymentStatus:  updatePaymentStatusHandler.NewHandler(bookingSvc, log).Handle,
		DeleteBooking:        deleteBookingHandler.NewHandler(bookingSvc, log).Handle,
	}, metricsCollector, cfg.Metrics.Path, log)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s (storage=%s, locking=%s, catalog=%s, timezone=%s)",
			addr, cfg.Storage.Driver, cfg.Locking.Driver, cfg.Catalog.Source, location)
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
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
