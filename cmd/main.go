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

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	cancelBookingHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/create_booking"
	deleteDateOverrideHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/delete_date_override"
	getAvailableSlotsHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/get_booking"
	getKitchenBookingsHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/get_kitchen_bookings"
	getKitchenScheduleHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/get_kitchen_schedule"
	getUserBookingsHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/get_user_bookings"
	listDateOverridesHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/list_date_overrides"
	runCaptureHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/run_capture"
	updateLocationPolicyHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/update_location_policy"
	upsertDateOverrideHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/upsert_date_override"
	upsertWeeklyAvailabilityHandler "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers/upsert_weekly_availability"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/middleware"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/config"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/lock"
	availabilityRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/availability"
	bookingRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/booking"
	kitchenRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/kitchen"
	locationRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/location"
	paymentRepo "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/infra/storage/payment"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/notifications"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/integrations/payments"
	availabilityService "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/availability"
	bookingsService "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/bookings"
	capacityService "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/capacity"
	conflictsService "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/conflicts"
	scheduleService "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/timezone"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/window"
	capturePaymentsUC "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/usecase/capture_payments"
	createBookingUC "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/usecase/get_available_slots"
	captureWorker "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/worker/capture"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/migrations"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/dbmetrics"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/logger"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/metrics"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
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

	log.Info("Starting kitchen booking service...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(context.Background(), db, log); err != nil {
			log.Fatal("Failed to apply migrations: %v", err)
		}
	}

	// С выключенными метриками обертка работает как обычный *sql.DB
	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	availabilityRepository := availabilityRepo.NewRepository(wrappedDB)
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	kitchenRepository := kitchenRepo.NewRepository(wrappedDB)
	locationRepository := locationRepo.NewRepository(wrappedDB)
	paymentRepository := paymentRepo.NewRepository(wrappedDB)

	// Часы и часовые пояса
	clock, err := timezone.NewService(cfg.Booking.DefaultTimezone, nil, log)
	if err != nil {
		log.Fatal("Failed to initialize timezone service: %v", err)
	}

	// Блокировка слотов в Redis (опционально)
	var slotLocker createBookingUC.SlotLocker
	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Warn("Redis unavailable at %s, slot locking disabled: %v", cfg.Redis.Address, err)
			_ = redisClient.Close()
			redisClient = nil
		} else {
			slotLocker = lock.NewSlotLocker(redisClient,
				time.Duration(cfg.Redis.LockTTLSeconds)*time.Second,
				time.Duration(cfg.Redis.LockWaitMillis)*time.Millisecond)
			log.Info("Slot locking enabled (redis=%s, ttl=%ds)", cfg.Redis.Address, cfg.Redis.LockTTLSeconds)
		}
	}

	// Платежный провайдер
	paymentClient := payments.NewClient(
		cfg.Payments.BaseURL,
		cfg.Payments.APIKey,
		time.Duration(cfg.Payments.Timeout)*time.Second,
		cfg.Payments.RetryCount,
		log,
	)
	log.Info("Payment client initialized (url=%s, timeout=%ds, retries=%d)",
		cfg.Payments.BaseURL, cfg.Payments.Timeout, cfg.Payments.RetryCount)

	// Уведомления. nil диспетчер молча отбрасывает события.
	var dispatcher *notifications.Dispatcher
	if cfg.Notifications.Enabled {
		var emailSender, smsSender notifications.Sender
		if cfg.Notifications.Email.Enabled {
			emailSender = notifications.NewEmailSender(
				cfg.Notifications.Email.APIKey,
				"",
				cfg.Notifications.Email.FromEmail,
				cfg.Notifications.Email.FromName,
			)
		}
		if cfg.Notifications.SMS.Enabled {
			smsSender = notifications.NewSMSSender(
				cfg.Notifications.SMS.BaseURL,
				cfg.Notifications.SMS.APIKey,
				cfg.Notifications.SMS.From,
				time.Duration(cfg.Notifications.SMS.Timeout)*time.Second,
			)
		}
		dispatcher = notifications.NewDispatcher(
			emailSender,
			smsSender,
			rate.NewLimiter(rate.Limit(cfg.Notifications.RatePerSecond), cfg.Notifications.Burst),
			time.Duration(cfg.Notifications.TimeoutSeconds)*time.Second,
			log,
		)
		log.Info("Notifications enabled (email=%t, sms=%t)",
			cfg.Notifications.Email.Enabled, cfg.Notifications.SMS.Enabled)
	}

	// Сервисы
	availabilitySvc := availabilityService.NewService(availabilityRepository, log)
	capacitySvc := capacityService.NewService(availabilityRepository, bookingRepository, log)
	conflictsSvc := conflictsService.NewService(bookingRepository, log)
	windowValidator := window.NewValidator(clock)
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		kitchenRepository,
		locationRepository,
		paymentRepository,
		paymentClient,
		dispatcher,
		txMgr,
		metricsCollector,
		log,
	)
	scheduleSvc := scheduleService.NewService(
		availabilityRepository,
		bookingRepository,
		kitchenRepository,
		locationRepository,
		txMgr,
		log,
	)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(createBookingUC.Deps{
		BookingRepo:   bookingRepository,
		PaymentRepo:   paymentRepository,
		KitchenRepo:   kitchenRepository,
		LocationRepo:  locationRepository,
		Availability:  availabilitySvc,
		Capacity:      capacitySvc,
		Window:        windowValidator,
		Conflicts:     conflictsSvc,
		Locker:        slotLocker,
		PaymentClient: paymentClient,
		Notifier:      dispatcher,
		TxManager:     txMgr,
		Metrics:       metricsCollector,
		Logger:        log,

		DefaultCurrency: cfg.Booking.DefaultCurrency,
	})

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		kitchenRepository,
		locationRepository,
		availabilitySvc,
		capacitySvc,
		clock,
		log,
	)

	capturePaymentsUseCase := capturePaymentsUC.NewUseCase(
		bookingRepository,
		paymentRepository,
		paymentClient,
		clock,
		metricsCollector,
		cfg.Capture.Concurrency,
		log,
	)

	// Фоновое списание платежей
	var worker *captureWorker.Worker
	if cfg.Capture.Enabled {
		worker, err = captureWorker.NewWorker(
			cfg.Capture.Schedule,
			capturePaymentsUseCase,
			time.Duration(cfg.Capture.TimeoutSeconds)*time.Second,
			log,
		)
		if err != nil {
			log.Fatal("Failed to initialize capture worker: %v", err)
		}
		worker.Start()
		log.Info("Capture worker started (schedule=%s, concurrency=%d)", cfg.Capture.Schedule, cfg.Capture.Concurrency)
	}

	// Handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getKitchenBookings := getKitchenBookingsHandler.NewHandler(bookingSvc, log)
	getKitchenSchedule := getKitchenScheduleHandler.NewHandler(scheduleSvc, log)
	upsertWeeklyAvailability := upsertWeeklyAvailabilityHandler.NewHandler(scheduleSvc, log)
	listDateOverrides := listDateOverridesHandler.NewHandler(scheduleSvc, log)
	upsertDateOverride := upsertDateOverrideHandler.NewHandler(scheduleSvc, log)
	deleteDateOverride := deleteDateOverrideHandler.NewHandler(scheduleSvc, log)
	updateLocationPolicy := updateLocationPolicyHandler.NewHandler(scheduleSvc, log)
	runCapture := runCaptureHandler.NewHandler(capturePaymentsUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware(metricsCollector))

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, metricsCollector.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Identity)

	// ============================================================
	// PUBLIC ROUTES (анонимный доступ разрешен)
	// ============================================================

	// Доступные слоты кухни на дату
	api.HandleFunc("/kitchens/{kitchenId}/availability", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Создание бронирования (анонимно с контактными данными)
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPatch)

	// --- Управление кухней (для менеджеров) ---
	protected.HandleFunc("/kitchens/{kitchenId}/bookings", getKitchenBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/kitchens/{kitchenId}/schedule", getKitchenSchedule.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/kitchens/{kitchenId}/schedule/weekly/{dayOfWeek}",
		upsertWeeklyAvailability.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/kitchens/{kitchenId}/schedule/overrides", listDateOverrides.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/kitchens/{kitchenId}/schedule/overrides/{date}",
		upsertDateOverride.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/kitchens/{kitchenId}/schedule/overrides/{date}",
		deleteDateOverride.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/locations/{locationId}/policy", updateLocationPolicy.Handle).Methods(http.MethodPut)

	// ============================================================
	// ADMIN ROUTES
	// ============================================================

	admin := api.PathPrefix("/internal").Subrouter()
	admin.Use(middleware.AdminOnly)

	// Ручной прогон списания (?dryRun=true без списаний)
	admin.HandleFunc("/capture/run", runCapture.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

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

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	// 1. Перестаем принимать запросы
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// 2. Останавливаем планировщик списаний, текущий прогон отменяется
	if worker != nil {
		worker.Stop(shutdownCtx)
		log.Info("Capture worker stopped")
	}

	// 3. Дожидаемся начатых рассылок
	if dispatcher != nil {
		dispatcher.Wait()
	}

	close(stopMetricsCh)

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close redis client: %v", err)
		}
	}

	log.Info("Server stopped gracefully")
}
