package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	auditapp "github.com/occtelecom/backend/internal/application/audit"
	billingapp "github.com/occtelecom/backend/internal/application/billing"
	catalogapp "github.com/occtelecom/backend/internal/application/catalog"
	customerapp "github.com/occtelecom/backend/internal/application/customer"
	directdebitapp "github.com/occtelecom/backend/internal/application/directdebit"
	identityapp "github.com/occtelecom/backend/internal/application/identity"
	orderingapp "github.com/occtelecom/backend/internal/application/ordering"
	supportapp "github.com/occtelecom/backend/internal/application/support"
	"github.com/occtelecom/backend/internal/infrastructure/auth"
	"github.com/occtelecom/backend/internal/infrastructure/config"
	"github.com/occtelecom/backend/internal/infrastructure/email"
	"github.com/occtelecom/backend/internal/infrastructure/event"
	"github.com/occtelecom/backend/internal/infrastructure/logger"
	"github.com/occtelecom/backend/internal/infrastructure/payment"
	"github.com/occtelecom/backend/internal/infrastructure/persistence"
	"github.com/occtelecom/backend/internal/infrastructure/printing"
	"github.com/occtelecom/backend/internal/infrastructure/realtime"
	"github.com/occtelecom/backend/internal/infrastructure/scheduler"
	"github.com/occtelecom/backend/internal/infrastructure/storage"
	"github.com/occtelecom/backend/internal/interfaces/http/handler"
	"github.com/occtelecom/backend/internal/interfaces/http/middleware"
	"github.com/occtelecom/backend/internal/interfaces/http/router"
)

// version is stamped at build time via -ldflags
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	db, err := persistence.NewDatabase(&cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	// Redis carries the token blacklist and the ticket message stream.
	// Without it the server still runs, single-instance only.
	var (
		blacklist auth.TokenBlacklist
		broker    realtime.Broker
	)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	redisUp := false
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, using in-memory token blacklist and message broker", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
		broker = realtime.NewInMemoryBroker()
	} else {
		redisUp = true
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		broker = realtime.NewRedisBroker(redisClient, log)
	}
	cancelPing()

	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}

	// repositories
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	searchRepo := persistence.NewGormCustomerSearchRepository(db.DB)
	planRepo := persistence.NewGormPlanRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	guestOrderRepo := persistence.NewGormGuestOrderRepository(db.DB)
	slotRepo := persistence.NewGormSlotRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	technicianRepo := persistence.NewGormTechnicianRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	settingsRepo := persistence.NewGormBillingSettingsRepository(db.DB)
	receiptRepo := persistence.NewGormReceiptRepository(db.DB)
	attemptRepo := persistence.NewGormPaymentAttemptRepository(db.DB)
	mandateRepo := persistence.NewGormMandateRepository(db.DB)
	ticketRepo := persistence.NewGormTicketRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	auditRepo := persistence.NewGormAuditRepository(db.DB)
	commRepo := persistence.NewGormCommunicationRepository(db.DB)

	// outbound adapters
	jwtManager := auth.NewJWTManager(&cfg.JWT)

	mailer, err := email.NewMailer(&cfg.Email, log)
	if err != nil {
		log.Fatal("failed to configure mailer", zap.Error(err))
	}

	gateway, err := payment.NewWorldpayAdapter(&cfg.Payment, log)
	if err != nil {
		log.Fatal("failed to configure payment gateway", zap.Error(err))
	}

	var docStore storage.DocumentStore
	if cfg.Storage.AccessKey != "" {
		docStore, err = storage.NewS3DocumentStore(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("failed to configure document storage", zap.Error(err))
		}
	} else {
		log.Warn("no storage credentials, documents held in memory")
		docStore = storage.NewInMemoryDocumentStore()
	}

	var renderer printing.PDFRenderer
	if cfg.Printing.Enabled {
		renderer, err = printing.NewChromedpRenderer(&cfg.Printing, log)
		if err != nil {
			log.Fatal("failed to configure PDF renderer", zap.Error(err))
		}
	} else {
		renderer = printing.NewNoopRenderer()
	}

	docBuilder, err := printing.NewDocumentBuilder()
	if err != nil {
		log.Fatal("failed to parse document templates", zap.Error(err))
	}

	// application services
	auditService := auditapp.NewAuditService(auditRepo, log)
	commService := auditapp.NewCommunicationService(commRepo, log)

	planService := catalogapp.NewPlanService(planRepo)
	customerService := customerapp.NewCustomerService(customerRepo, orderRepo, invoiceRepo, eventBus)
	searchService := customerapp.NewSearchService(searchRepo)

	orderService := orderingapp.NewOrderService(orderRepo, customerRepo, planService, eventBus)
	guestOrderService := orderingapp.NewGuestOrderService(guestOrderRepo, customerRepo, orderService, planService, eventBus)
	installService := orderingapp.NewInstallationService(slotRepo, bookingRepo, technicianRepo, orderRepo, eventBus)

	billingService := billingapp.NewBillingService(invoiceRepo, settingsRepo, orderRepo, &cfg.Billing, eventBus, log)
	paymentService := billingapp.NewPaymentService(invoiceRepo, receiptRepo, attemptRepo, gateway, eventBus, log)
	documentService := billingapp.NewDocumentService(invoiceRepo, receiptRepo, customerRepo, docBuilder, renderer, docStore, log)

	mandateService := directdebitapp.NewMandateService(mandateRepo, customerRepo, eventBus)
	ticketService := supportapp.NewTicketService(ticketRepo, broker, eventBus, log)

	authService := identityapp.NewAuthService(userRepo, customerRepo, auditRepo, jwtManager, blacklist, log)
	userService := identityapp.NewUserService(userRepo)

	// scheduled jobs
	var (
		jobScheduler *scheduler.Scheduler
		dailyTrigger *scheduler.DailyTrigger
	)
	if cfg.Scheduler.Enabled {
		reminder := scheduler.NewInstallationReminder(
			bookingRepo, slotRepo, orderRepo, customerRepo,
			mailer, commService, cfg.Scheduler.ReminderWindow, log,
		)
		executor := scheduler.NewExecutor(billingService, reminder, log)

		schedCfg := scheduler.DefaultSchedulerConfig()
		schedCfg.JobTimeout = cfg.Scheduler.JobTimeout
		schedCfg.RetryAttempts = cfg.Scheduler.RetryAttempts
		schedCfg.RetryDelay = cfg.Scheduler.RetryDelay
		jobScheduler = scheduler.NewScheduler(schedCfg, executor, log)
		if err := jobScheduler.Start(context.Background()); err != nil {
			log.Fatal("failed to start scheduler", zap.Error(err))
		}

		dailyTrigger = scheduler.NewDailyTrigger(scheduler.DailyTriggerConfig{
			RunHour:       cfg.Billing.RunHour,
			CheckInterval: cfg.Scheduler.TickInterval,
		}, jobScheduler, log)
		if err := dailyTrigger.Start(context.Background()); err != nil {
			log.Fatal("failed to start daily trigger", zap.Error(err))
		}
	} else {
		log.Warn("scheduler disabled, billing runs and reminders must be triggered manually")
	}

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("invalid trusted proxies", zap.Error(err))
	}
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(corsCfg))

	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(newRateLimiter(
			redisUp, redisClient, "ratelimit:global",
			cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow,
		)))
	}

	authenticated := middleware.Authenticate(jwtManager, blacklist, log)

	authHandler := handler.NewAuthHandler(authService, userService)
	var authMiddleware []gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		// Tighter quota on login and register to slow down credential
		// stuffing
		authMiddleware = append(authMiddleware, middleware.RateLimit(newRateLimiter(
			redisUp, redisClient, "ratelimit:auth",
			cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow,
		)))
	}
	portalHandlers := router.NewGroup("/portal", authenticated, middleware.RequireCustomer()).Register(
		handler.NewPortalHandler(customerService, orderService, installService),
		handler.NewPortalBillingHandler(billingService, paymentService, documentService, mandateService),
		handler.NewPortalSupportHandler(ticketService, broker),
	)
	staffHandlers := router.NewGroup("/admin", authenticated, middleware.RequireStaff()).Register(
		handler.NewCustomerHandler(customerService, searchService, auditService, commService),
		handler.NewPlanHandler(planService),
		handler.NewOrderHandler(orderService, guestOrderService),
		handler.NewInstallationHandler(installService),
		handler.NewInvoiceHandler(billingService, paymentService, documentService),
		handler.NewMandateHandler(mandateService),
		handler.NewTicketHandler(ticketService, broker),
		handler.NewAuditHandler(auditService),
	)
	adminHandlers := router.NewGroup("/admin", authenticated, middleware.RequireAdmin()).Register(
		handler.NewUserHandler(userService),
	)

	router.NewRouter(engine).
		Register(handler.NewSystemHandler(version)).
		Register(handler.NewStorefrontHandler(planService, guestOrderService, installService)).
		Register(handler.NewPaymentCallbackHandler(paymentService, log)).
		Register(router.NewGroup("", authMiddleware...).Register(authHandler)).
		Register(router.NewGroup("", authenticated).Register(router.RegistrarFunc(authHandler.RegisterProtectedRoutes))).
		Register(portalHandlers).
		Register(staffHandlers).
		Register(adminHandlers).
		Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if dailyTrigger != nil {
		if err := dailyTrigger.Stop(ctx); err != nil {
			log.Warn("daily trigger did not stop cleanly", zap.Error(err))
		}
	}
	if jobScheduler != nil {
		if err := jobScheduler.Stop(ctx); err != nil {
			log.Warn("scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Warn("event bus did not stop cleanly", zap.Error(err))
	}
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	_ = redisClient.Close()

	log.Info("server stopped")
}

// newRateLimiter returns a shared Redis counter when Redis is up,
// otherwise a per-instance fallback
func newRateLimiter(redisUp bool, client *redis.Client, prefix string, limit int, window time.Duration) middleware.RateLimiter {
	if redisUp {
		return middleware.NewRedisRateLimiter(client, prefix, limit, window)
	}
	return middleware.NewInMemoryRateLimiter(limit, window)
}
