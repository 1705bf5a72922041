package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	attachmentapp "github.com/openbooks/backend/internal/application/attachment"
	auditapp "github.com/openbooks/backend/internal/application/audit"
	billingapp "github.com/openbooks/backend/internal/application/billing"
	eventapp "github.com/openbooks/backend/internal/application/event"
	identityapp "github.com/openbooks/backend/internal/application/identity"
	invoicingapp "github.com/openbooks/backend/internal/application/invoicing"
	ledgerapp "github.com/openbooks/backend/internal/application/ledger"
	partnerapp "github.com/openbooks/backend/internal/application/partner"
	printingapp "github.com/openbooks/backend/internal/application/printing"
	reportapp "github.com/openbooks/backend/internal/application/report"
	taxapp "github.com/openbooks/backend/internal/application/tax"
	"github.com/openbooks/backend/internal/infrastructure/auth"
	billinginfra "github.com/openbooks/backend/internal/infrastructure/billing"
	"github.com/openbooks/backend/internal/infrastructure/cache"
	"github.com/openbooks/backend/internal/infrastructure/config"
	"github.com/openbooks/backend/internal/infrastructure/event"
	"github.com/openbooks/backend/internal/infrastructure/logger"
	"github.com/openbooks/backend/internal/infrastructure/persistence"
	printinginfra "github.com/openbooks/backend/internal/infrastructure/printing"
	"github.com/openbooks/backend/internal/infrastructure/printing/providers"
	"github.com/openbooks/backend/internal/infrastructure/scheduler"
	"github.com/openbooks/backend/internal/infrastructure/storage"
	"github.com/openbooks/backend/internal/infrastructure/telemetry"
	"github.com/openbooks/backend/internal/interfaces/http/handler"
	"github.com/openbooks/backend/internal/interfaces/http/middleware"
	"github.com/openbooks/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/openbooks/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			OpenBooks Backend API
//	@version		1.0
//	@description	Multi-tenant accounting backend: invoicing, payments, general ledger, reporting and billing.
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/openbooks/backend
//	@contact.email	support@openbooks.example.com

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting OpenBooks Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database with GORM logging routed through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// OpenTelemetry providers (optional)
	var meterProvider *telemetry.MeterProvider
	if cfg.Telemetry.Enabled {
		tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracer provider", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracerProvider.Shutdown(ctx); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()

		meterProvider, err = telemetry.NewMeterProvider(context.Background(), telemetry.MetricsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize meter provider", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := meterProvider.Shutdown(ctx); err != nil {
				log.Error("Error shutting down meter provider", zap.Error(err))
			}
		}()

		if cfg.Telemetry.DBTraceEnabled {
			dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
				Enabled:         true,
				LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
				SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			}, log)
			if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
				log.Warn("Failed to register database tracing", zap.Error(err))
			}
		}
	}

	// Redis client backs the usage meter's fast counters
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()

	// Initialize repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	journalRepo := persistence.NewGormJournalRepository(db.DB)
	periodRepo := persistence.NewGormPeriodRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	billRepo := persistence.NewGormBillRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	taxRateRepo := persistence.NewGormTaxRateRepository(db.DB)
	attachmentRepo := persistence.NewGormAttachmentRepository(db.DB)
	auditLogRepo := persistence.NewGormAuditLogRepository(db.DB)
	printTemplateRepo := persistence.NewGormPrintTemplateRepository(db.DB)
	printJobRepo := persistence.NewGormPrintJobRepository(db.DB)
	subscriptionRepo := persistence.NewGormSubscriptionRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	usageQuotaRepo := persistence.NewUsageQuotaRepository(db.DB)
	usageRecordRepo := persistence.NewUsageRecordRepository(db.DB)
	usageHistoryRepo := persistence.NewUsageHistoryRepository(db.DB)
	usageReportLogRepo := persistence.NewUsageReportLogRepository(db.DB)
	usageMeterRepo := persistence.NewUsageMeterRepository(db.DB, redisClient)
	resourceCounter := persistence.NewGormResourceCounter(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Initialize event serializer and register all event types
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	// Domain events go through the outbox table so delivery survives
	// restarts; the outbox processor relays them to in-process handlers.
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	eventPublisher := event.NewOutboxEventPublisher(outboxPublisher, db.DB)

	// Identity services (auth, user, role, tenant, company)
	jwtService := auth.NewJWTService(cfg.JWT)

	// Token blacklist backs logout. Redis keeps revocations shared across
	// instances; fall back to in-memory when Redis is unavailable.
	var tokenBlacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis unavailable, using in-memory token blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
	}
	defer func() {
		if err := tokenBlacklist.Close(); err != nil {
			log.Error("Error closing token blacklist", zap.Error(err))
		}
	}()

	authService := identityapp.NewAuthService(userRepo, roleRepo, jwtService, tokenBlacklist, identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, roleRepo, tenantRepo, log)
	roleService := identityapp.NewRoleService(roleRepo, userRepo, log)
	tenantService := identityapp.NewTenantService(tenantRepo, log)
	companyService := identityapp.NewCompanyService(companyRepo, tenantRepo, log)

	// Ledger services
	accountService := ledgerapp.NewAccountService(accountRepo)
	journalService := ledgerapp.NewJournalService(journalRepo, accountRepo, periodRepo, eventPublisher)
	periodService := ledgerapp.NewPeriodService(periodRepo, journalRepo, eventPublisher)

	// Invoicing services
	invoiceService := invoicingapp.NewInvoiceService(invoiceRepo, customerRepo, taxRateRepo, subscriptionRepo, eventPublisher)
	billService := invoicingapp.NewBillService(billRepo, vendorRepo, taxRateRepo, eventPublisher)
	paymentService := invoicingapp.NewPaymentService(paymentRepo, invoiceRepo, billRepo, customerRepo, vendorRepo, eventPublisher)

	// Partner and tax services
	customerService := partnerapp.NewCustomerService(customerRepo)
	vendorService := partnerapp.NewVendorService(vendorRepo)
	taxRateService := taxapp.NewTaxRateService(taxRateRepo, eventPublisher)

	// Object storage for attachments and rendered PDFs
	objectStorage, err := storage.NewS3ObjectStorage(&cfg.Storage)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if err := objectStorage.EnsureBucket(context.Background()); err != nil {
		log.Warn("Could not ensure storage bucket exists", zap.Error(err))
	}

	attachmentService := attachmentapp.NewAttachmentService(attachmentRepo, subscriptionRepo, objectStorage, eventPublisher)
	attachmentConfig := attachmentapp.DefaultAttachmentServiceConfig()
	if cfg.Storage.PresignExpiration > 0 {
		attachmentConfig.UploadURLExpiry = cfg.Storage.PresignExpiration
		attachmentConfig.DownloadURLExpiry = cfg.Storage.PresignExpiration
	}
	attachmentService.SetConfig(attachmentConfig)

	// Reporting and audit services
	reportService := reportapp.NewReportService(journalRepo, log)
	auditService := auditapp.NewAuditService(auditLogRepo, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// Billing services
	usageEventPublisher := billinginfra.NewLoggingUsageEventPublisher(log)
	subscriptionService := billingapp.NewSubscriptionService(subscriptionRepo, eventPublisher, log)
	quotaService := billingapp.NewQuotaService(usageQuotaRepo, usageRecordRepo, usageMeterRepo, subscriptionRepo, usageEventPublisher, log, billingapp.DefaultQuotaServiceConfig())
	usageSnapshotService := billingapp.NewUsageSnapshotService(usageHistoryRepo, tenantRepo, resourceCounter, log, billingapp.DefaultUsageSnapshotServiceConfig())

	// Printing pipeline: template engine -> chromedp renderer -> S3 storage
	templateEngine := printinginfra.NewTemplateEngine()
	templateStore, err := printinginfra.NewTemplateStore(&printinginfra.TemplateStoreConfig{})
	if err != nil {
		log.Fatal("Failed to initialize template store", zap.Error(err))
	}
	pdfRenderer, err := printinginfra.NewChromedpRenderer(&printinginfra.ChromedpConfig{
		DefaultTimeout:  cfg.Printing.RenderTimeout,
		RemoteURL:       cfg.Printing.ChromeRemoteURL,
		Headless:        true,
		DisableGPU:      true,
		NoSandbox:       true,
		PrintBackground: true,
		Logger:          log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()
	pdfStorage, err := printinginfra.NewS3PDFStorage(objectStorage, &printinginfra.S3PDFStorageConfig{
		KeyPrefix:     cfg.Printing.KeyPrefix,
		URLExpiration: cfg.Printing.URLExpiration,
		Logger:        log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF storage", zap.Error(err))
	}

	dataProviders := providers.NewDataProviderRegistry()
	dataProviders.Register(providers.NewInvoiceProvider(invoiceRepo, customerRepo, companyRepo))
	dataProviders.Register(providers.NewBillProvider(billRepo, vendorRepo, companyRepo))
	dataProviders.Register(providers.NewJournalEntryProvider(journalRepo, accountRepo, companyRepo))
	dataProviders.Register(providers.NewReceiptVoucherProvider(paymentRepo, invoiceRepo, customerRepo, companyRepo))
	dataProviders.Register(providers.NewPaymentVoucherProvider(paymentRepo, billRepo, vendorRepo, companyRepo))

	printService := printingapp.NewPrintService(printTemplateRepo, printJobRepo, templateEngine, pdfRenderer, pdfStorage, dataProviders, log)
	printService.SetTemplateStore(templateStore)

	// Initialize event bus and cross-context handlers
	eventBus := event.NewInMemoryEventBus(log)

	// Approved invoices and bills post journal entries automatically
	documentPostingHandler := ledgerapp.NewDocumentPostingHandler(journalRepo, accountRepo, log)
	eventBus.Subscribe(documentPostingHandler)

	// Confirmed and voided payments post settlement entries
	paymentPostingHandler := ledgerapp.NewPaymentPostingHandler(journalRepo, accountRepo, log)
	eventBus.Subscribe(paymentPostingHandler)

	// Audit trail records every domain event
	auditRecorder := auditapp.NewRecorder(auditLogRepo, log)
	eventBus.Subscribe(auditRecorder)

	log.Info("Event handlers registered",
		zap.Strings("document_posting_events", documentPostingHandler.EventTypes()),
		zap.Strings("payment_posting_events", paymentPostingHandler.EventTypes()),
	)

	// Start event bus
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Outbox processor delivers persisted events to the bus
	outboxProcessorConfig := event.DefaultOutboxProcessorConfig()
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, outboxProcessorConfig, log)
	if err := outboxProcessor.Start(context.Background()); err != nil {
		log.Fatal("Failed to start outbox processor", zap.Error(err))
	}
	defer func() {
		if err := outboxProcessor.Stop(context.Background()); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}()
	log.Info("Outbox processor started",
		zap.Int("batch_size", outboxProcessorConfig.BatchSize),
		zap.Duration("poll_interval", outboxProcessorConfig.PollInterval),
	)

	// Idempotency store for webhook deduplication
	idempotencyFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := idempotencyFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// Stripe billing integration (optional)
	var stripeWebhookHandler *handler.StripeWebhookHandler
	if cfg.Stripe.Enabled {
		stripeConfig := &billinginfra.StripeConfig{
			SecretKey:       cfg.Stripe.SecretKey,
			PublishableKey:  cfg.Stripe.PublishableKey,
			WebhookSecret:   cfg.Stripe.WebhookSecret,
			DefaultCurrency: cfg.Stripe.Currency,
			PriceIDs:        cfg.Stripe.PriceIDs,
		}
		stripeAdapter, err := billinginfra.NewStripeAdapter(stripeConfig, log)
		if err != nil {
			log.Fatal("Failed to initialize Stripe adapter", zap.Error(err))
		}

		stripeWebhookService := billingapp.NewStripeWebhookService(billingapp.StripeWebhookServiceConfig{
			Config:           stripeConfig,
			SubscriptionRepo: subscriptionRepo,
			Idempotency:      idempotencyStore,
			EventBus:         eventBus,
			Logger:           log,
		})
		stripeWebhookHandler = handler.NewStripeWebhookHandler(stripeWebhookService)

		// Report metered usage back to Stripe
		usageReportingService := billingapp.NewUsageReportingService(
			stripeAdapter, usageRecordRepo, usageReportLogRepo, subscriptionRepo, log,
			billingapp.DefaultUsageReportingConfig(),
		)
		usageReportingScheduler := scheduler.NewUsageReportingScheduler(usageReportingService, log, scheduler.DefaultUsageReportingSchedulerConfig())
		if err := usageReportingScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start usage reporting scheduler", zap.Error(err))
		}
		defer func() {
			if err := usageReportingScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping usage reporting scheduler", zap.Error(err))
			}
		}()
		log.Info("Stripe billing enabled", zap.String("currency", cfg.Stripe.Currency))
	}

	// Daily usage snapshots for tenant quota history
	usageSnapshotScheduler := scheduler.NewUsageSnapshotScheduler(usageSnapshotService, log, scheduler.DefaultUsageSnapshotSchedulerConfig())
	if err := usageSnapshotScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start usage snapshot scheduler", zap.Error(err))
	}
	defer func() {
		if err := usageSnapshotScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping usage snapshot scheduler", zap.Error(err))
		}
	}()

	// Expire trial subscriptions for tenants without a payment method
	trialExpiryScheduler := scheduler.NewTrialExpiryScheduler(subscriptionService, log, scheduler.DefaultTrialExpirySchedulerConfig())
	if err := trialExpiryScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start trial expiry scheduler", zap.Error(err))
	}
	defer func() {
		if err := trialExpiryScheduler.Stop(context.Background()); err != nil {
			log.Error("Error stopping trial expiry scheduler", zap.Error(err))
		}
	}()

	// Nightly financial statement refresh doubles as a ledger balance check
	if cfg.Scheduler.Enabled {
		cronHour, cronMinute, err := scheduler.ParseCronSchedule(cfg.Scheduler.DailyCronSchedule)
		if err != nil {
			log.Fatal("Invalid daily cron schedule", zap.String("schedule", cfg.Scheduler.DailyCronSchedule), zap.Error(err))
		}
		refreshService := reportapp.NewReportRefreshService(reportService, companyRepo, log)
		reportScheduler := scheduler.NewReportCronScheduler(scheduler.ReportCronSchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			CronHour:          cronHour,
			CronMinute:        cronMinute,
			DailyCronSchedule: cfg.Scheduler.DailyCronSchedule,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}, refreshService, tenantRepo, scheduler.NewSchedulerJobRepository(db.DB), log)
		if err := reportScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start report scheduler", zap.Error(err))
		}
		defer func() {
			if err := reportScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping report scheduler", zap.Error(err))
			}
		}()
		log.Info("Report scheduler started",
			zap.Int("cron_hour", cronHour),
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
		)
	}

	// Business metrics collection (requires telemetry)
	if meterProvider != nil {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:               meterProvider.Meter("openbooks/business"),
			Logger:              log,
			ReceivablesProvider: telemetry.NewGormReceivablesMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(context.Background(), telemetry.NewGormTenantProvider(db.DB), 5*time.Minute)
			defer businessMetrics.Stop()
		}
	}

	// Initialize HTTP handlers
	accountHandler := handler.NewAccountHandler(accountService)
	journalHandler := handler.NewJournalHandler(journalService)
	periodHandler := handler.NewPeriodHandler(periodService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	billHandler := handler.NewBillHandler(billService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	customerHandler := handler.NewCustomerHandler(customerService)
	vendorHandler := handler.NewVendorHandler(vendorService)
	taxRateHandler := handler.NewTaxRateHandler(taxRateService)
	attachmentHandler := handler.NewAttachmentHandler(attachmentService)
	auditHandler := handler.NewAuditHandler(auditService)
	reportHandler := handler.NewReportHandler(reportService)
	outboxHandler := handler.NewOutboxHandler(outboxService)
	authHandler := handler.NewAuthHandler(authService, cfg.Cookie, cfg.JWT)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	tenantHandler := handler.NewTenantHandler(tenantService)
	companyHandler := handler.NewCompanyHandler(companyService)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptionService)
	usageHandler := handler.NewUsageHandler(quotaService)
	printHandler := handler.NewPrintHandler(printService)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics - OpenTelemetry instrumentation (if enabled)
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing())
		if meterProvider != nil {
			engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("openbooks/http"), true))
		}
	}
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// JWT authentication for API routes, with public endpoints skipped
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/api/v1/webhooks",
		},
		Logger: log,
	}
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		swaggerGuard := middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtMiddleware)
		engine.GET("/swagger/*any", swaggerGuard, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Stripe webhook endpoint verifies signatures itself, no JWT
	if stripeWebhookHandler != nil {
		webhookGroup := engine.Group("/api/v1/webhooks")
		webhookGroup.POST("/stripe", stripeWebhookHandler.HandleStripeWebhook)
	}

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(jwtMiddleware)
	r.Use(middleware.DataScopeMiddleware(roleRepo))

	// Per-tenant API usage metering for quota enforcement
	usageTracker, err := middleware.NewUsageTracker(middleware.UsageTrackerConfig{
		Enabled:       true,
		BufferSize:    10000,
		BatchSize:     100,
		FlushInterval: 5 * time.Second,
		MeterProvider: meterProvider,
		Logger:        log,
		SkipPaths:     []string{"/health", "/swagger", "/api/v1/ping"},
	}, usageRecordRepo)
	if err != nil {
		log.Fatal("Failed to initialize usage tracker", zap.Error(err))
	}
	usageTracker.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := usageTracker.Stop(ctx); err != nil {
			log.Error("Error stopping usage tracker", zap.Error(err))
		}
	}()
	r.Use(middleware.TrackAPIUsage(usageTracker))

	// Authentication - public routes
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.AuthRateLimit(authLimiter))
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)

	// Identity domain (session, users, roles, tenants, companies)
	identityRoutes := router.NewDomainGroup("identity", "/identity")

	// Auth routes requiring authentication
	identityRoutes.POST("/auth/logout", authHandler.Logout)
	identityRoutes.GET("/auth/me", authHandler.GetCurrentUser)
	identityRoutes.PUT("/auth/password", authHandler.ChangePassword)

	// User management routes
	identityRoutes.POST("/users", userHandler.Create)
	identityRoutes.GET("/users", userHandler.List)
	identityRoutes.GET("/users/stats/count", userHandler.Count)
	identityRoutes.GET("/users/:id", userHandler.GetByID)
	identityRoutes.PUT("/users/:id", userHandler.Update)
	identityRoutes.DELETE("/users/:id", userHandler.Delete)
	identityRoutes.POST("/users/:id/activate", userHandler.Activate)
	identityRoutes.POST("/users/:id/deactivate", userHandler.Deactivate)
	identityRoutes.POST("/users/:id/lock", userHandler.Lock)
	identityRoutes.POST("/users/:id/unlock", userHandler.Unlock)
	identityRoutes.POST("/users/:id/reset-password", userHandler.ResetPassword)
	identityRoutes.PUT("/users/:id/roles", userHandler.AssignRoles)

	// Role management routes
	identityRoutes.POST("/roles", roleHandler.Create)
	identityRoutes.GET("/roles", roleHandler.List)
	identityRoutes.GET("/roles/system", roleHandler.GetSystemRoles)
	identityRoutes.GET("/roles/stats/count", roleHandler.Count)
	identityRoutes.GET("/roles/:id", roleHandler.GetByID)
	identityRoutes.GET("/roles/code/:code", roleHandler.GetByCode)
	identityRoutes.PUT("/roles/:id", roleHandler.Update)
	identityRoutes.DELETE("/roles/:id", roleHandler.Delete)
	identityRoutes.POST("/roles/:id/enable", roleHandler.Enable)
	identityRoutes.POST("/roles/:id/disable", roleHandler.Disable)
	identityRoutes.PUT("/roles/:id/permissions", roleHandler.SetPermissions)

	// Permission catalog
	identityRoutes.GET("/permissions", roleHandler.GetPermissions)

	// Tenant management routes
	identityRoutes.POST("/tenants", tenantHandler.Create)
	identityRoutes.GET("/tenants", tenantHandler.List)
	identityRoutes.GET("/tenants/stats", tenantHandler.GetStats)
	identityRoutes.GET("/tenants/stats/count", tenantHandler.Count)
	identityRoutes.GET("/tenants/:id", tenantHandler.GetByID)
	identityRoutes.GET("/tenants/code/:code", tenantHandler.GetByCode)
	identityRoutes.PUT("/tenants/:id", tenantHandler.Update)
	identityRoutes.PUT("/tenants/:id/config", tenantHandler.UpdateConfig)
	identityRoutes.PUT("/tenants/:id/plan", tenantHandler.SetPlan)
	identityRoutes.DELETE("/tenants/:id", tenantHandler.Delete)
	identityRoutes.POST("/tenants/:id/activate", tenantHandler.Activate)
	identityRoutes.POST("/tenants/:id/deactivate", tenantHandler.Deactivate)
	identityRoutes.POST("/tenants/:id/suspend", tenantHandler.Suspend)

	// Company management routes
	identityRoutes.POST("/companies", companyHandler.Create)
	identityRoutes.GET("/companies", companyHandler.List)
	identityRoutes.GET("/companies/active", companyHandler.ListActive)
	identityRoutes.GET("/companies/:id", companyHandler.GetByID)
	identityRoutes.PUT("/companies/:id", companyHandler.Update)
	identityRoutes.DELETE("/companies/:id", companyHandler.Delete)
	identityRoutes.POST("/companies/:id/archive", companyHandler.Archive)
	identityRoutes.POST("/companies/:id/restore", companyHandler.Restore)

	// Ledger domain (chart of accounts, journals, periods)
	ledgerRoutes := router.NewDomainGroup("ledger", "/ledger")

	ledgerRoutes.POST("/accounts", accountHandler.Create)
	ledgerRoutes.GET("/accounts", accountHandler.List)
	ledgerRoutes.GET("/accounts/:id", accountHandler.GetByID)
	ledgerRoutes.PUT("/accounts/:id", accountHandler.Update)
	ledgerRoutes.DELETE("/accounts/:id", accountHandler.Delete)
	ledgerRoutes.POST("/accounts/:id/activate", accountHandler.Activate)
	ledgerRoutes.POST("/accounts/:id/deactivate", accountHandler.Deactivate)

	ledgerRoutes.POST("/journals", journalHandler.Create)
	ledgerRoutes.GET("/journals", journalHandler.List)
	ledgerRoutes.GET("/journals/:id", journalHandler.GetByID)
	ledgerRoutes.PUT("/journals/:id", journalHandler.Update)
	ledgerRoutes.POST("/journals/:id/post", journalHandler.Post)
	ledgerRoutes.POST("/journals/:id/void", journalHandler.Void)
	ledgerRoutes.POST("/journals/:id/reverse", journalHandler.Reverse)

	ledgerRoutes.POST("/periods", periodHandler.Open)
	ledgerRoutes.GET("/periods", periodHandler.List)
	ledgerRoutes.GET("/periods/:year/:month", periodHandler.GetByMonth)
	ledgerRoutes.POST("/periods/:year/:month/close", periodHandler.Close)
	ledgerRoutes.POST("/periods/:year/:month/reopen", periodHandler.Reopen)

	// Invoicing domain (invoices, bills, payments)
	invoicingRoutes := router.NewDomainGroup("invoicing", "")

	invoicingRoutes.POST("/invoices", invoiceHandler.Create)
	invoicingRoutes.GET("/invoices", invoiceHandler.List)
	invoicingRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	invoicingRoutes.PUT("/invoices/:id", invoiceHandler.Update)
	invoicingRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	invoicingRoutes.POST("/invoices/:id/approve", invoiceHandler.Approve)
	invoicingRoutes.POST("/invoices/:id/send", invoiceHandler.MarkSent)
	invoicingRoutes.POST("/invoices/:id/void", invoiceHandler.Void)

	invoicingRoutes.POST("/bills", billHandler.Create)
	invoicingRoutes.GET("/bills", billHandler.List)
	invoicingRoutes.GET("/bills/:id", billHandler.GetByID)
	invoicingRoutes.PUT("/bills/:id", billHandler.Update)
	invoicingRoutes.DELETE("/bills/:id", billHandler.Delete)
	invoicingRoutes.POST("/bills/:id/approve", billHandler.Approve)
	invoicingRoutes.POST("/bills/:id/void", billHandler.Void)

	invoicingRoutes.POST("/payments", paymentHandler.Create)
	invoicingRoutes.GET("/payments", paymentHandler.List)
	invoicingRoutes.GET("/payments/:id", paymentHandler.GetByID)
	invoicingRoutes.DELETE("/payments/:id", paymentHandler.Delete)
	invoicingRoutes.POST("/payments/:id/allocations", paymentHandler.Allocate)
	invoicingRoutes.DELETE("/payments/:id/allocations/:allocation_id", paymentHandler.RemoveAllocation)
	invoicingRoutes.POST("/payments/:id/confirm", paymentHandler.Confirm)
	invoicingRoutes.POST("/payments/:id/void", paymentHandler.Void)

	// Partner domain (customers, vendors)
	partnerRoutes := router.NewDomainGroup("partner", "")

	partnerRoutes.POST("/customers", customerHandler.Create)
	partnerRoutes.GET("/customers", customerHandler.List)
	partnerRoutes.GET("/customers/:id", customerHandler.GetByID)
	partnerRoutes.PUT("/customers/:id", customerHandler.Update)
	partnerRoutes.DELETE("/customers/:id", customerHandler.Delete)
	partnerRoutes.POST("/customers/:id/activate", customerHandler.Activate)
	partnerRoutes.POST("/customers/:id/deactivate", customerHandler.Deactivate)
	partnerRoutes.POST("/customers/:id/hold", customerHandler.PlaceOnHold)

	partnerRoutes.POST("/vendors", vendorHandler.Create)
	partnerRoutes.GET("/vendors", vendorHandler.List)
	partnerRoutes.GET("/vendors/:id", vendorHandler.GetByID)
	partnerRoutes.PUT("/vendors/:id", vendorHandler.Update)
	partnerRoutes.DELETE("/vendors/:id", vendorHandler.Delete)
	partnerRoutes.POST("/vendors/:id/activate", vendorHandler.Activate)
	partnerRoutes.POST("/vendors/:id/deactivate", vendorHandler.Deactivate)
	partnerRoutes.POST("/vendors/:id/block", vendorHandler.Block)

	// Tax domain
	taxRoutes := router.NewDomainGroup("tax", "/tax")
	taxRoutes.POST("/rates", taxRateHandler.Create)
	taxRoutes.GET("/rates", taxRateHandler.List)
	taxRoutes.GET("/rates/:id", taxRateHandler.GetByID)
	taxRoutes.PUT("/rates/:id", taxRateHandler.Update)
	taxRoutes.DELETE("/rates/:id", taxRateHandler.Delete)
	taxRoutes.POST("/rates/:id/end", taxRateHandler.End)
	taxRoutes.POST("/rates/:id/activate", taxRateHandler.Activate)
	taxRoutes.POST("/rates/:id/deactivate", taxRateHandler.Deactivate)
	taxRoutes.POST("/rates/:id/preview", taxRateHandler.Preview)

	// Attachments
	attachmentRoutes := router.NewDomainGroup("attachments", "/attachments")
	attachmentRoutes.POST("", attachmentHandler.InitiateUpload)
	attachmentRoutes.GET("", attachmentHandler.ListByOwner)
	attachmentRoutes.POST("/batch", attachmentHandler.GetByIDs)
	attachmentRoutes.GET("/:id/download-url", attachmentHandler.GetDownloadURL)
	attachmentRoutes.PATCH("/:id", attachmentHandler.UpdateDescription)
	attachmentRoutes.DELETE("/:id", attachmentHandler.Delete)

	// Financial reports
	reportRoutes := router.NewDomainGroup("reports", "/reports")
	reportRoutes.GET("/trial-balance", reportHandler.TrialBalance)
	reportRoutes.GET("/balance-sheet", reportHandler.BalanceSheet)
	reportRoutes.GET("/income-statement", reportHandler.IncomeStatement)

	// Audit trail
	auditRoutes := router.NewDomainGroup("audit", "/audit")
	auditRoutes.GET("", auditHandler.List)
	auditRoutes.GET("/entities/:entity_type/:entity_id", auditHandler.History)

	// Billing (subscription, plans, usage)
	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.GET("/subscription", subscriptionHandler.Get)
	billingRoutes.POST("/subscription", subscriptionHandler.Start)
	billingRoutes.POST("/subscription/change-plan", subscriptionHandler.ChangePlan)
	billingRoutes.POST("/subscription/cancel", subscriptionHandler.Cancel)
	billingRoutes.GET("/plans", subscriptionHandler.ListPlans)
	billingRoutes.GET("/usage", usageHandler.GetUsageSummary)
	billingRoutes.GET("/quotas", usageHandler.GetQuotaStatus)

	// System routes (diagnostics, outbox operations)
	systemHandler := handler.NewSystemHandler()
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)
	systemRoutes.GET("/outbox/dead", outboxHandler.GetDeadLetterEntries)
	systemRoutes.POST("/outbox/dead/retry-all", outboxHandler.RetryAllDeadEntries)
	systemRoutes.GET("/outbox/stats", outboxHandler.GetStats)
	systemRoutes.GET("/outbox/:id", outboxHandler.GetEntry)
	systemRoutes.POST("/outbox/:id/retry", outboxHandler.RetryDeadEntry)

	// Register all domain groups
	r.Register(authRoutes).
		Register(identityRoutes).
		Register(ledgerRoutes).
		Register(invoicingRoutes).
		Register(partnerRoutes).
		Register(taxRoutes).
		Register(attachmentRoutes).
		Register(reportRoutes).
		Register(auditRoutes).
		Register(billingRoutes).
		Register(handler.PrintRoutes(printHandler)).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
