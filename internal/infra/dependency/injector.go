// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/smartwallet/backend/config"
	"github.com/smartwallet/backend/internal/application/adapter"
	"github.com/smartwallet/backend/internal/application/usecase/auth"
	"github.com/smartwallet/backend/internal/application/usecase/budget"
	"github.com/smartwallet/backend/internal/application/usecase/category"
	"github.com/smartwallet/backend/internal/application/usecase/coach"
	"github.com/smartwallet/backend/internal/application/usecase/importer"
	"github.com/smartwallet/backend/internal/application/usecase/interpret"
	"github.com/smartwallet/backend/internal/application/usecase/rates"
	"github.com/smartwallet/backend/internal/application/usecase/recurring"
	"github.com/smartwallet/backend/internal/application/usecase/transaction"
	"github.com/smartwallet/backend/internal/infra/metrics"
	"github.com/smartwallet/backend/internal/infra/scheduler"
	"github.com/smartwallet/backend/internal/infra/server/router"
	"github.com/smartwallet/backend/internal/integration/adapters"
	"github.com/smartwallet/backend/internal/integration/email"
	"github.com/smartwallet/backend/internal/integration/email/templates"
	"github.com/smartwallet/backend/internal/integration/entrypoint/controller"
	"github.com/smartwallet/backend/internal/integration/entrypoint/middleware"
	"github.com/smartwallet/backend/internal/integration/marketdata"
	"github.com/smartwallet/backend/internal/integration/ofx"
	"github.com/smartwallet/backend/internal/integration/persistence"
	"github.com/smartwallet/backend/internal/integration/telegram"
)

// Injector holds all application dependencies.
type Injector struct {
	Config  *config.Config
	DB      *gorm.DB
	Redis   *redis.Client
	Router  *router.Router
	Metrics *metrics.Prometheus
	LLM     *adapters.GeminiService

	Users               adapter.UserRepository
	Interpret           *interpret.InterpretUseCase
	Rates               *rates.GetRatesUseCase
	Import              *importer.ImportStatementUseCase
	ProcessAllRecurring *recurring.ProcessAllRecurringUseCase
	Advice              *coach.GetAdviceUseCase

	EmailWorker     *email.Worker
	Scheduler       *scheduler.Scheduler
	TelegramHandler *telegram.Handler
}

// NewRedisClient connects to cfg.URL. It returns nil when Redis is not
// configured or unreachable; callers then use in-process state.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.URL == "" {
		return nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		slog.Warn("Invalid Redis URL, continuing without Redis", "error", err)
		return nil
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("Redis unreachable, continuing without Redis", "error", err)
		_ = client.Close()
		return nil
	}

	slog.Info("Redis connection established", "addr", opts.Addr)
	return client
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil.
func NewInjector(ctx context.Context, cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Injector, error) {
	loc := cfg.Location()
	promMetrics := metrics.NewPrometheus()

	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	categoryRepo := persistence.NewCategoryRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	budgetRepo := persistence.NewBudgetRepository(db)
	recurringRepo := persistence.NewRecurringRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry, tokenRepo)

	llm, err := adapters.NewGeminiService(ctx, adapters.GeminiConfig{
		APIKey:            cfg.Gemini.APIKey,
		Models:            cfg.Gemini.Models,
		RequestsPerMinute: cfg.Gemini.RequestsPerMinute,
		Timeout:           cfg.Gemini.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if !llm.IsAvailable() {
		slog.Warn("GEMINI_API_KEY not set, using the local interpreter only")
	}

	rules, err := interpret.DefaultRules()
	if err != nil {
		return nil, fmt.Errorf("failed to load interpretation rules: %w", err)
	}
	matcher := interpret.NewLocalMatcher(rules, loc)

	// Market data: FXRates requires a key, AwesomeAPI is the keyless fallback
	providers := []adapter.RateProvider{
		marketdata.NewFXRatesProvider(cfg.FX.FXRatesBaseURL, cfg.FX.FXRatesAPIKey, cfg.FX.Timeout),
		marketdata.NewAwesomeAPIProvider(cfg.FX.AwesomeAPIBaseURL, cfg.FX.Timeout),
	}
	ratesUseCase := rates.NewGetRatesUseCase(providers, marketdata.NewRateCache(redisClient), cfg.FX.CacheTTL, promMetrics)

	// Email
	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	var sender adapter.EmailSender = email.LogSender{}
	if cfg.Email.ResendAPIKey != "" {
		sender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	} else {
		slog.Warn("RESEND_API_KEY not set, emails are written to the log")
	}
	emailService := email.NewService(emailQueueRepo, cfg.Email.AppBaseURL)
	emailWorker := email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
		PollInterval: cfg.Email.PollInterval,
		BatchSize:    cfg.Email.BatchSize,
	})

	// Create budget use cases
	alertChecker := budget.NewAlertChecker(budgetRepo, transactionRepo, userRepo, emailService, loc)
	listBudgetsUseCase := budget.NewListBudgetsUseCase(budgetRepo, transactionRepo, loc)
	setBudgetUseCase := budget.NewSetBudgetUseCase(budgetRepo, categoryRepo)
	deleteBudgetUseCase := budget.NewDeleteBudgetUseCase(budgetRepo)

	// Create recurring use cases
	processRecurringUseCase := recurring.NewProcessRecurringUseCase(recurringRepo, promMetrics, loc)
	processAllRecurringUseCase := recurring.NewProcessAllRecurringUseCase(userRepo, processRecurringUseCase)
	listRecurringUseCase := recurring.NewListRecurringUseCase(recurringRepo)
	createRecurringUseCase := recurring.NewCreateRecurringUseCase(recurringRepo, categoryRepo)
	deleteRecurringUseCase := recurring.NewDeleteRecurringUseCase(recurringRepo)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService, processRecurringUseCase)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)
	linkTelegramUseCase := auth.NewLinkTelegramUseCase(userRepo, passwordService)

	// Create category use cases
	listCategoriesUseCase := category.NewListCategoriesUseCase(categoryRepo)
	createCategoryUseCase := category.NewCreateCategoryUseCase(categoryRepo)
	deleteCategoryUseCase := category.NewDeleteCategoryUseCase(categoryRepo)

	// Create transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(transactionRepo)
	createTransactionUseCase := transaction.NewCreateTransactionUseCase(transactionRepo, categoryRepo, alertChecker)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(transactionRepo)
	summaryUseCase := transaction.NewGetSummaryUseCase(transactionRepo)
	investmentsUseCase := transaction.NewGetInvestmentsUseCase(transactionRepo)
	purgeUseCase := transaction.NewPurgeUseCase(transactionRepo, budgetRepo, recurringRepo)
	digestUseCase := transaction.NewQueueMonthlyDigestUseCase(userRepo, transactionRepo, emailService, loc)
	importUseCase := importer.NewImportStatementUseCase(ofx.NewParser(), transactionRepo, matcher, ratesUseCase)

	// Create interpretation use cases
	interpretUseCase := interpret.NewInterpretUseCase(matcher, llm, ratesUseCase, categoryRepo, promMetrics, loc)
	recordUseCase := interpret.NewRecordTransactionUseCase(interpretUseCase, userRepo, transactionRepo, alertChecker)
	adviceUseCase := coach.NewGetAdviceUseCase(userRepo, transactionRepo, llm, loc)

	// Create controllers
	controllers := router.Controllers{
		Health: controller.NewHealthController(func() bool {
			sqlDB, err := db.DB()
			if err != nil {
				return false
			}
			return sqlDB.Ping() == nil
		}, llm.IsAvailable),
		Auth: controller.NewAuthController(
			registerUseCase,
			loginUseCase,
			refreshTokenUseCase,
			logoutUseCase,
		),
		Interpret: controller.NewInterpretController(interpretUseCase, recordUseCase),
		Transaction: controller.NewTransactionController(
			listTransactionsUseCase,
			createTransactionUseCase,
			deleteTransactionUseCase,
			summaryUseCase,
			investmentsUseCase,
			purgeUseCase,
			importUseCase,
			loc,
		),
		Category: controller.NewCategoryController(
			listCategoriesUseCase,
			createCategoryUseCase,
			deleteCategoryUseCase,
		),
		Budget: controller.NewBudgetController(
			listBudgetsUseCase,
			setBudgetUseCase,
			deleteBudgetUseCase,
		),
		Recurring: controller.NewRecurringController(
			listRecurringUseCase,
			createRecurringUseCase,
			deleteRecurringUseCase,
			processRecurringUseCase,
		),
		Insight: controller.NewInsightController(ratesUseCase, adviceUseCase),
	}

	// Create middleware
	loginRateLimiter := middleware.NewRateLimiterWithConfig(redisClient, cfg.Server.LoginPerMinute, time.Minute)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	r := router.NewRouter(controllers, loginRateLimiter, authMiddleware, promMetrics.Handler())

	jobs := scheduler.New(scheduler.Config{
		RecurringCron:      cfg.Scheduler.RecurringCron,
		DigestCron:         cfg.Scheduler.DigestCron,
		CleanupCron:        cfg.Scheduler.CleanupCron,
		EmailRetentionDays: cfg.Email.RetentionDays,
		Location:           loc,
	}, processAllRecurringUseCase, digestUseCase, emailQueueRepo, tokenRepo)
	jobs.AddSweepers(loginRateLimiter)

	telegramHandler := telegram.NewHandler(userRepo, recordUseCase, linkTelegramUseCase, summaryUseCase, ratesUseCase, loc)

	return &Injector{
		Config:              cfg,
		DB:                  db,
		Redis:               redisClient,
		Router:              r,
		Metrics:             promMetrics,
		LLM:                 llm,
		Users:               userRepo,
		Interpret:           interpretUseCase,
		Rates:               ratesUseCase,
		Import:              importUseCase,
		ProcessAllRecurring: processAllRecurringUseCase,
		Advice:              adviceUseCase,
		EmailWorker:         emailWorker,
		Scheduler:           jobs,
		TelegramHandler:     telegramHandler,
	}, nil
}

// NewTelegramBot creates the chat bot. It returns nil when no token is
// configured.
func (i *Injector) NewTelegramBot() (*telegram.Bot, error) {
	if i.Config.Telegram.Token == "" {
		return nil, nil
	}
	return telegram.NewBot(telegram.Config{
		Token:       i.Config.Telegram.Token,
		PollTimeout: i.Config.Telegram.PollTimeout,
		Debug:       i.Config.Telegram.Debug,
	}, i.TelegramHandler)
}

// Close releases the language model and Redis clients.
func (i *Injector) Close() error {
	var errs []error
	if i.LLM != nil {
		errs = append(errs, i.LLM.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	return errors.Join(errs...)
}
