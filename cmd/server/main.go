package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/genesislab/siteadmin/internal/admins"
	"github.com/genesislab/siteadmin/internal/app"
	"github.com/genesislab/siteadmin/internal/applications"
	"github.com/genesislab/siteadmin/internal/auth"
	"github.com/genesislab/siteadmin/internal/contacts"
	"github.com/genesislab/siteadmin/internal/dashboard"
	"github.com/genesislab/siteadmin/internal/demorequests"
	"github.com/genesislab/siteadmin/internal/jobposts"
	"github.com/genesislab/siteadmin/internal/mailer"
	"github.com/genesislab/siteadmin/internal/observability"
	"github.com/genesislab/siteadmin/internal/platform/cache"
	"github.com/genesislab/siteadmin/internal/platform/db"
	"github.com/genesislab/siteadmin/internal/platform/storage"
	"github.com/genesislab/siteadmin/internal/products"
	"github.com/genesislab/siteadmin/internal/rbac"
	"github.com/genesislab/siteadmin/internal/shared"
	"github.com/genesislab/siteadmin/internal/teams"
	"github.com/genesislab/siteadmin/internal/tokenstore"
	"github.com/genesislab/siteadmin/internal/view"
	"github.com/genesislab/siteadmin/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, db.Options{MaxConns: cfg.PGMaxConns, MaxConnLifetime: cfg.PGMaxConnLife})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	files, err := storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logger.Error("init uploads", slog.Any("error", err))
		os.Exit(1)
	}

	templates, err := view.NewEngine(cfg.AppName)
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	queue := jobs.NewClient(redisOpts)
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Warn("queue close", slog.Any("error", err))
		}
	}()

	sender, inlineSender := app.MailSenders(cfg, queue)
	mailCfg := mailer.ComposerConfig{
		AppName:          cfg.AppName,
		ContactRecipient: cfg.ContactRecipient,
	}
	composer := mailer.NewComposer(sender, templates, mailCfg)
	inviteComposer := mailer.NewComposer(inlineSender, templates, mailCfg)

	metrics := observability.NewMetrics()
	validator := shared.NewValidator()
	auditLogger := shared.NewAuditLogger(dbpool)

	policy := rbac.PolicyLenient
	if cfg.StrictPermissions {
		policy = rbac.PolicyStrict
	}
	rbacService := rbac.NewService(rbac.NewRepository(dbpool), rbac.Config{
		APIPrefix:          cfg.APIPrefix,
		UnknownPermissions: policy,
		Audit:              auditLogger,
		Logger:             logger,
	})

	adminService := admins.NewService(admins.Deps{
		Repo:      admins.NewRepository(dbpool),
		Roles:     rbacService,
		Mail:      inviteComposer,
		Pictures:  files,
		TOTP:      admins.NewTOTP(cfg.AppName),
		Audit:     auditLogger,
		Logger:    logger,
		WebAppURL: cfg.WebAppURL,
	})

	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTResetTTL)
	authService := auth.NewService(adminService, tokens, composer, cfg.WebAppURL, logger)

	guards := shared.RouteGuards{
		Authenticate: auth.Middleware{Tokens: tokens, Accounts: adminService, Logger: logger}.Authenticate,
		Authorize:    rbac.Middleware{Service: rbacService, Logger: logger}.Guard,
	}

	demoService := demorequests.NewService(demorequests.Deps{
		Products: products.NewService(products.NewRepository(dbpool)),
		Repo:     demorequests.NewRepository(dbpool),
		Tokens:   tokenstore.NewRedisStore(redisClient),
		Mail:     composer,
		Events:   metrics,
		Logger:   logger,
	})

	jobService := jobposts.NewService(jobposts.NewRepository(dbpool), files, logger, nil)
	applicationService := applications.NewService(applications.NewRepository(dbpool), jobService, files, logger)
	contactService := contacts.NewService(contacts.NewRepository(dbpool), composer, logger)
	teamService := teams.NewService(teams.NewRepository(dbpool), files, logger)
	dashboardService := dashboard.NewService(jobService, applicationService, contactService, teamService)

	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		Metrics:             metrics,
		AuthHandler:         auth.NewHandler(logger, authService, validator),
		AdminsHandler:       admins.NewHandler(logger, adminService, validator, guards),
		RBACHandler:         rbac.NewHandler(logger, rbacService, validator, guards),
		DemoRequestsHandler: demorequests.NewHandler(logger, demoService, validator),
		JobPostsHandler:     jobposts.NewHandler(logger, jobService, validator, guards),
		ApplicationsHandler: applications.NewHandler(logger, applicationService, validator, guards),
		ContactsHandler:     contacts.NewHandler(logger, contactService, validator, guards),
		TeamsHandler:        teams.NewHandler(logger, teamService, validator, guards),
		DashboardHandler:    dashboard.NewHandler(logger, dashboardService, guards),
		QueueHandler:        jobs.NewHandler(inspector, logger, guards),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
