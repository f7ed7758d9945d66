package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/Developershubh00/Binder-backend/internal/config"
	"github.com/Developershubh00/Binder-backend/internal/handler"
	"github.com/Developershubh00/Binder-backend/internal/repository"
	"github.com/Developershubh00/Binder-backend/internal/repository/memory"
	"github.com/Developershubh00/Binder-backend/internal/repository/postgres"
	"github.com/Developershubh00/Binder-backend/internal/service"
	"github.com/Developershubh00/Binder-backend/migrations"
	"github.com/Developershubh00/Binder-backend/pkg/blacklist"
	"github.com/Developershubh00/Binder-backend/pkg/email"
	"github.com/Developershubh00/Binder-backend/pkg/hash"
	"github.com/Developershubh00/Binder-backend/pkg/jwt"
	"github.com/Developershubh00/Binder-backend/pkg/logger"
	"github.com/Developershubh00/Binder-backend/pkg/metrics"
)

const sessionPurgeInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Env: cfg.Server.Environment, Level: cfg.Log.Level})
	m := metrics.New(cfg.Metrics.Namespace)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := initStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer closeStore()

	redisClient, closeRedis, err := initRedis(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize redis")
	}
	defer closeRedis()

	privateKey, publicKey, err := loadRSAKeys(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RSA keys")
	}
	tokenService, err := jwt.NewTokenService(
		privateKey,
		publicKey,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		cfg.JWT.Issuer,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token service")
	}
	log.Info().Str("kid", tokenService.KeyID()).Msg("RSA keys loaded")

	sender, err := initEmailSender(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize email sender")
	}

	hasher := hash.NewHasher(hash.Params{
		Memory:      cfg.Auth.Argon2Memory,
		Iterations:  cfg.Auth.Argon2Iterations,
		Parallelism: cfg.Auth.Argon2Parallelism,
	})
	tokenBlacklist := blacklist.NewTokenBlacklist(redisClient)
	notifier := service.NewNotifier(sender, service.NotifierConfig{
		VerificationURL: cfg.Email.VerificationURL,
		SetPasswordURL:  cfg.Email.SetPasswordURL,
	}, log, m)

	authService := service.NewAuthService(store, hasher, tokenService, tokenBlacklist, notifier, m, log)
	userService := service.NewUserService(store, hasher, notifier, tokenBlacklist, cfg.JWT.RefreshTokenExpiry, log)
	memberService := service.NewMemberService(store, hasher, log)
	tenantService := service.NewTenantService(store, log)
	permissionService := service.NewPermissionService(store, log)
	sheetService := service.NewMasterSheetService(store, cfg.Auth.CodeGenerationRetries, m, log)
	gate := service.NewGate(store)

	seeded, err := permissionService.Seed(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed permission catalog")
	}
	log.Info().Int("permissions", seeded).Msg("permission catalog seeded")

	validate, err := handler.NewValidator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build validator")
	}

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = m
	}
	app := handler.NewApp(handler.AppConfig{
		Name:           "Binder Backend",
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, log, appMetrics)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(authService, userService, validate),
		Password:  handler.NewPasswordHandler(userService, validate),
		Member:    handler.NewMemberHandler(memberService, permissionService, validate),
		Tenant:    handler.NewTenantHandler(tenantService, validate),
		Setup:     handler.NewSetupHandler(userService, cfg.Setup.Token, validate),
		Inventory: handler.NewInventoryHandler(sheetService, validate),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"database": store,
			"cache": handler.PingFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		}, log),
		JWKS: handler.NewJWKSHandler(tokenService.PublicKey(), tokenService.KeyID()),
	}
	if cfg.Metrics.Enabled {
		handlers.Metrics = adaptor.HTTPHandler(m.Handler())
	}
	handler.SetupRoutes(app, handlers, authService, gate)

	go purgeSessions(ctx, authService, log)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Info().
			Str("addr", addr).
			Str("environment", cfg.Server.Environment).
			Msg("server starting")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server stopped")
}

// initStore opens the configured store. The returned func releases it.
func initStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.Store, func(), error) {
	if cfg.Database.Driver == "memory" {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return memory.NewStore(), func() {}, nil
	}

	db, err := initDB(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database connection")
		}
	}

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db, migrations.Files); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		log.Info().Msg("database migrations applied")
	}

	log.Info().Str("host", cfg.Database.Host).Msg("database connection established")
	return postgres.NewStore(db), closeDB, nil
}

// initDB connects to PostgreSQL, retrying while the database comes up
func initDB(ctx context.Context, cfg *config.Config, log *logger.Logger) (*sqlx.DB, error) {
	const (
		maxRetries    = 5
		retryInterval = 2 * time.Second
	)

	var (
		db  *sqlx.DB
		err error
	)
	for i := 0; i < maxRetries; i++ {
		db, err = sqlx.ConnectContext(ctx, "postgres", cfg.Database.DSN())
		if err == nil {
			break
		}
		log.Warn().
			Err(err).
			Int("attempt", i+1).
			Int("max_attempts", maxRetries).
			Msg("failed to connect to database")
		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryInterval):
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	return db, nil
}

// initRedis returns a client for the token blacklist. With REDIS_EMBEDDED the
// client talks to an in-process server.
func initRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) (*redis.Client, func(), error) {
	addr := cfg.Redis.Addr()
	var embedded *miniredis.Miniredis
	if cfg.Redis.Embedded {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, nil, fmt.Errorf("start embedded redis: %w", err)
		}
		embedded = mr
		addr = mr.Addr()
		log.Warn().Str("addr", addr).Msg("using embedded redis, revoked tokens are lost on restart")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	release := func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("error closing redis connection")
		}
		if embedded != nil {
			embedded.Close()
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().Str("addr", addr).Msg("redis connection established")
	return client, release, nil
}

func initEmailSender(ctx context.Context, cfg *config.Config, log *logger.Logger) (email.Sender, error) {
	emailConfig := email.Config{
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
		Timeout:   cfg.Email.Timeout,
	}

	var (
		sender email.Sender
		err    error
	)
	switch cfg.Email.Provider {
	case "resend":
		sender, err = email.NewResendSender(cfg.Email.ResendAPIKey, emailConfig)
	case "ses":
		awsCfg, loadErr := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Email.SESRegion))
		if loadErr != nil {
			return nil, fmt.Errorf("load aws config: %w", loadErr)
		}
		sender, err = email.NewSESSender(ses.NewFromConfig(awsCfg), emailConfig)
	case "webhook":
		sender, err = email.NewWebhookSender(cfg.Email.WebhookURL, emailConfig)
	case "console":
		sender = email.NewConsoleSender(log)
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Email.Provider)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("provider", cfg.Email.Provider).Msg("email sender initialized")
	return sender, nil
}

func purgeSessions(ctx context.Context, authService *service.AuthService, log *logger.Logger) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := authService.PurgeExpiredSessions(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("failed to purge expired sessions")
				continue
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("expired sessions purged")
			}
		}
	}
}

// loadRSAKeys reads the PEM encoded signing key pair
func loadRSAKeys(cfg *config.Config) ([]byte, []byte, error) {
	privateKey, err := os.ReadFile(cfg.JWT.PrivateKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read private key file: %w", err)
	}
	publicKey, err := os.ReadFile(cfg.JWT.PublicKeyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read public key file: %w", err)
	}
	if len(privateKey) == 0 {
		return nil, nil, errors.New("private key file is empty")
	}
	if len(publicKey) == 0 {
		return nil, nil, errors.New("public key file is empty")
	}
	return privateKey, publicKey, nil
}
