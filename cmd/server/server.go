package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"talentbridge/marketplace-api/internal/config"
	"talentbridge/marketplace-api/internal/domain/contract"
	"talentbridge/marketplace-api/internal/domain/conversation"
	"talentbridge/marketplace-api/internal/domain/mission"
	"talentbridge/marketplace-api/internal/domain/proposal"
	"talentbridge/marketplace-api/internal/domain/user"
	"talentbridge/marketplace-api/internal/infrastructure/auth"
	"talentbridge/marketplace-api/internal/infrastructure/database"
	"talentbridge/marketplace-api/internal/infrastructure/logger"
	"talentbridge/marketplace-api/internal/infrastructure/mongodb"
	"talentbridge/marketplace-api/internal/infrastructure/observability"
	contractrepo "talentbridge/marketplace-api/internal/infrastructure/repository/contract"
	conversationrepo "talentbridge/marketplace-api/internal/infrastructure/repository/conversation"
	missionrepo "talentbridge/marketplace-api/internal/infrastructure/repository/mission"
	proposalrepo "talentbridge/marketplace-api/internal/infrastructure/repository/proposal"
	userrepo "talentbridge/marketplace-api/internal/infrastructure/repository/user"
	"talentbridge/marketplace-api/internal/infrastructure/userdirectory"
	"talentbridge/marketplace-api/internal/interfaces/httpserver"
)

// @title Marketplace API
// @version 1.0
// @description Recruiter and talent messaging, missions, proposals and contracts.
// @contact.name TalentBridge Platform Team
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	mongoClient, mongoDB, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.MongoURI,
		Database:    cfg.MongoDatabase,
		MaxPoolSize: cfg.MongoMaxPoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("disconnect mongodb")
		}
	}()
	if err := mongodb.EnsureIndexes(ctx, mongoDB, log); err != nil {
		log.Fatal().Err(err).Msg("ensure mongodb indexes")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}
	defer authValidator.Close()

	userService := user.NewService(userrepo.NewPostgresRepository(db), log)
	directory, err := newDirectory(cfg, userService, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize user directory")
	}

	conversationService := conversation.NewService(
		conversationrepo.NewMongoRepository(mongoDB),
		conversationrepo.NewMongoMessageRepository(mongoDB),
		directory,
		conversation.Settings{
			RefreshConcurrency: cfg.DisplayRefreshConcurrency,
			Preview:            logger.NewSanitizer(logger.PIILevel(cfg.LogPIILevel), cfg.ServiceName).Preview,
		},
		log,
	)
	missionService := mission.NewService(missionrepo.NewMongoRepository(mongoDB), log)
	proposalService := proposal.NewService(proposalrepo.NewMongoRepository(mongoDB), missionService, conversationService, log)
	contractService := contract.NewService(contractrepo.NewMongoRepository(mongoDB), conversationService, log)

	httpServer := httpserver.New(cfg, log, httpserver.Services{
		Conversations: conversationService,
		Users:         userService,
		Missions:      missionService,
		Proposals:     proposalService,
		Contracts:     contractService,
	}, authValidator, readinessChecks(mongoClient, db)...)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// newDirectory picks the profile source used for conversation display fields.
func newDirectory(cfg *config.Config, local *user.Service, log zerolog.Logger) (user.Directory, error) {
	var directory user.Directory = local
	if cfg.UserDirectoryURL != "" {
		log.Info().Str("url", cfg.UserDirectoryURL).Msg("using remote user directory")
		directory = userdirectory.NewRemoteDirectory(cfg.UserDirectoryURL, cfg.UserDirectoryTimeout)
	}
	if cfg.UserCacheSize <= 0 {
		return directory, nil
	}
	cached, err := userdirectory.NewCachedDirectory(directory, cfg.UserCacheSize, cfg.UserCacheTTL)
	if err != nil {
		return nil, err
	}
	return cached, nil
}

func readinessChecks(client *mongo.Client, db *gorm.DB) []httpserver.ReadinessCheck {
	return []httpserver.ReadinessCheck{
		{Name: "mongodb", Check: func(ctx context.Context) error { return client.Ping(ctx, nil) }},
		{Name: "postgres", Check: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}},
	}
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
