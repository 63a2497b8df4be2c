//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
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
	contractrepo "talentbridge/marketplace-api/internal/infrastructure/repository/contract"
	conversationrepo "talentbridge/marketplace-api/internal/infrastructure/repository/conversation"
	missionrepo "talentbridge/marketplace-api/internal/infrastructure/repository/mission"
	proposalrepo "talentbridge/marketplace-api/internal/infrastructure/repository/proposal"
	userrepo "talentbridge/marketplace-api/internal/infrastructure/repository/user"
	"talentbridge/marketplace-api/internal/interfaces/httpserver"
)

var userSet = wire.NewSet(
	userrepo.NewPostgresRepository,
	wire.Bind(new(user.Repository), new(*userrepo.PostgresRepository)),
	user.NewService,
	newDirectory,
)

var conversationSet = wire.NewSet(
	conversationrepo.NewMongoRepository,
	conversationrepo.NewMongoMessageRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.MongoRepository)),
	wire.Bind(new(conversation.MessageRepository), new(*conversationrepo.MongoMessageRepository)),
	newConversationSettings,
	conversation.NewService,
)

var marketplaceSet = wire.NewSet(
	missionrepo.NewMongoRepository,
	wire.Bind(new(mission.Repository), new(*missionrepo.MongoRepository)),
	mission.NewService,
	proposalrepo.NewMongoRepository,
	wire.Bind(new(proposal.Repository), new(*proposalrepo.MongoRepository)),
	wire.Bind(new(proposal.MissionReader), new(*mission.Service)),
	wire.Bind(new(proposal.ConversationOpener), new(conversation.Service)),
	proposal.NewService,
	contractrepo.NewMongoRepository,
	wire.Bind(new(contract.Repository), new(*contractrepo.MongoRepository)),
	wire.Bind(new(contract.Messenger), new(conversation.Service)),
	contract.NewService,
)

// BuildApplication assembles the marketplace service with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newMongoDatabase,
		newAuthValidator,
		userSet,
		conversationSet,
		marketplaceSet,
		newServices,
		newReadinessChecks,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newMongoDatabase(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*mongo.Database, error) {
	_, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.MongoURI,
		Database:    cfg.MongoDatabase,
		MaxPoolSize: cfg.MongoMaxPoolSize,
	})
	if err != nil {
		return nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newConversationSettings(cfg *config.Config) conversation.Settings {
	return conversation.Settings{
		RefreshConcurrency: cfg.DisplayRefreshConcurrency,
		Preview:            logger.NewSanitizer(logger.PIILevel(cfg.LogPIILevel), cfg.ServiceName).Preview,
	}
}

func newServices(
	conversations conversation.Service,
	users *user.Service,
	missions *mission.Service,
	proposals *proposal.Service,
	contracts *contract.Service,
) httpserver.Services {
	return httpserver.Services{
		Conversations: conversations,
		Users:         users,
		Missions:      missions,
		Proposals:     proposals,
		Contracts:     contracts,
	}
}

func newReadinessChecks(db *mongo.Database, gdb *gorm.DB) []httpserver.ReadinessCheck {
	return readinessChecks(db.Client(), gdb)
}
