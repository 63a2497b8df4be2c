package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	CollectionConversations = "conversations"
	CollectionMessages      = "messages"
	CollectionMissions      = "missions"
	CollectionProposals     = "proposals"
	CollectionContracts     = "contracts"
)

// Config describes how to reach the document store.
type Config struct {
	URI         string
	Database    string
	MaxPoolSize uint64
}

// Connect opens a client, pings the primary and returns the configured database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.MaxPoolSize)
	}
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}

// EnsureIndexes creates the collections' indexes. The unique participant index on
// conversations is what turns a concurrent duplicate insert into a duplicate key error.
func EnsureIndexes(ctx context.Context, db *mongo.Database, log zerolog.Logger) error {
	collections := map[string][]mongo.IndexModel{
		CollectionConversations: {
			{
				Keys:    bson.D{{Key: "recruiter_id", Value: 1}, {Key: "talent_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_recruiter_talent"),
			},
			{Keys: bson.D{{Key: "talent_id", Value: 1}}},
		},
		CollectionMessages: {
			{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "receiver_id", Value: 1}, {Key: "is_read", Value: 1}}},
		},
		CollectionMissions: {
			{Keys: bson.D{{Key: "recruiter_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		CollectionProposals: {
			{Keys: bson.D{{Key: "mission_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{
				Keys: bson.D{{Key: "mission_id", Value: 1}, {Key: "talent_id", Value: 1}},
				Options: options.Index().
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": "pending"}).
					SetName("unique_pending_proposal"),
			},
			{Keys: bson.D{{Key: "talent_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		CollectionContracts: {
			{Keys: bson.D{{Key: "recruiter_id", Value: 1}}},
			{Keys: bson.D{{Key: "talent_id", Value: 1}}},
		},
	}

	for name, indexes := range collections {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes for %s: %w", name, err)
		}
		log.Debug().Str("collection", name).Int("indexes", len(indexes)).Msg("mongodb indexes ensured")
	}
	return nil
}
