package mission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	domainmission "talentbridge/marketplace-api/internal/domain/mission"
	"talentbridge/marketplace-api/internal/infrastructure/mongodb"
)

type missionDoc struct {
	ID          string    `bson:"_id"`
	RecruiterID string    `bson:"recruiter_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description"`
	Budget      string    `bson:"budget"`
	Status      string    `bson:"status"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// MongoRepository stores missions in MongoDB. Budgets are kept as decimal strings.
type MongoRepository struct {
	coll *mongo.Collection
}

var _ domainmission.Repository = (*MongoRepository)(nil)

// NewMongoRepository returns a repository over the missions collection.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(mongodb.CollectionMissions)}
}

func (r *MongoRepository) Create(ctx context.Context, m *domainmission.Mission) error {
	doc := missionDoc{
		ID:          m.ID,
		RecruiterID: m.RecruiterID,
		Title:       m.Title,
		Description: m.Description,
		Budget:      m.Budget.String(),
		Status:      string(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert mission: %w", err)
	}
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*domainmission.Mission, error) {
	var doc missionDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainmission.ErrNotFound
		}
		return nil, fmt.Errorf("find mission: %w", err)
	}
	return doc.toDomain()
}

func (r *MongoRepository) List(ctx context.Context, filter domainmission.Filter) ([]*domainmission.Mission, error) {
	query := bson.M{}
	if filter.RecruiterID != "" {
		query["recruiter_id"] = filter.RecruiterID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	var docs []missionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode missions: %w", err)
	}

	result := make([]*domainmission.Mission, 0, len(docs))
	for _, doc := range docs {
		m, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id string, from, to domainmission.Status, at time.Time) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("update mission status: %w", err)
	}
	if result.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domainmission.ErrStatusChanged
	}
	return nil
}

func (d missionDoc) toDomain() (*domainmission.Mission, error) {
	budget, err := decimal.NewFromString(d.Budget)
	if err != nil {
		return nil, fmt.Errorf("mission %s: parse budget %q: %w", d.ID, d.Budget, err)
	}
	return &domainmission.Mission{
		ID:          d.ID,
		RecruiterID: d.RecruiterID,
		Title:       d.Title,
		Description: d.Description,
		Budget:      budget,
		Status:      domainmission.Status(d.Status),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}, nil
}
