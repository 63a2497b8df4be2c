package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"talentbridge/marketplace-api/internal/domain"
	domaincontract "talentbridge/marketplace-api/internal/domain/contract"
	"talentbridge/marketplace-api/internal/infrastructure/mongodb"
)

type contractDoc struct {
	ID                string     `bson:"_id"`
	MissionID         *string    `bson:"mission_id,omitempty"`
	RecruiterID       string     `bson:"recruiter_id"`
	TalentID          string     `bson:"talent_id"`
	ConversationID    string     `bson:"conversation_id"`
	Title             string     `bson:"title"`
	Amount            string     `bson:"amount"`
	PDFURL            string     `bson:"pdf_url"`
	Status            string     `bson:"status"`
	TalentSignedAt    *time.Time `bson:"talent_signed_at,omitempty"`
	RecruiterSignedAt *time.Time `bson:"recruiter_signed_at,omitempty"`
	CreatedAt         time.Time  `bson:"created_at"`
	UpdatedAt         time.Time  `bson:"updated_at"`
}

// MongoRepository stores contracts in MongoDB.
type MongoRepository struct {
	coll *mongo.Collection
}

var _ domaincontract.Repository = (*MongoRepository)(nil)

// NewMongoRepository returns a repository over the contracts collection.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(mongodb.CollectionContracts)}
}

func (r *MongoRepository) Create(ctx context.Context, c *domaincontract.Contract) error {
	doc := contractDoc{
		ID:                c.ID,
		MissionID:         c.MissionID,
		RecruiterID:       c.RecruiterID,
		TalentID:          c.TalentID,
		ConversationID:    c.ConversationID,
		Title:             c.Title,
		Amount:            c.Amount.String(),
		PDFURL:            c.PDFURL,
		Status:            string(c.Status),
		TalentSignedAt:    c.TalentSignedAt,
		RecruiterSignedAt: c.RecruiterSignedAt,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*domaincontract.Contract, error) {
	var doc contractDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaincontract.ErrNotFound
		}
		return nil, fmt.Errorf("find contract: %w", err)
	}
	return doc.toDomain()
}

func (r *MongoRepository) ListForUser(ctx context.Context, userID string, role domain.Role) ([]*domaincontract.Contract, error) {
	field := "talent_id"
	if role == domain.RoleRecruiter {
		field = "recruiter_id"
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{field: userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	var docs []contractDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode contracts: %w", err)
	}

	result := make([]*domaincontract.Contract, 0, len(docs))
	for _, doc := range docs {
		c, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, nil
}

func (r *MongoRepository) Transition(ctx context.Context, c *domaincontract.Contract, from domaincontract.Status) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": c.ID, "status": string(from)},
		bson.M{"$set": bson.M{
			"status":              string(c.Status),
			"talent_signed_at":    c.TalentSignedAt,
			"recruiter_signed_at": c.RecruiterSignedAt,
			"updated_at":          c.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("update contract status: %w", err)
	}
	if result.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, c.ID); err != nil {
			return err
		}
		return domaincontract.ErrStatusChanged
	}
	return nil
}

func (d contractDoc) toDomain() (*domaincontract.Contract, error) {
	amount, err := decimal.NewFromString(d.Amount)
	if err != nil {
		return nil, fmt.Errorf("contract %s: parse amount %q: %w", d.ID, d.Amount, err)
	}
	c := &domaincontract.Contract{
		ID:             d.ID,
		MissionID:      d.MissionID,
		RecruiterID:    d.RecruiterID,
		TalentID:       d.TalentID,
		ConversationID: d.ConversationID,
		Title:          d.Title,
		Amount:         amount,
		PDFURL:         d.PDFURL,
		Status:         domaincontract.Status(d.Status),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
	if d.TalentSignedAt != nil {
		at := d.TalentSignedAt.UTC()
		c.TalentSignedAt = &at
	}
	if d.RecruiterSignedAt != nil {
		at := d.RecruiterSignedAt.UTC()
		c.RecruiterSignedAt = &at
	}
	return c, nil
}
