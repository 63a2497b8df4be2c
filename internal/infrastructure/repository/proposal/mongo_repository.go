package proposal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	domainproposal "talentbridge/marketplace-api/internal/domain/proposal"
	"talentbridge/marketplace-api/internal/infrastructure/mongodb"
)

type proposalDoc struct {
	ID             string    `bson:"_id"`
	MissionID      string    `bson:"mission_id"`
	TalentID       string    `bson:"talent_id"`
	RecruiterID    string    `bson:"recruiter_id"`
	CoverLetter    string    `bson:"cover_letter"`
	Rate           string    `bson:"rate"`
	Status         string    `bson:"status"`
	ConversationID string    `bson:"conversation_id"`
	CreatedAt      time.Time `bson:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

// MongoRepository stores proposals in MongoDB. A partial unique index keeps one
// pending proposal per mission and talent.
type MongoRepository struct {
	coll *mongo.Collection
}

var _ domainproposal.Repository = (*MongoRepository)(nil)

// NewMongoRepository returns a repository over the proposals collection.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(mongodb.CollectionProposals)}
}

func (r *MongoRepository) Create(ctx context.Context, p *domainproposal.Proposal) error {
	doc := proposalDoc{
		ID:             p.ID,
		MissionID:      p.MissionID,
		TalentID:       p.TalentID,
		RecruiterID:    p.RecruiterID,
		CoverLetter:    p.CoverLetter,
		Rate:           p.Rate.String(),
		Status:         string(p.Status),
		ConversationID: p.ConversationID,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert proposal: %w", domainproposal.ErrDuplicate)
		}
		return fmt.Errorf("insert proposal: %w", err)
	}
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*domainproposal.Proposal, error) {
	var doc proposalDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainproposal.ErrNotFound
		}
		return nil, fmt.Errorf("find proposal: %w", err)
	}
	return doc.toDomain()
}

func (r *MongoRepository) ListByMission(ctx context.Context, missionID string) ([]*domainproposal.Proposal, error) {
	return r.list(ctx, bson.M{"mission_id": missionID}, 1)
}

func (r *MongoRepository) ListByTalent(ctx context.Context, talentID string) ([]*domainproposal.Proposal, error) {
	return r.list(ctx, bson.M{"talent_id": talentID}, -1)
}

func (r *MongoRepository) list(ctx context.Context, filter bson.M, order int) ([]*domainproposal.Proposal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: order}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	var docs []proposalDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode proposals: %w", err)
	}

	result := make([]*domainproposal.Proposal, 0, len(docs))
	for _, doc := range docs {
		p, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}

func (r *MongoRepository) Transition(ctx context.Context, id string, to domainproposal.Status, at time.Time) error {
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": string(domainproposal.StatusPending)},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("update proposal status: %w", err)
	}
	if result.MatchedCount == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domainproposal.ErrStatusChanged
	}
	return nil
}

func (d proposalDoc) toDomain() (*domainproposal.Proposal, error) {
	rate, err := decimal.NewFromString(d.Rate)
	if err != nil {
		return nil, fmt.Errorf("proposal %s: parse rate %q: %w", d.ID, d.Rate, err)
	}
	return &domainproposal.Proposal{
		ID:             d.ID,
		MissionID:      d.MissionID,
		TalentID:       d.TalentID,
		RecruiterID:    d.RecruiterID,
		CoverLetter:    d.CoverLetter,
		Rate:           rate,
		Status:         domainproposal.Status(d.Status),
		ConversationID: d.ConversationID,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}, nil
}
