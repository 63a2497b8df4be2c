package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"talentbridge/marketplace-api/internal/domain"
	domainconversation "talentbridge/marketplace-api/internal/domain/conversation"
	"talentbridge/marketplace-api/internal/infrastructure/mongodb"
)

type conversationDoc struct {
	ID                    string     `bson:"_id"`
	RecruiterID           string     `bson:"recruiter_id"`
	TalentID              string     `bson:"talent_id"`
	MissionID             *string    `bson:"mission_id,omitempty"`
	RecruiterName         *string    `bson:"recruiter_name,omitempty"`
	RecruiterProfileImage *string    `bson:"recruiter_profile_image,omitempty"`
	TalentName            *string    `bson:"talent_name,omitempty"`
	TalentProfileImage    *string    `bson:"talent_profile_image,omitempty"`
	LastMessageText       *string    `bson:"last_message_text,omitempty"`
	LastMessageAt         *time.Time `bson:"last_message_at,omitempty"`
	DeletedBy             []string   `bson:"deleted_by"`
	CreatedAt             time.Time  `bson:"created_at"`
	UpdatedAt             time.Time  `bson:"updated_at"`
}

// MongoRepository stores conversations in MongoDB.
type MongoRepository struct {
	coll *mongo.Collection
}

var _ domainconversation.Repository = (*MongoRepository)(nil)

// NewMongoRepository returns a repository over the conversations collection.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(mongodb.CollectionConversations)}
}

func (r *MongoRepository) Create(ctx context.Context, conv *domainconversation.Conversation) error {
	if _, err := r.coll.InsertOne(ctx, toConversationDoc(conv)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("insert conversation: %w", domainconversation.ErrDuplicate)
		}
		return fmt.Errorf("insert conversation: %w", err)
	}
	return nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*domainconversation.Conversation, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) FindByParticipants(ctx context.Context, p domainconversation.Participants) (*domainconversation.Conversation, error) {
	return r.findOne(ctx, bson.M{"recruiter_id": p.RecruiterID, "talent_id": p.TalentID})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*domainconversation.Conversation, error) {
	var doc conversationDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainconversation.ErrNotFound
		}
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *MongoRepository) ListForUser(ctx context.Context, userID string, role domain.Role) ([]*domainconversation.Conversation, error) {
	field := "talent_id"
	if role == domain.RoleRecruiter {
		field = "recruiter_id"
	}
	filter := bson.M{
		field:        userID,
		"deleted_by": bson.M{"$ne": userID},
	}
	opts := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}, {Key: "updated_at", Value: -1}})

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	var docs []conversationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}

	result := make([]*domainconversation.Conversation, 0, len(docs))
	for i := range docs {
		result = append(result, docs[i].toDomain())
	}
	return result, nil
}

func (r *MongoRepository) UpdateMission(ctx context.Context, id, missionID string) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"mission_id": missionID,
		"updated_at": time.Now().UTC(),
	}})
}

func (r *MongoRepository) UpdateDisplay(ctx context.Context, id string, display domainconversation.Display) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"recruiter_name":          display.RecruiterName,
		"recruiter_profile_image": display.RecruiterProfileImage,
		"talent_name":             display.TalentName,
		"talent_profile_image":    display.TalentProfileImage,
	}})
}

func (r *MongoRepository) UpdateLastMessage(ctx context.Context, id, text string, at time.Time) error {
	return r.updateOne(ctx, id, bson.M{"$set": bson.M{
		"last_message_text": text,
		"last_message_at":   at,
		"updated_at":        at,
	}})
}

func (r *MongoRepository) AddDeletedBy(ctx context.Context, id, userID string) error {
	return r.updateOne(ctx, id, bson.M{"$addToSet": bson.M{"deleted_by": userID}})
}

func (r *MongoRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update conversation %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return domainconversation.ErrNotFound
	}
	return nil
}

func toConversationDoc(conv *domainconversation.Conversation) conversationDoc {
	deletedBy := conv.DeletedBy
	if deletedBy == nil {
		deletedBy = []string{}
	}
	return conversationDoc{
		ID:                    conv.ID,
		RecruiterID:           conv.RecruiterID,
		TalentID:              conv.TalentID,
		MissionID:             conv.MissionID,
		RecruiterName:         conv.RecruiterName,
		RecruiterProfileImage: conv.RecruiterProfileImage,
		TalentName:            conv.TalentName,
		TalentProfileImage:    conv.TalentProfileImage,
		LastMessageText:       conv.LastMessageText,
		LastMessageAt:         conv.LastMessageAt,
		DeletedBy:             deletedBy,
		CreatedAt:             conv.CreatedAt,
		UpdatedAt:             conv.UpdatedAt,
	}
}

func (d conversationDoc) toDomain() *domainconversation.Conversation {
	deletedBy := d.DeletedBy
	if deletedBy == nil {
		deletedBy = []string{}
	}
	conv := &domainconversation.Conversation{
		ID:                    d.ID,
		RecruiterID:           d.RecruiterID,
		TalentID:              d.TalentID,
		MissionID:             d.MissionID,
		RecruiterName:         d.RecruiterName,
		RecruiterProfileImage: d.RecruiterProfileImage,
		TalentName:            d.TalentName,
		TalentProfileImage:    d.TalentProfileImage,
		LastMessageText:       d.LastMessageText,
		DeletedBy:             deletedBy,
		CreatedAt:             d.CreatedAt.UTC(),
		UpdatedAt:             d.UpdatedAt.UTC(),
	}
	if d.LastMessageAt != nil {
		at := d.LastMessageAt.UTC()
		conv.LastMessageAt = &at
	}
	return conv
}

type messageDoc struct {
	ID                string     `bson:"_id"`
	ConversationID    string     `bson:"conversation_id"`
	SenderID          string     `bson:"sender_id"`
	ReceiverID        string     `bson:"receiver_id"`
	Text              string     `bson:"text"`
	IsRead            bool       `bson:"is_read"`
	SeenAt            *time.Time `bson:"seen_at,omitempty"`
	ContractID        *string    `bson:"contract_id,omitempty"`
	PDFURL            *string    `bson:"pdf_url,omitempty"`
	IsContractMessage bool       `bson:"is_contract_message"`
	CreatedAt         time.Time  `bson:"created_at"`
}

// MongoMessageRepository stores messages in MongoDB.
type MongoMessageRepository struct {
	coll *mongo.Collection
}

var _ domainconversation.MessageRepository = (*MongoMessageRepository)(nil)

// NewMongoMessageRepository returns a repository over the messages collection.
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{coll: db.Collection(mongodb.CollectionMessages)}
}

func (r *MongoMessageRepository) Create(ctx context.Context, msg *domainconversation.Message) error {
	doc := messageDoc{
		ID:                msg.ID,
		ConversationID:    msg.ConversationID,
		SenderID:          msg.SenderID,
		ReceiverID:        msg.ReceiverID,
		Text:              msg.Text,
		IsRead:            msg.IsRead,
		SeenAt:            msg.SeenAt,
		ContractID:        msg.ContractID,
		PDFURL:            msg.PDFURL,
		IsContractMessage: msg.IsContractMessage,
		CreatedAt:         msg.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (r *MongoMessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]*domainconversation.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	var docs []messageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	result := make([]*domainconversation.Message, 0, len(docs))
	for _, d := range docs {
		msg := &domainconversation.Message{
			ID:                d.ID,
			ConversationID:    d.ConversationID,
			SenderID:          d.SenderID,
			ReceiverID:        d.ReceiverID,
			Text:              d.Text,
			IsRead:            d.IsRead,
			ContractID:        d.ContractID,
			PDFURL:            d.PDFURL,
			IsContractMessage: d.IsContractMessage,
			CreatedAt:         d.CreatedAt.UTC(),
		}
		if d.SeenAt != nil {
			seen := d.SeenAt.UTC()
			msg.SeenAt = &seen
		}
		result = append(result, msg)
	}
	return result, nil
}

func (r *MongoMessageRepository) MarkRead(ctx context.Context, conversationID, receiverID string, seenAt time.Time) (int64, error) {
	result, err := r.coll.UpdateMany(ctx,
		bson.M{"conversation_id": conversationID, "receiver_id": receiverID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true, "seen_at": seenAt}},
	)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return result.ModifiedCount, nil
}

func (r *MongoMessageRepository) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"receiver_id": receiverID, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return count, nil
}

func (r *MongoMessageRepository) CountUnreadInConversation(ctx context.Context, conversationID, receiverID string) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{
		"conversation_id": conversationID,
		"receiver_id":     receiverID,
		"is_read":         false,
	})
	if err != nil {
		return 0, fmt.Errorf("count unread messages in conversation: %w", err)
	}
	return count, nil
}

func (r *MongoMessageRepository) CountConversationsWithUnread(ctx context.Context, receiverID string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"receiver_id": receiverID, "is_read": false}}},
		{{Key: "$group", Value: bson.M{"_id": "$conversation_id"}}},
		{{Key: "$count", Value: "total"}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("count conversations with unread: %w", err)
	}
	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode unread conversation count: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
