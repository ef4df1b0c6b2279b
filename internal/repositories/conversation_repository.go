package repositories

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/inkwell-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConversationRepository defines the interface for conversation and message
// operations. Conversations are two-party only and created lazily on first
// message between a pair of users.
type ConversationRepository interface {
	GetOrCreateConversation(ctx context.Context, userA, userB string) (*models.Conversation, error)
	GetConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	GetConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error)
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessages(ctx context.Context, conversationID string, skip, limit int64) ([]models.Message, int64, error)
	MarkMessagesRead(ctx context.Context, conversationID, userID string) error
	UnreadMessageCount(ctx context.Context, userID string) (int64, error)
}

// MongoConversationRepository implements ConversationRepository for MongoDB
type MongoConversationRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
}

// NewMongoConversationRepository creates a new MongoConversationRepository
func NewMongoConversationRepository(db *mongo.Database) *MongoConversationRepository {
	return &MongoConversationRepository{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("messages"),
	}
}

// GetOrCreateConversation finds the conversation for the unordered pair
// (userA, userB), creating it when the two users have never messaged before.
// Participants are stored sorted so the pair matches regardless of direction.
func (r *MongoConversationRepository) GetOrCreateConversation(ctx context.Context, userA, userB string) (*models.Conversation, error) {
	participants := []string{userA, userB}
	sort.Strings(participants)

	var conv models.Conversation
	err := r.conversations.FindOne(ctx, bson.M{"participants": participants}).Decode(&conv)
	if err == nil {
		return &conv, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	conv = models.Conversation{
		ID:           primitive.NewObjectID(),
		Participants: participants,
		CreatedAt:    time.Now(),
	}
	if _, err := r.conversations.InsertOne(ctx, conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetConversationByID retrieves a conversation by ID from MongoDB
func (r *MongoConversationRepository) GetConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid conversation ID format: %w", err)
	}
	var conv models.Conversation
	err = r.conversations.FindOne(ctx, bson.M{"_id": objID}).Decode(&conv)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("conversation not found")
		}
		return nil, err
	}
	return &conv, nil
}

// GetConversationsForUser retrieves the user's conversations, most recently
// active first.
func (r *MongoConversationRepository) GetConversationsForUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})
	cursor, err := r.conversations.Find(ctx, bson.M{"participants": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

// CreateMessage inserts a message and bumps the conversation's last message
// pointer. ReadBy is seeded with the sender so a message is never unread for
// its own author.
func (r *MongoConversationRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	message.ReadBy = []string{message.SenderID}
	if message.Attachments == nil {
		message.Attachments = []models.Attachment{}
	}

	if _, err := r.messages.InsertOne(ctx, message); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"last_message_id": message.ID,
		"last_message_at": message.CreatedAt,
	}}
	_, err := r.conversations.UpdateOne(ctx, bson.M{"_id": message.ConversationID}, update)
	return err
}

// GetMessages retrieves a page of messages for a conversation, newest first,
// along with the total count. Callers reverse the page before responding so
// clients receive chronological order.
func (r *MongoConversationRepository) GetMessages(ctx context.Context, conversationID string, skip, limit int64) ([]models.Message, int64, error) {
	objID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid conversation ID format: %w", err)
	}

	filter := bson.M{"conversation_id": objID}
	total, err := r.messages.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.messages.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// MarkMessagesRead adds userID to read_by on every message in the
// conversation that the user did not author and has not read yet.
func (r *MongoConversationRepository) MarkMessagesRead(ctx context.Context, conversationID, userID string) error {
	objID, err := primitive.ObjectIDFromHex(conversationID)
	if err != nil {
		return fmt.Errorf("invalid conversation ID format: %w", err)
	}
	filter := bson.M{
		"conversation_id": objID,
		"sender_id":       bson.M{"$ne": userID},
		"read_by":         bson.M{"$ne": userID},
	}
	_, err = r.messages.UpdateMany(ctx, filter, bson.M{"$addToSet": bson.M{"read_by": userID}})
	return err
}

// UnreadMessageCount counts messages across all of the user's conversations
// that were sent by someone else and not read yet. Always computed fresh from
// the messages collection.
func (r *MongoConversationRepository) UnreadMessageCount(ctx context.Context, userID string) (int64, error) {
	ids, err := r.conversations.Distinct(ctx, "_id", bson.M{"participants": userID})
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	filter := bson.M{
		"conversation_id": bson.M{"$in": ids},
		"sender_id":       bson.M{"$ne": userID},
		"read_by":         bson.M{"$ne": userID},
	}
	return r.messages.CountDocuments(ctx, filter)
}
