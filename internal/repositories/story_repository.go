package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/inkwell-social/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StoryRepository defines the interface for story data operations
type StoryRepository interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetStoryByID(ctx context.Context, id string) (*models.Story, error)
	GetStoriesByAuthorID(ctx context.Context, authorID string, skip, limit int64) ([]models.Story, error)
	GetAllStories(ctx context.Context, skip, limit int64) ([]models.Story, error)
	DeleteStory(ctx context.Context, id string) error
	IncrementLikesCount(ctx context.Context, storyID string) error
	DecrementLikesCount(ctx context.Context, storyID string) error
	IncrementCommentsCount(ctx context.Context, storyID string) error
}

// MongoStoryRepository implements StoryRepository for MongoDB
type MongoStoryRepository struct {
	collection *mongo.Collection
}

// NewMongoStoryRepository creates a new MongoStoryRepository
func NewMongoStoryRepository(db *mongo.Database) *MongoStoryRepository {
	return &MongoStoryRepository{collection: db.Collection("stories")}
}

// CreateStory creates a new story in MongoDB
func (r *MongoStoryRepository) CreateStory(ctx context.Context, story *models.Story) error {
	story.ID = primitive.NewObjectID()
	story.CreatedAt = time.Now()
	story.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, story)
	return err
}

// GetStoryByID retrieves a story by ID from MongoDB
func (r *MongoStoryRepository) GetStoryByID(ctx context.Context, id string) (*models.Story, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid story ID format: %w", err)
	}

	var story models.Story
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&story)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("story not found")
		}
		return nil, err
	}
	return &story, nil
}

// GetStoriesByAuthorID retrieves stories by a specific author from MongoDB
func (r *MongoStoryRepository) GetStoriesByAuthorID(ctx context.Context, authorID string, skip, limit int64) ([]models.Story, error) {
	var stories []models.Story
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"author_id": authorID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// GetAllStories retrieves all stories from MongoDB with pagination
func (r *MongoStoryRepository) GetAllStories(ctx context.Context, skip, limit int64) ([]models.Story, error) {
	var stories []models.Story
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// DeleteStory deletes a story from MongoDB
func (r *MongoStoryRepository) DeleteStory(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid story ID format: %w", err)
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("story not found")
	}
	return nil
}

// IncrementLikesCount atomically increments the likes count of a story
func (r *MongoStoryRepository) IncrementLikesCount(ctx context.Context, storyID string) error {
	return r.adjustCounter(ctx, storyID, "likes_count", 1)
}

// DecrementLikesCount atomically decrements the likes count of a story
func (r *MongoStoryRepository) DecrementLikesCount(ctx context.Context, storyID string) error {
	return r.adjustCounter(ctx, storyID, "likes_count", -1)
}

// IncrementCommentsCount atomically increments the comments count of a story
func (r *MongoStoryRepository) IncrementCommentsCount(ctx context.Context, storyID string) error {
	return r.adjustCounter(ctx, storyID, "comments_count", 1)
}

func (r *MongoStoryRepository) adjustCounter(ctx context.Context, storyID, field string, delta int) error {
	objID, err := primitive.ObjectIDFromHex(storyID)
	if err != nil {
		return fmt.Errorf("invalid story ID format: %w", err)
	}
	filter := bson.M{"_id": objID}
	if delta < 0 {
		// Never drive a counter below zero
		filter[field] = bson.M{"$gt": 0}
	}
	_, err = r.collection.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{field: delta}})
	return err
}
