package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dastan2231/Social_Network/internal/models"
	"github.com/Dastan2231/Social_Network/pkg/apperr"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PostRepository handles database operations related to posts.
type PostRepository struct {
	collection *mongo.Collection
}

// NewPostRepository creates a new instance of PostRepository.
func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{
		collection: db.Collection("posts"),
	}
}

// CreatePost inserts a new post into the database.
func (r *PostRepository) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.CreatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, post)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert post into database")
		return nil, fmt.Errorf("failed to insert post: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	post.ID = insertedID

	logrus.WithField("postID", post.ID.Hex()).Info("Post inserted successfully")
	return post, nil
}

// GetPostByID retrieves a single post.
func (r *PostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFoundf("post %s", id.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %v", err)
	}
	return &post, nil
}

// GetPostsByAuthors fetches every post authored by any of the given users.
func (r *PostRepository) GetPostsByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user": bson.M{"$in": authorIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %v", err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	for cursor.Next(ctx) {
		var post models.Post
		if err := cursor.Decode(&post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// AddComment appends a comment to the post and returns the updated list.
func (r *PostRepository) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) ([]models.Comment, error) {
	after := options.After
	var updated models.Post
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": comment}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFoundf("post %s", postID.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add comment: %v", err)
	}
	return updated.Comments, nil
}

// DeletePost removes a post by id.
func (r *PostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"postID": id.Hex(),
			"error":  err,
		}).Error("Failed to delete post")
		return fmt.Errorf("failed to delete post: %v", err)
	}
	if result.DeletedCount == 0 {
		return apperr.NotFoundf("post %s", id.Hex())
	}

	logrus.WithField("postID", id.Hex()).Info("Post deleted successfully")
	return nil
}
