package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dastan2231/Social_Network/internal/models"
	"github.com/Dastan2231/Social_Network/pkg/apperr"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CodeRepository stores password reset codes, one active code per user.
type CodeRepository struct {
	collection *mongo.Collection
}

// NewCodeRepository creates a new instance of CodeRepository.
func NewCodeRepository(db *mongo.Database) *CodeRepository {
	return &CodeRepository{
		collection: db.Collection("codes"),
	}
}

// ReplaceCode stores a fresh code for the user, superseding any prior one.
func (r *CodeRepository) ReplaceCode(ctx context.Context, userID primitive.ObjectID, code string) error {
	upsert := true
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"user_id": userID},
		&models.Code{Code: code, UserID: userID, CreatedAt: time.Now()},
		&options.ReplaceOptions{Upsert: &upsert},
	)
	if err != nil {
		return fmt.Errorf("failed to store reset code: %v", err)
	}
	return nil
}

// GetCodeByUser retrieves the active code for the user.
func (r *CodeRepository) GetCodeByUser(ctx context.Context, userID primitive.ObjectID) (*models.Code, error) {
	var code models.Code
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&code)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFoundf("reset code for user %s", userID.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find reset code: %v", err)
	}
	return &code, nil
}

// DeleteCodeByUser consumes the active code for the user.
func (r *CodeRepository) DeleteCodeByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete reset code: %v", err)
	}
	return nil
}
