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
)

// UserRepository handles database operations related to users.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}

	user.ID = insertedID

	logrus.WithField("userID", user.ID.Hex()).Info("User inserted successfully")
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFoundf("user %s", id.Hex())
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Warn("Failed to find user by ID")
		return nil, fmt.Errorf("failed to find user by id: %v", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFoundf("account with email %s", email)
	}
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"email": email,
			"error": err,
		}).Warn("Failed to find user by email")
		return nil, fmt.Errorf("failed to find user by email: %v", err)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFoundf("user %s", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %v", err)
	}
	return &user, nil
}

// UsernameExists reports whether the username is already taken.
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return false, fmt.Errorf("failed to check username: %v", err)
	}
	return count > 0, nil
}

// UpdateFields applies a partial $set update to a user document.
func (r *UserRepository) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to update user")
		return fmt.Errorf("failed to update user: %v", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFoundf("user %s", id.Hex())
	}
	return nil
}

// UpdatePasswordByEmail replaces the stored password digest for the account.
func (r *UserRepository) UpdatePasswordByEmail(ctx context.Context, email, hashedPassword string) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"hashed_password": hashedPassword, "updated_at": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %v", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFoundf("account with email %s", email)
	}
	return nil
}

// GetUsersByIDs fetches user details for a list of ObjectIDs.
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by IDs: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// SearchUsers runs a text search over names and usernames.
func (r *UserRepository) SearchUsers(ctx context.Context, term string) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"$text": bson.M{"$search": term}})
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// GetUsersWithRequestFrom returns the users whose pending requests contain
// the given sender, i.e. the requests the sender has sent.
func (r *UserRepository) GetUsersWithRequestFrom(ctx context.Context, senderID primitive.ObjectID) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"requests": senderID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sent requests: %v", err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	return users, nil
}

// TouchSearchEntry refreshes the timestamp of an existing history entry.
func (r *UserRepository) TouchSearchEntry(ctx context.Context, userID, targetID primitive.ObjectID, at time.Time) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID, "search.user": targetID},
		bson.M{"$set": bson.M{"search.$.searched_at": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to touch search entry: %v", err)
	}
	if result.MatchedCount == 0 {
		return apperr.NotFoundf("search entry for user %s", targetID.Hex())
	}
	return nil
}

// AppendSearchEntry adds a new history entry for the target.
func (r *UserRepository) AppendSearchEntry(ctx context.Context, userID primitive.ObjectID, entry models.SearchEntry) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"search": entry}},
	)
	if err != nil {
		return fmt.Errorf("failed to append search entry: %v", err)
	}
	return nil
}

// RemoveSearchEntry deletes the history entry for the target, if any.
func (r *UserRepository) RemoveSearchEntry(ctx context.Context, userID, targetID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"search": bson.M{"user": targetID}}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove search entry: %v", err)
	}
	return nil
}

// AddSavedPost bookmarks a post for the user.
func (r *UserRepository) AddSavedPost(ctx context.Context, userID primitive.ObjectID, saved models.SavedPost) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"saved_posts": saved}},
	)
	if err != nil {
		return fmt.Errorf("failed to save post: %v", err)
	}
	return nil
}

// RemoveSavedPost removes a post from the user's saved list.
func (r *UserRepository) RemoveSavedPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"saved_posts": bson.M{"post": postID}}},
	)
	if err != nil {
		return fmt.Errorf("failed to unsave post: %v", err)
	}
	return nil
}
