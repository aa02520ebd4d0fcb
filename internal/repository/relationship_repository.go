package repository

import (
	"context"
	"fmt"

	"github.com/Dastan2231/Social_Network/pkg/apperr"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RelationshipRepository mutates the relation sets on user documents.
//
// Every transition that touches two documents runs inside one session
// transaction, and the first write of each transition carries its
// precondition in the update filter. A filter that matches nothing means the
// precondition no longer holds (already sent, already friends, lost race),
// which surfaces as a Conflict and aborts the transaction, so a half-applied
// edge can never become visible.
type RelationshipRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewRelationshipRepository creates a new instance of RelationshipRepository.
func NewRelationshipRepository(db *mongo.Database) *RelationshipRepository {
	return &RelationshipRepository{
		client:     db.Client(),
		collection: db.Collection("users"),
	}
}

func (r *RelationshipRepository) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// guarded runs an update whose filter carries the transition precondition
// and converts a non-match into a Conflict.
func (r *RelationshipRepository) guarded(ctx context.Context, filter, update bson.M, op string) error {
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to %s: %v", op, err)
	}
	if result.MatchedCount == 0 {
		return apperr.Conflictf("%s precondition failed", op)
	}
	return nil
}

// SendRequest records a pending friend request: the actor lands in the
// target's requests and followers, the target in the actor's following.
func (r *RelationshipRepository) SendRequest(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := r.guarded(sc,
			bson.M{"_id": targetID, "requests": bson.M{"$ne": actorID}, "friends": bson.M{"$ne": actorID}},
			bson.M{"$addToSet": bson.M{"requests": actorID, "followers": actorID}},
			"send friend request",
		); err != nil {
			return err
		}
		_, err := r.collection.UpdateOne(sc,
			bson.M{"_id": actorID},
			bson.M{"$addToSet": bson.M{"following": targetID}},
		)
		return err
	})
	if err == nil {
		logrus.WithFields(logrus.Fields{
			"actorID":  actorID.Hex(),
			"targetID": targetID.Hex(),
		}).Info("Friend request recorded")
	}
	return err
}

// CancelRequest withdraws a pending request and the follow edge it created.
func (r *RelationshipRepository) CancelRequest(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := r.guarded(sc,
			bson.M{"_id": targetID, "requests": actorID, "friends": bson.M{"$ne": actorID}},
			bson.M{"$pull": bson.M{"requests": actorID, "followers": actorID}},
			"cancel friend request",
		); err != nil {
			return err
		}
		_, err := r.collection.UpdateOne(sc,
			bson.M{"_id": actorID},
			bson.M{"$pull": bson.M{"following": targetID}},
		)
		return err
	})
}

// Follow adds the one-way follow edge actor -> target.
func (r *RelationshipRepository) Follow(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := r.guarded(sc,
			bson.M{"_id": targetID, "followers": bson.M{"$ne": actorID}},
			bson.M{"$addToSet": bson.M{"followers": actorID}},
			"follow",
		); err != nil {
			return err
		}
		return r.guarded(sc,
			bson.M{"_id": actorID, "following": bson.M{"$ne": targetID}},
			bson.M{"$addToSet": bson.M{"following": targetID}},
			"follow",
		)
	})
}

// Unfollow removes the follow edge actor -> target.
func (r *RelationshipRepository) Unfollow(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := r.guarded(sc,
			bson.M{"_id": targetID, "followers": actorID},
			bson.M{"$pull": bson.M{"followers": actorID}},
			"unfollow",
		); err != nil {
			return err
		}
		return r.guarded(sc,
			bson.M{"_id": actorID, "following": targetID},
			bson.M{"$pull": bson.M{"following": targetID}},
			"unfollow",
		)
	})
}

// AcceptRequest turns a pending request into a friendship. The receiver
// follows the sender back, both friends sets gain the other user, and the
// request entry is consumed.
func (r *RelationshipRepository) AcceptRequest(ctx context.Context, receiverID, senderID primitive.ObjectID) error {
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := r.guarded(sc,
			bson.M{"_id": receiverID, "requests": senderID},
			bson.M{
				"$addToSet": bson.M{"friends": senderID, "following": senderID},
				"$pull":     bson.M{"requests": senderID},
			},
			"accept friend request",
		); err != nil {
			return err
		}
		_, err := r.collection.UpdateOne(sc,
			bson.M{"_id": senderID},
			bson.M{"$addToSet": bson.M{"friends": receiverID, "followers": receiverID}},
		)
		return err
	})
	if err == nil {
		logrus.WithFields(logrus.Fields{
			"receiverID": receiverID.Hex(),
			"senderID":   senderID.Hex(),
		}).Info("Friend request accepted")
	}
	return err
}

// Unfriend severs the friendship and both follow edges in both directions.
func (r *RelationshipRepository) Unfriend(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := r.guarded(sc,
			bson.M{"_id": targetID, "friends": actorID},
			bson.M{"$pull": bson.M{"friends": actorID, "following": actorID, "followers": actorID}},
			"unfriend",
		); err != nil {
			return err
		}
		return r.guarded(sc,
			bson.M{"_id": actorID, "friends": targetID},
			bson.M{"$pull": bson.M{"friends": targetID, "following": targetID, "followers": targetID}},
			"unfriend",
		)
	})
}

// DeleteRequest lets the receiver discard an incoming request, dropping the
// sender's follow edge along with it.
func (r *RelationshipRepository) DeleteRequest(ctx context.Context, receiverID, senderID primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := r.guarded(sc,
			bson.M{"_id": receiverID, "requests": senderID},
			bson.M{"$pull": bson.M{"requests": senderID, "followers": senderID}},
			"delete friend request",
		); err != nil {
			return err
		}
		_, err := r.collection.UpdateOne(sc,
			bson.M{"_id": senderID},
			bson.M{"$pull": bson.M{"following": receiverID}},
		)
		return err
	})
}
