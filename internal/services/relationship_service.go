package services

import (
	"context"

	"github.com/Dastan2231/Social_Network/internal/models"
	"github.com/Dastan2231/Social_Network/pkg/apperr"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RelationshipStore applies relation-set transitions. Implementations must
// make each transition atomic and fail with a Conflict error when the
// transition's precondition does not hold.
type RelationshipStore interface {
	SendRequest(ctx context.Context, actorID, targetID primitive.ObjectID) error
	CancelRequest(ctx context.Context, actorID, targetID primitive.ObjectID) error
	Follow(ctx context.Context, actorID, targetID primitive.ObjectID) error
	Unfollow(ctx context.Context, actorID, targetID primitive.ObjectID) error
	AcceptRequest(ctx context.Context, receiverID, senderID primitive.ObjectID) error
	Unfriend(ctx context.Context, actorID, targetID primitive.ObjectID) error
	DeleteRequest(ctx context.Context, receiverID, senderID primitive.ObjectID) error
}

// RelationshipUserStore supplies the user reads the relationship views need.
type RelationshipUserStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetUsersWithRequestFrom(ctx context.Context, senderID primitive.ObjectID) ([]models.User, error)
}

// RelationshipService governs transitions between strangers, requested,
// following and friends.
type RelationshipService struct {
	store RelationshipStore
	users RelationshipUserStore
}

// NewRelationshipService creates a new RelationshipService.
func NewRelationshipService(store RelationshipStore, users RelationshipUserStore) *RelationshipService {
	return &RelationshipService{
		store: store,
		users: users,
	}
}

func checkNotSelf(actorID, targetID primitive.ObjectID, action string) error {
	if actorID == targetID {
		return apperr.Invalidf("you can't %s yourself", action)
	}
	return nil
}

// SendFriendRequest puts the actor in the target's requests and followers
// and the target in the actor's following.
func (s *RelationshipService) SendFriendRequest(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	if err := checkNotSelf(actorID, targetID, "send a request to"); err != nil {
		return err
	}
	if err := s.store.SendRequest(ctx, actorID, targetID); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"actorID":  actorID.Hex(),
		"targetID": targetID.Hex(),
	}).Info("Friend request sent")
	return nil
}

// CancelFriendRequest withdraws a pending request together with the follow
// edge it created.
func (s *RelationshipService) CancelFriendRequest(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	if err := checkNotSelf(actorID, targetID, "cancel a request to"); err != nil {
		return err
	}
	return s.store.CancelRequest(ctx, actorID, targetID)
}

// Follow adds the one-way follow edge.
func (s *RelationshipService) Follow(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	if err := checkNotSelf(actorID, targetID, "follow"); err != nil {
		return err
	}
	return s.store.Follow(ctx, actorID, targetID)
}

// Unfollow removes the one-way follow edge.
func (s *RelationshipService) Unfollow(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	if err := checkNotSelf(actorID, targetID, "unfollow"); err != nil {
		return err
	}
	return s.store.Unfollow(ctx, actorID, targetID)
}

// AcceptFriendRequest turns the sender's pending request into a friendship.
func (s *RelationshipService) AcceptFriendRequest(ctx context.Context, receiverID, senderID primitive.ObjectID) error {
	if err := checkNotSelf(receiverID, senderID, "accept a request from"); err != nil {
		return err
	}
	if err := s.store.AcceptRequest(ctx, receiverID, senderID); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"receiverID": receiverID.Hex(),
		"senderID":   senderID.Hex(),
	}).Info("Friend request accepted")
	return nil
}

// Unfriend severs the friendship and both follow edges.
func (s *RelationshipService) Unfriend(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	if err := checkNotSelf(actorID, targetID, "unfriend"); err != nil {
		return err
	}
	return s.store.Unfriend(ctx, actorID, targetID)
}

// DeleteFriendRequest discards an incoming request.
func (s *RelationshipService) DeleteFriendRequest(ctx context.Context, receiverID, senderID primitive.ObjectID) error {
	if err := checkNotSelf(receiverID, senderID, "delete a request from"); err != nil {
		return err
	}
	return s.store.DeleteRequest(ctx, receiverID, senderID)
}

// FriendsPageInfo is the friends page payload: current friends, incoming
// requests and the requests the user has sent, all as public profiles.
type FriendsPageInfo struct {
	Friends      []models.PublicUser `json:"friends"`
	Requests     []models.PublicUser `json:"requests"`
	SentRequests []models.PublicUser `json:"sent_requests"`
}

// GetFriendsPageInfo gathers the friends page lists for the user.
func (s *RelationshipService) GetFriendsPageInfo(ctx context.Context, userID primitive.ObjectID) (*FriendsPageInfo, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	friends, err := s.users.GetUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, err
	}
	requests, err := s.users.GetUsersByIDs(ctx, user.Requests)
	if err != nil {
		return nil, err
	}
	sent, err := s.users.GetUsersWithRequestFrom(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &FriendsPageInfo{
		Friends:      toPublic(friends),
		Requests:     toPublic(requests),
		SentRequests: toPublic(sent),
	}, nil
}

func toPublic(users []models.User) []models.PublicUser {
	out := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		out = append(out, user.Public())
	}
	return out
}
