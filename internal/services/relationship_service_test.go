package services

import (
	"context"
	"testing"

	"github.com/Dastan2231/Social_Network/internal/models"
	"github.com/Dastan2231/Social_Network/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// assertGraphInvariants checks the relation-set invariants that must hold
// after every mutating operation: symmetric friendship, symmetric follow
// edges, friends imply mutual follow, pending requests imply follow, and no
// duplicates inside any set.
func assertGraphInvariants(t *testing.T, store *fakeStore) {
	t.Helper()
	for _, user := range store.users {
		assertNoDuplicates(t, user.Friends)
		assertNoDuplicates(t, user.Followers)
		assertNoDuplicates(t, user.Following)
		assertNoDuplicates(t, user.Requests)

		for _, friendID := range user.Friends {
			friend := store.users[friendID]
			require.NotNil(t, friend)
			assert.True(t, models.Contains(friend.Friends, user.ID), "friendship must be symmetric")
			assert.True(t, models.Contains(user.Followers, friendID), "friend must follow")
			assert.True(t, models.Contains(user.Following, friendID), "friend must be followed back")
		}
		for _, followerID := range user.Followers {
			follower := store.users[followerID]
			require.NotNil(t, follower)
			assert.True(t, models.Contains(follower.Following, user.ID), "follow edge must be symmetric across the two sets")
		}
		for _, followedID := range user.Following {
			followed := store.users[followedID]
			require.NotNil(t, followed)
			assert.True(t, models.Contains(followed.Followers, user.ID), "follow edge must be symmetric across the two sets")
		}
		for _, requesterID := range user.Requests {
			assert.True(t, models.Contains(user.Followers, requesterID), "a pending request implies a follow edge")
		}
	}
}

func assertNoDuplicates(t *testing.T, set []primitive.ObjectID) {
	t.Helper()
	seen := make(map[primitive.ObjectID]bool, len(set))
	for _, id := range set {
		assert.False(t, seen[id], "relation set holds a duplicate id")
		seen[id] = true
	}
}

func newRelationshipFixture() (*RelationshipService, *fakeStore, *models.User, *models.User) {
	store := newFakeStore()
	ann := store.addUser("Ann", "Lee")
	bob := store.addUser("Bob", "Ray")
	return NewRelationshipService(store, store), store, ann, bob
}

func TestSendFriendRequest(t *testing.T) {
	service, store, ann, bob := newRelationshipFixture()
	ctx := context.Background()

	require.NoError(t, service.SendFriendRequest(ctx, ann.ID, bob.ID))

	assert.True(t, models.Contains(bob.Requests, ann.ID))
	assert.True(t, models.Contains(bob.Followers, ann.ID))
	assert.True(t, models.Contains(ann.Following, bob.ID))
	assertGraphInvariants(t, store)

	err := service.SendFriendRequest(ctx, ann.ID, bob.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestSendFriendRequestToSelf(t *testing.T) {
	service, _, ann, _ := newRelationshipFixture()

	err := service.SendFriendRequest(context.Background(), ann.ID, ann.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAcceptFriendRequest(t *testing.T) {
	service, store, ann, bob := newRelationshipFixture()
	ctx := context.Background()

	require.NoError(t, service.SendFriendRequest(ctx, ann.ID, bob.ID))
	require.NoError(t, service.AcceptFriendRequest(ctx, bob.ID, ann.ID))

	assert.True(t, models.Contains(ann.Friends, bob.ID))
	assert.True(t, models.Contains(bob.Friends, ann.ID))
	assert.False(t, models.Contains(bob.Requests, ann.ID))
	// friends imply mutual follow
	assert.True(t, models.Contains(ann.Following, bob.ID))
	assert.True(t, models.Contains(ann.Followers, bob.ID))
	assert.True(t, models.Contains(bob.Following, ann.ID))
	assert.True(t, models.Contains(bob.Followers, ann.ID))
	assertGraphInvariants(t, store)

	err := service.AcceptFriendRequest(ctx, bob.ID, ann.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCancelFriendRequest(t *testing.T) {
	service, store, ann, bob := newRelationshipFixture()
	ctx := context.Background()

	require.NoError(t, service.SendFriendRequest(ctx, ann.ID, bob.ID))
	require.NoError(t, service.CancelFriendRequest(ctx, ann.ID, bob.ID))

	assert.False(t, models.Contains(bob.Requests, ann.ID))
	assert.False(t, models.Contains(bob.Followers, ann.ID))
	assert.False(t, models.Contains(ann.Following, bob.ID))
	assertGraphInvariants(t, store)

	err := service.CancelFriendRequest(ctx, ann.ID, bob.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestUnfriend(t *testing.T) {
	service, store, ann, bob := newRelationshipFixture()
	ctx := context.Background()

	require.NoError(t, service.SendFriendRequest(ctx, ann.ID, bob.ID))
	require.NoError(t, service.AcceptFriendRequest(ctx, bob.ID, ann.ID))
	require.NoError(t, service.Unfriend(ctx, ann.ID, bob.ID))

	for _, set := range [][]primitive.ObjectID{ann.Friends, ann.Following, ann.Followers} {
		assert.False(t, models.Contains(set, bob.ID))
	}
	for _, set := range [][]primitive.ObjectID{bob.Friends, bob.Following, bob.Followers} {
		assert.False(t, models.Contains(set, ann.ID))
	}
	assertGraphInvariants(t, store)

	err := service.Unfriend(ctx, ann.ID, bob.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestFollowUnfollow(t *testing.T) {
	service, store, ann, bob := newRelationshipFixture()
	ctx := context.Background()

	require.NoError(t, service.Follow(ctx, ann.ID, bob.ID))
	assert.True(t, models.Contains(bob.Followers, ann.ID))
	assert.True(t, models.Contains(ann.Following, bob.ID))
	assertGraphInvariants(t, store)

	assert.ErrorIs(t, service.Follow(ctx, ann.ID, bob.ID), apperr.ErrConflict)

	require.NoError(t, service.Unfollow(ctx, ann.ID, bob.ID))
	assert.False(t, models.Contains(bob.Followers, ann.ID))
	assert.False(t, models.Contains(ann.Following, bob.ID))
	assertGraphInvariants(t, store)

	assert.ErrorIs(t, service.Unfollow(ctx, ann.ID, bob.ID), apperr.ErrConflict)
}

func TestDeleteFriendRequest(t *testing.T) {
	service, store, ann, bob := newRelationshipFixture()
	ctx := context.Background()

	require.NoError(t, service.SendFriendRequest(ctx, ann.ID, bob.ID))
	// bob discards ann's request
	require.NoError(t, service.DeleteFriendRequest(ctx, bob.ID, ann.ID))

	assert.False(t, models.Contains(bob.Requests, ann.ID))
	assert.False(t, models.Contains(bob.Followers, ann.ID))
	assert.False(t, models.Contains(ann.Following, bob.ID))
	assertGraphInvariants(t, store)

	err := service.DeleteFriendRequest(ctx, bob.ID, ann.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestGetFriendsPageInfo(t *testing.T) {
	service, store, ann, bob := newRelationshipFixture()
	cat := store.addUser("Cat", "Doe")
	ctx := context.Background()

	// ann and bob are friends, cat has a pending request to ann,
	// and ann has a pending request to nobody else.
	require.NoError(t, service.SendFriendRequest(ctx, ann.ID, bob.ID))
	require.NoError(t, service.AcceptFriendRequest(ctx, bob.ID, ann.ID))
	require.NoError(t, service.SendFriendRequest(ctx, cat.ID, ann.ID))

	info, err := service.GetFriendsPageInfo(ctx, ann.ID)
	require.NoError(t, err)

	require.Len(t, info.Friends, 1)
	assert.Equal(t, bob.ID, info.Friends[0].ID)
	require.Len(t, info.Requests, 1)
	assert.Equal(t, cat.ID, info.Requests[0].ID)
	assert.Empty(t, info.SentRequests)

	info, err = service.GetFriendsPageInfo(ctx, cat.ID)
	require.NoError(t, err)
	require.Len(t, info.SentRequests, 1)
	assert.Equal(t, ann.ID, info.SentRequests[0].ID)
}
