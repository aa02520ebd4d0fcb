package services

import (
	"context"
	"strings"
	"time"

	"github.com/Dastan2231/Social_Network/internal/models"
	"github.com/Dastan2231/Social_Network/pkg/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStore is an in-memory stand-in for the repositories. Its relationship
// transitions enforce the same preconditions the Mongo filters do, so the
// services can be exercised end to end without a database.
type fakeStore struct {
	users map[primitive.ObjectID]*models.User
	posts map[primitive.ObjectID]*models.Post
	order []primitive.ObjectID
	codes map[primitive.ObjectID]*models.Code
	sent  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[primitive.ObjectID]*models.User),
		posts: make(map[primitive.ObjectID]*models.Post),
		codes: make(map[primitive.ObjectID]*models.Code),
	}
}

func (f *fakeStore) addUser(firstName, lastName string) *models.User {
	user := &models.User{
		ID:        primitive.NewObjectID(),
		FirstName: firstName,
		LastName:  lastName,
		Username:  firstName + lastName,
		Email:     strings.ToLower(firstName + "." + lastName + "@example.com"),
		CreatedAt: time.Now(),
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeStore) addPost(author primitive.ObjectID, text string, createdAt time.Time) *models.Post {
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		User:      author,
		Text:      text,
		CreatedAt: createdAt,
	}
	f.posts[post.ID] = post
	f.order = append(f.order, post.ID)
	return post
}

func addToSet(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	if models.Contains(set, id) {
		return set
	}
	return append(set, id)
}

func pull(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := set[:0]
	for _, member := range set {
		if member != id {
			out = append(out, member)
		}
	}
	return out
}

// --- UserStore / RelationshipUserStore / FeedUserStore / SearchUserStore ---

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperr.NotFoundf("user %s", id.Hex())
	}
	return user, nil
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperr.NotFoundf("account with email %s", email)
}

func (f *fakeStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, apperr.NotFoundf("user %s", username)
}

func (f *fakeStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := f.GetUserByUsername(ctx, username)
	return err == nil, nil
}

func (f *fakeStore) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) error {
	user, ok := f.users[id]
	if !ok {
		return apperr.NotFoundf("user %s", id.Hex())
	}
	for key, value := range fields {
		switch key {
		case "verified":
			user.Verified = value.(bool)
		case "picture":
			user.Picture = value.(string)
		case "cover":
			user.Cover = value.(string)
		case "details":
			user.Details = value.(map[string]interface{})
		case "hashed_password":
			user.HashedPassword = value.(string)
		}
	}
	return nil
}

func (f *fakeStore) UpdatePasswordByEmail(ctx context.Context, email, hashedPassword string) error {
	user, err := f.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	user.HashedPassword = hashedPassword
	return nil
}

func (f *fakeStore) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeStore) GetUsersWithRequestFrom(ctx context.Context, senderID primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		if models.Contains(user.Requests, senderID) {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeStore) SearchUsers(ctx context.Context, term string) ([]models.User, error) {
	var out []models.User
	for _, user := range f.users {
		if strings.Contains(user.FirstName, term) || strings.Contains(user.LastName, term) || strings.Contains(user.Username, term) {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeStore) TouchSearchEntry(ctx context.Context, userID, targetID primitive.ObjectID, at time.Time) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.NotFoundf("user %s", userID.Hex())
	}
	for i := range user.Search {
		if user.Search[i].User == targetID {
			user.Search[i].SearchedAt = at
			return nil
		}
	}
	return apperr.NotFoundf("search entry for user %s", targetID.Hex())
}

func (f *fakeStore) AppendSearchEntry(ctx context.Context, userID primitive.ObjectID, entry models.SearchEntry) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.NotFoundf("user %s", userID.Hex())
	}
	user.Search = append(user.Search, entry)
	return nil
}

func (f *fakeStore) RemoveSearchEntry(ctx context.Context, userID, targetID primitive.ObjectID) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.NotFoundf("user %s", userID.Hex())
	}
	kept := user.Search[:0]
	for _, entry := range user.Search {
		if entry.User != targetID {
			kept = append(kept, entry)
		}
	}
	user.Search = kept
	return nil
}

func (f *fakeStore) AddSavedPost(ctx context.Context, userID primitive.ObjectID, saved models.SavedPost) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.NotFoundf("user %s", userID.Hex())
	}
	user.SavedPosts = append(user.SavedPosts, saved)
	return nil
}

func (f *fakeStore) RemoveSavedPost(ctx context.Context, userID, postID primitive.ObjectID) error {
	user, ok := f.users[userID]
	if !ok {
		return apperr.NotFoundf("user %s", userID.Hex())
	}
	kept := user.SavedPosts[:0]
	for _, saved := range user.SavedPosts {
		if saved.Post != postID {
			kept = append(kept, saved)
		}
	}
	user.SavedPosts = kept
	return nil
}

// --- RelationshipStore ---

func (f *fakeStore) SendRequest(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	actor, target := f.users[actorID], f.users[targetID]
	if models.Contains(target.Requests, actorID) || models.Contains(target.Friends, actorID) {
		return apperr.Conflictf("send friend request precondition failed")
	}
	target.Requests = addToSet(target.Requests, actorID)
	target.Followers = addToSet(target.Followers, actorID)
	actor.Following = addToSet(actor.Following, targetID)
	return nil
}

func (f *fakeStore) CancelRequest(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	actor, target := f.users[actorID], f.users[targetID]
	if !models.Contains(target.Requests, actorID) || models.Contains(target.Friends, actorID) {
		return apperr.Conflictf("cancel friend request precondition failed")
	}
	target.Requests = pull(target.Requests, actorID)
	target.Followers = pull(target.Followers, actorID)
	actor.Following = pull(actor.Following, targetID)
	return nil
}

func (f *fakeStore) Follow(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	actor, target := f.users[actorID], f.users[targetID]
	if models.Contains(target.Followers, actorID) || models.Contains(actor.Following, targetID) {
		return apperr.Conflictf("follow precondition failed")
	}
	target.Followers = addToSet(target.Followers, actorID)
	actor.Following = addToSet(actor.Following, targetID)
	return nil
}

func (f *fakeStore) Unfollow(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	actor, target := f.users[actorID], f.users[targetID]
	if !models.Contains(target.Followers, actorID) || !models.Contains(actor.Following, targetID) {
		return apperr.Conflictf("unfollow precondition failed")
	}
	target.Followers = pull(target.Followers, actorID)
	actor.Following = pull(actor.Following, targetID)
	return nil
}

func (f *fakeStore) AcceptRequest(ctx context.Context, receiverID, senderID primitive.ObjectID) error {
	receiver, sender := f.users[receiverID], f.users[senderID]
	if !models.Contains(receiver.Requests, senderID) {
		return apperr.Conflictf("accept friend request precondition failed")
	}
	receiver.Friends = addToSet(receiver.Friends, senderID)
	receiver.Following = addToSet(receiver.Following, senderID)
	receiver.Requests = pull(receiver.Requests, senderID)
	sender.Friends = addToSet(sender.Friends, receiverID)
	sender.Followers = addToSet(sender.Followers, receiverID)
	return nil
}

func (f *fakeStore) Unfriend(ctx context.Context, actorID, targetID primitive.ObjectID) error {
	actor, target := f.users[actorID], f.users[targetID]
	if !models.Contains(target.Friends, actorID) || !models.Contains(actor.Friends, targetID) {
		return apperr.Conflictf("unfriend precondition failed")
	}
	target.Friends = pull(target.Friends, actorID)
	target.Following = pull(target.Following, actorID)
	target.Followers = pull(target.Followers, actorID)
	actor.Friends = pull(actor.Friends, targetID)
	actor.Following = pull(actor.Following, targetID)
	actor.Followers = pull(actor.Followers, targetID)
	return nil
}

func (f *fakeStore) DeleteRequest(ctx context.Context, receiverID, senderID primitive.ObjectID) error {
	receiver, sender := f.users[receiverID], f.users[senderID]
	if !models.Contains(receiver.Requests, senderID) {
		return apperr.Conflictf("delete friend request precondition failed")
	}
	receiver.Requests = pull(receiver.Requests, senderID)
	receiver.Followers = pull(receiver.Followers, senderID)
	sender.Following = pull(sender.Following, receiverID)
	return nil
}

// --- PostStore / ProfilePostStore ---

func (f *fakeStore) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.ID = primitive.NewObjectID()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	f.posts[post.ID] = post
	f.order = append(f.order, post.ID)
	return post, nil
}

func (f *fakeStore) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, apperr.NotFoundf("post %s", id.Hex())
	}
	return post, nil
}

func (f *fakeStore) GetPostsByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.Post, error) {
	var out []models.Post
	for _, id := range f.order {
		post, ok := f.posts[id]
		if !ok {
			continue
		}
		if models.Contains(authorIDs, post.User) {
			out = append(out, *post)
		}
	}
	return out, nil
}

func (f *fakeStore) AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) ([]models.Comment, error) {
	post, ok := f.posts[postID]
	if !ok {
		return nil, apperr.NotFoundf("post %s", postID.Hex())
	}
	post.Comments = append(post.Comments, comment)
	return post.Comments, nil
}

func (f *fakeStore) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.posts[id]; !ok {
		return apperr.NotFoundf("post %s", id.Hex())
	}
	delete(f.posts, id)
	return nil
}

// --- CodeStore ---

func (f *fakeStore) ReplaceCode(ctx context.Context, userID primitive.ObjectID, code string) error {
	f.codes[userID] = &models.Code{
		ID:        primitive.NewObjectID(),
		Code:      code,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	return nil
}

func (f *fakeStore) GetCodeByUser(ctx context.Context, userID primitive.ObjectID) (*models.Code, error) {
	code, ok := f.codes[userID]
	if !ok {
		return nil, apperr.NotFoundf("reset code for user %s", userID.Hex())
	}
	return code, nil
}

func (f *fakeStore) DeleteCodeByUser(ctx context.Context, userID primitive.ObjectID) error {
	delete(f.codes, userID)
	return nil
}

// --- Mailer ---

func (f *fakeStore) SendVerificationEmail(to, firstName, url string) error {
	f.sent = append(f.sent, "verification:"+to)
	return nil
}

func (f *fakeStore) SendResetCode(to, firstName, code string) error {
	f.sent = append(f.sent, "reset:"+to)
	return nil
}
