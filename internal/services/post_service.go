package services

import (
	"context"
	"time"

	"github.com/Dastan2231/Social_Network/internal/models"
	"github.com/Dastan2231/Social_Network/pkg/apperr"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostStore is the persistence surface the post service needs.
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) (*models.Post, error)
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetPostsByAuthors(ctx context.Context, authorIDs []primitive.ObjectID) ([]models.Post, error)
	AddComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) ([]models.Comment, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) error
}

// FeedUserStore supplies the user reads and saved-post writes the post
// service needs.
type FeedUserStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	AddSavedPost(ctx context.Context, userID primitive.ObjectID, saved models.SavedPost) error
	RemoveSavedPost(ctx context.Context, userID, postID primitive.ObjectID) error
}

// PostService handles posts, comments, the saved list and feed composition.
type PostService struct {
	posts PostStore
	users FeedUserStore
}

// NewPostService creates a new PostService.
func NewPostService(posts PostStore, users FeedUserStore) *PostService {
	return &PostService{
		posts: posts,
		users: users,
	}
}

// CreatePost stores a new post for the author.
func (s *PostService) CreatePost(ctx context.Context, authorID primitive.ObjectID, text string, images []string) (*models.FeedPost, error) {
	if text == "" && len(images) == 0 {
		return nil, apperr.Invalidf("post must have text or images")
	}

	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		User:   authorID,
		Text:   text,
		Images: images,
	}
	created, err := s.posts.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"postID":   created.ID.Hex(),
		"authorID": authorID.Hex(),
	}).Info("Post created")
	return &models.FeedPost{Post: *created, Author: author.Public()}, nil
}

// GetFeed composes the viewer's timeline: every post authored by the viewer
// or anyone the viewer follows, newest first. This is a fan-out read; the
// merge and ordering happen here, not in the store.
func (s *PostService) GetFeed(ctx context.Context, viewerID primitive.ObjectID) ([]models.FeedPost, error) {
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	authorIDs := append(append([]primitive.ObjectID{}, viewer.Following...), viewer.ID)

	posts, err := s.posts.GetPostsByAuthors(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	sortPostsByRecency(posts)

	authors, err := s.users.GetUsersByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.PublicUser, len(authors))
	for _, author := range authors {
		byID[author.ID] = author.Public()
	}

	feed := make([]models.FeedPost, 0, len(posts))
	for _, post := range posts {
		feed = append(feed, models.FeedPost{Post: post, Author: byID[post.User]})
	}
	return feed, nil
}

// Comment appends a comment to the post and returns the updated list.
func (s *PostService) Comment(ctx context.Context, userID, postID primitive.ObjectID, text, image string) ([]models.Comment, error) {
	if text == "" && image == "" {
		return nil, apperr.Invalidf("comment must have text or an image")
	}

	comment := models.Comment{
		Comment:   text,
		Image:     image,
		CommentBy: userID,
		CommentAt: time.Now(),
	}
	return s.posts.AddComment(ctx, postID, comment)
}

// ToggleSavePost bookmarks the post for the user, or removes the bookmark
// if one already exists. It reports whether the post is saved afterwards.
func (s *PostService) ToggleSavePost(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}

	for _, saved := range user.SavedPosts {
		if saved.Post == postID {
			if err := s.users.RemoveSavedPost(ctx, userID, postID); err != nil {
				return false, err
			}
			return false, nil
		}
	}

	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return false, err
	}

	saved := models.SavedPost{Post: postID, SavedAt: time.Now()}
	if err := s.users.AddSavedPost(ctx, userID, saved); err != nil {
		return false, err
	}
	return true, nil
}

// DeletePost removes the post outright. The caller is trusted to be the
// author.
func (s *PostService) DeletePost(ctx context.Context, postID primitive.ObjectID) error {
	return s.posts.DeletePost(ctx, postID)
}
