package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a content unit with its comments embedded. Comments have no
// lifecycle of their own; they are appended to the parent document.
type Post struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"text,omitempty" json:"text,omitempty"`
	Images    []string           `bson:"images,omitempty" json:"images,omitempty"`
	Comments  []Comment          `bson:"comments,omitempty" json:"comments,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Comment is embedded in its post.
type Comment struct {
	Comment   string             `bson:"comment" json:"comment"`
	Image     string             `bson:"image,omitempty" json:"image,omitempty"`
	CommentBy primitive.ObjectID `bson:"comment_by" json:"comment_by"`
	CommentAt time.Time          `bson:"comment_at" json:"comment_at"`
}

// FeedPost is a post resolved with its author's public profile for feed and
// profile responses.
type FeedPost struct {
	Post
	Author PublicUser `json:"author"`
}
