package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account and its social graph node. The relation sets
// (followers, following, requests, friends) hold user ids in insertion order;
// every write goes through $addToSet/$pull so no set ever holds duplicates.
type User struct {
	ID             primitive.ObjectID     `bson:"_id,omitempty" json:"id"`
	FirstName      string                 `bson:"first_name" json:"first_name"`
	LastName       string                 `bson:"last_name" json:"last_name"`
	Username       string                 `bson:"username" json:"username"`
	Email          string                 `bson:"email" json:"email"`
	HashedPassword string                 `bson:"hashed_password" json:"-"`
	Verified       bool                   `bson:"verified" json:"verified"`
	Picture        string                 `bson:"picture,omitempty" json:"picture,omitempty"`
	Cover          string                 `bson:"cover,omitempty" json:"cover,omitempty"`
	Gender         string                 `bson:"gender,omitempty" json:"gender,omitempty"`
	BirthYear      int                    `bson:"b_year,omitempty" json:"b_year,omitempty"`
	BirthMonth     int                    `bson:"b_month,omitempty" json:"b_month,omitempty"`
	BirthDay       int                    `bson:"b_day,omitempty" json:"b_day,omitempty"`
	Details        map[string]interface{} `bson:"details,omitempty" json:"details,omitempty"`
	Friends        []primitive.ObjectID   `bson:"friends,omitempty" json:"friends,omitempty"`
	Followers      []primitive.ObjectID   `bson:"followers,omitempty" json:"followers,omitempty"`
	Following      []primitive.ObjectID   `bson:"following,omitempty" json:"following,omitempty"`
	Requests       []primitive.ObjectID   `bson:"requests,omitempty" json:"requests,omitempty"`
	Search         []SearchEntry          `bson:"search,omitempty" json:"search,omitempty"`
	SavedPosts     []SavedPost            `bson:"saved_posts,omitempty" json:"saved_posts,omitempty"`
	CreatedAt      time.Time              `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time              `bson:"updated_at" json:"updated_at"`
}

// SearchEntry records one previously searched account. At most one entry per
// target user exists; repeating a search only refreshes SearchedAt.
type SearchEntry struct {
	User       primitive.ObjectID `bson:"user" json:"user"`
	SearchedAt time.Time          `bson:"searched_at" json:"searched_at"`
}

// SavedPost records one bookmarked post.
type SavedPost struct {
	Post    primitive.ObjectID `bson:"post" json:"post"`
	SavedAt time.Time          `bson:"saved_at" json:"saved_at"`
}

// PublicUser is the trimmed profile shape returned in friend lists and
// search results.
type PublicUser struct {
	ID        primitive.ObjectID `json:"id"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	Username  string             `json:"username"`
	Picture   string             `json:"picture,omitempty"`
}

// Public returns the trimmed view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Username:  u.Username,
		Picture:   u.Picture,
	}
}

// Friendship describes the relationship between a viewer and a profile.
// The flags are derived from the relation sets, never stored.
type Friendship struct {
	Friends         bool `json:"friends"`
	Following       bool `json:"following"`
	RequestSent     bool `json:"request_sent"`
	RequestReceived bool `json:"request_received"`
}

// Contains reports whether id is a member of the given relation set.
func Contains(set []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, member := range set {
		if member == id {
			return true
		}
	}
	return false
}
