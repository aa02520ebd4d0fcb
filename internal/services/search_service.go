package services

import (
	"context"
	"sort"
	"time"

	"github.com/Dastan2231/Social_Network/internal/models"
	"github.com/Dastan2231/Social_Network/pkg/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SearchUserStore is the persistence surface the search service needs.
type SearchUserStore interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	SearchUsers(ctx context.Context, term string) ([]models.User, error)
	TouchSearchEntry(ctx context.Context, userID, targetID primitive.ObjectID, at time.Time) error
	AppendSearchEntry(ctx context.Context, userID primitive.ObjectID, entry models.SearchEntry) error
	RemoveSearchEntry(ctx context.Context, userID, targetID primitive.ObjectID) error
}

// SearchService handles account search and the per-user search history.
type SearchService struct {
	users SearchUserStore
	now   func() time.Time
}

// NewSearchService creates a new SearchService.
func NewSearchService(users SearchUserStore) *SearchService {
	return &SearchService{
		users: users,
		now:   time.Now,
	}
}

// SearchAccounts runs a text search and returns public profiles.
func (s *SearchService) SearchAccounts(ctx context.Context, term string) ([]models.PublicUser, error) {
	if term == "" {
		return nil, apperr.Invalidf("missing search term")
	}

	users, err := s.users.SearchUsers(ctx, term)
	if err != nil {
		return nil, err
	}
	return toPublic(users), nil
}

// AddToSearchHistory records that the viewer looked up the target. A repeat
// search only refreshes the entry's timestamp; at most one entry per target
// exists.
func (s *SearchService) AddToSearchHistory(ctx context.Context, viewerID, targetID primitive.ObjectID) error {
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return err
	}

	for _, entry := range viewer.Search {
		if entry.User == targetID {
			return s.users.TouchSearchEntry(ctx, viewerID, targetID, s.now())
		}
	}

	if _, err := s.users.GetUserByID(ctx, targetID); err != nil {
		return err
	}

	return s.users.AppendSearchEntry(ctx, viewerID, models.SearchEntry{
		User:       targetID,
		SearchedAt: s.now(),
	})
}

// HistoryEntry is one resolved search history item.
type HistoryEntry struct {
	User       models.PublicUser `json:"user"`
	SearchedAt time.Time         `json:"searched_at"`
}

// GetSearchHistory returns the viewer's history, most recently touched
// first, with targets resolved to public profiles.
func (s *SearchService) GetSearchHistory(ctx context.Context, viewerID primitive.ObjectID) ([]HistoryEntry, error) {
	viewer, err := s.users.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	entries := append([]models.SearchEntry{}, viewer.Search...)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SearchedAt.After(entries[j].SearchedAt)
	})

	ids := make([]primitive.ObjectID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.User)
	}
	targets, err := s.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.PublicUser, len(targets))
	for _, target := range targets {
		byID[target.ID] = target.Public()
	}

	history := make([]HistoryEntry, 0, len(entries))
	for _, entry := range entries {
		public, ok := byID[entry.User]
		if !ok {
			// target account no longer resolvable, skip the entry
			continue
		}
		history = append(history, HistoryEntry{User: public, SearchedAt: entry.SearchedAt})
	}
	return history, nil
}

// RemoveFromSearchHistory deletes the entry for the target. Removing an
// absent entry is a no-op.
func (s *SearchService) RemoveFromSearchHistory(ctx context.Context, viewerID, targetID primitive.ObjectID) error {
	return s.users.RemoveSearchEntry(ctx, viewerID, targetID)
}
