// Package store holds the in-memory caches of fetched domain entities. Each
// store is an explicitly constructed, dependency-injected object; views read
// snapshots, load and mutation operations keep the cache consistent with the
// last server-confirmed state.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kickoffhq/kickoff-client/internal/api"
	"github.com/kickoffhq/kickoff-client/internal/domain"
)

// PostStore caches recruit posts in per-category partitions. The flat list
// exposed by Posts is always the union of the partitions in canonical
// category order, so the two views cannot drift apart.
type PostStore struct {
	recruit *api.RecruitAPI
	logger  *zap.Logger

	mu         sync.RWMutex
	byCategory map[domain.RecruitCategory][]domain.RecruitPost
}

// NewPostStore creates an empty post store.
func NewPostStore(recruit *api.RecruitAPI, logger *zap.Logger) *PostStore {
	return &PostStore{
		recruit:    recruit,
		logger:     logger,
		byCategory: make(map[domain.RecruitCategory][]domain.RecruitPost),
	}
}

// Load fetches one category page and replaces that category's partition with
// whatever arrives; concurrent loads of different categories resolve
// independently, last writer wins per category. A fetch failure resets the
// partition to empty rather than leaving stale data visible; the failure is
// logged, not surfaced to the view.
func (s *PostStore) Load(ctx context.Context, category domain.RecruitCategory, page, size int) {
	posts, err := s.recruit.ListPosts(ctx, category, page, size)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("failed to load recruit posts",
			zap.String("category", string(category)),
			zap.Error(err),
		)
		s.byCategory[category] = nil
		return
	}
	s.byCategory[category] = posts
}

// Add prepends a freshly created post to its category partition. The
// creation round-trip happens elsewhere; the store only caches the already
// created entity.
func (s *PostStore) Add(post domain.RecruitPost) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byCategory[post.Category] = append([]domain.RecruitPost{post}, s.byCategory[post.Category]...)
}

// Remove drops a post from every partition. No server round-trip happens
// here.
func (s *PostStore) Remove(postID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for category, posts := range s.byCategory {
		filtered := posts[:0:0]
		for _, p := range posts {
			if p.ID != postID {
				filtered = append(filtered, p)
			}
		}
		s.byCategory[category] = filtered
	}
}

// Posts returns the flat list: the union of every partition in canonical
// category order, unknown categories last.
func (s *PostStore) Posts() []domain.RecruitPost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []domain.RecruitPost
	seen := make(map[domain.RecruitCategory]bool, len(domain.Categories))
	for _, category := range domain.Categories {
		all = append(all, s.byCategory[category]...)
		seen[category] = true
	}
	for category, posts := range s.byCategory {
		if !seen[category] {
			all = append(all, posts...)
		}
	}
	return all
}

// PostsByCategory returns a copy of one category's partition.
func (s *PostStore) PostsByCategory(category domain.RecruitCategory) []domain.RecruitPost {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := s.byCategory[category]
	out := make([]domain.RecruitPost, len(posts))
	copy(out, posts)
	return out
}
