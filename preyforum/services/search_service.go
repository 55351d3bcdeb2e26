package services

import (
	"context"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/preyforum/preyforum/preyforum/database/repositories"
)

const searchCandidateLimit = 500

type SearchResultKind string

const (
	SearchResultPost     SearchResultKind = "post"
	SearchResultCategory SearchResultKind = "category"
)

type SearchResult struct {
	Kind       SearchResultKind `json:"kind"`
	ID         int64            `json:"id"`
	Title      string           `json:"title"`
	CategoryID int64            `json:"category_id,omitempty"`
	Score      int              `json:"score"`
}

// searchItems implements fuzzy.Source over the candidate set.
type searchItems []SearchResult

func (s searchItems) String(i int) string { return strings.ToLower(s[i].Title) }
func (s searchItems) Len() int            { return len(s) }

// SearchService ranks posts and categories against a free-text query with
// fuzzy matching.
type SearchService struct {
	posts      repositories.PostRepository
	categories repositories.CategoryRepository
}

func NewSearchService(posts repositories.PostRepository, categories repositories.CategoryRepository) *SearchService {
	return &SearchService{posts: posts, categories: categories}
}

func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	if normalized == "" {
		return nil, nil
	}

	candidates, err := s.candidates(ctx)
	if err != nil {
		return nil, err
	}

	matches := fuzzy.FindFrom(normalized, candidates)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]SearchResult, 0, len(matches))
	for _, match := range matches {
		result := candidates[match.Index]
		result.Score = match.Score
		results = append(results, result)
	}
	return results, nil
}

func (s *SearchService) candidates(ctx context.Context) (searchItems, error) {
	var items searchItems

	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, category := range categories {
		items = append(items, SearchResult{
			Kind:  SearchResultCategory,
			ID:    category.ID,
			Title: category.Name,
		})
	}

	posts, err := s.posts.GetRecent(ctx, searchCandidateLimit)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		items = append(items, SearchResult{
			Kind:       SearchResultPost,
			ID:         post.ID,
			Title:      post.Title,
			CategoryID: post.CategoryID,
		})
	}

	return items, nil
}

var _ fuzzy.Source = searchItems(nil)
