package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/preyforum/preyforum/preyforum/database/models"
	"github.com/preyforum/preyforum/preyforum/database/repositories/mock"
)

func searchFixture(t *testing.T) *SearchService {
	ctrl := gomock.NewController(t)

	categories := mock.NewMockCategoryRepository(ctrl)
	categories.EXPECT().
		GetAll(gomock.Any()).
		Return([]*models.Category{
			{ID: 1, Name: "General Discussion"},
			{ID: 2, Name: "Music Production"},
		}, nil).
		AnyTimes()

	posts := mock.NewMockPostRepository(ctrl)
	posts.EXPECT().
		GetRecent(gomock.Any(), searchCandidateLimit).
		Return([]*models.Post{
			{ID: 10, CategoryID: 1, Title: "Generative music tools"},
			{ID: 11, CategoryID: 2, Title: "Mixing vocals at home"},
			{ID: 12, CategoryID: 1, Title: "Weekly check-in"},
		}, nil).
		AnyTimes()

	return NewSearchService(posts, categories)
}

func TestSearch_MatchesPostsAndCategories(t *testing.T) {
	s := searchFixture(t)

	results, err := s.Search(context.Background(), "music", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Search() returned no results")
	}

	var sawCategory, sawPost bool
	for _, result := range results {
		switch result.Kind {
		case SearchResultCategory:
			if result.ID == 2 {
				sawCategory = true
			}
		case SearchResultPost:
			if result.ID == 10 {
				sawPost = true
			}
		}
	}
	if !sawCategory {
		t.Error("expected Music Production category in results")
	}
	if !sawPost {
		t.Error("expected Generative music tools post in results")
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	s := searchFixture(t)

	lower, err := s.Search(context.Background(), "vocals", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	upper, err := s.Search(context.Background(), "VOCALS", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(lower) != len(upper) {
		t.Errorf("case sensitivity: lower=%d upper=%d results", len(lower), len(upper))
	}
}

func TestSearch_LimitRespected(t *testing.T) {
	s := searchFixture(t)

	results, err := s.Search(context.Background(), "i", 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) > 2 {
		t.Errorf("Search() returned %d results, limit 2", len(results))
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	s := searchFixture(t)

	results, err := s.Search(context.Background(), "   ", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results != nil {
		t.Errorf("Search() on empty query = %v, want nil", results)
	}
}

func TestSearch_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)

	wantErr := errors.New("db down")
	categories := mock.NewMockCategoryRepository(ctrl)
	categories.EXPECT().GetAll(gomock.Any()).Return(nil, wantErr)

	posts := mock.NewMockPostRepository(ctrl)

	s := NewSearchService(posts, categories)
	if _, err := s.Search(context.Background(), "anything", 10); !errors.Is(err, wantErr) {
		t.Errorf("Search() error = %v, want %v", err, wantErr)
	}
}
