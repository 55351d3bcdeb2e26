package models

import (
	"testing"

	dbmodels "github.com/preyforum/preyforum/preyforum/database/models"
)

func TestAssembleCommentTree(t *testing.T) {
	comments := []*dbmodels.Comment{
		{ID: 1, PostID: 5, Content: "top one"},
		{ID: 2, PostID: 5, Content: "top two"},
		{ID: 3, PostID: 5, ParentID: 1, Content: "reply to one"},
		{ID: 4, PostID: 5, ParentID: 1, Content: "second reply to one"},
		{ID: 5, PostID: 5, ParentID: 99, Content: "orphan"},
	}

	tree := AssembleCommentTree(comments, "")

	if len(tree) != 2 {
		t.Fatalf("got %d roots, want 2", len(tree))
	}
	if tree[0].ID != 1 || tree[1].ID != 2 {
		t.Errorf("root order = %d, %d", tree[0].ID, tree[1].ID)
	}
	if len(tree[0].Replies) != 2 {
		t.Fatalf("comment 1 has %d replies, want 2", len(tree[0].Replies))
	}
	if tree[0].Replies[0].ID != 3 || tree[0].Replies[1].ID != 4 {
		t.Errorf("reply order = %d, %d", tree[0].Replies[0].ID, tree[0].Replies[1].ID)
	}
	if len(tree[1].Replies) != 0 {
		t.Errorf("comment 2 has %d replies, want 0", len(tree[1].Replies))
	}
}

func TestNewPostDTO_ViewerLike(t *testing.T) {
	post := &dbmodels.Post{
		ID:      1,
		LikedBy: []string{"uid-a", "uid-b"},
	}

	if dto := NewPostDTO(post, "uid-a"); !dto.Liked {
		t.Error("viewer uid-a should see Liked = true")
	}
	if dto := NewPostDTO(post, "uid-z"); dto.Liked {
		t.Error("viewer uid-z should see Liked = false")
	}
	if dto := NewPostDTO(post, ""); dto.Liked {
		t.Error("guest should see Liked = false")
	}
	if dto := NewPostDTO(post, "uid-a"); dto.LikeCount != 2 {
		t.Errorf("LikeCount = %d, want 2", dto.LikeCount)
	}
}

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		wantPages  int
		wantHasNxt bool
		wantHasPrv bool
	}{
		{"first of many", 1, 10, 45, 5, true, false},
		{"middle", 3, 10, 45, 5, true, true},
		{"last", 5, 10, 45, 5, false, true},
		{"exact fit", 2, 10, 20, 2, false, true},
		{"empty", 1, 10, 0, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPaginationInfo(tt.page, tt.limit, tt.total)
			if info.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", info.TotalPages, tt.wantPages)
			}
			if info.HasNext != tt.wantHasNxt {
				t.Errorf("HasNext = %v, want %v", info.HasNext, tt.wantHasNxt)
			}
			if info.HasPrev != tt.wantHasPrv {
				t.Errorf("HasPrev = %v, want %v", info.HasPrev, tt.wantHasPrv)
			}
		})
	}
}
