package repositories

import (
	"context"
	"time"

	"github.com/preyforum/preyforum/preyforum/database/models"
	"github.com/uptrace/bun"
)

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	GetByCategory(ctx context.Context, categoryID int64, offset, limit int) ([]*models.Post, int, error)
	GetRecent(ctx context.Context, limit int) ([]*models.Post, error)
	ToggleLike(ctx context.Context, postID int64, userID string) (bool, error)
	IncrementCommentCount(ctx context.Context, postID int64) error
	Delete(ctx context.Context, id int64) error
}

type postRepository struct {
	db *bun.DB
}

func NewPostRepository(db *bun.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	if post.LikedBy == nil {
		post.LikedBy = []string{}
	}
	if post.MediaURLs == nil {
		post.MediaURLs = []string{}
	}
	_, err := r.db.NewInsert().Model(post).Exec(ctx)
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	post := new(models.Post)
	err := r.db.NewSelect().
		Model(post).
		Relation("Category").
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepository) GetByCategory(ctx context.Context, categoryID int64, offset, limit int) ([]*models.Post, int, error) {
	var posts []*models.Post
	count, err := r.db.NewSelect().
		Model(&posts).
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return posts, count, nil
}

func (r *postRepository) GetRecent(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.NewSelect().
		Model(&posts).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)
	return posts, err
}

// ToggleLike adds or removes the user from the post's liked_by set and
// reports whether the post is liked afterwards. The update runs entirely in
// SQL so concurrent toggles do not clobber each other.
func (r *postRepository) ToggleLike(ctx context.Context, postID int64, userID string) (bool, error) {
	var liked bool
	err := r.db.NewRaw(
		`UPDATE posts
		 SET liked_by = CASE
		     WHEN liked_by @> to_jsonb(ARRAY[?]::text[])
		     THEN liked_by - ?
		     ELSE liked_by || to_jsonb(ARRAY[?]::text[])
		 END,
		 updated_at = now()
		 WHERE id = ?
		 RETURNING liked_by @> to_jsonb(ARRAY[?]::text[])`,
		userID, userID, userID, postID, userID,
	).Scan(ctx, &liked)
	if err != nil {
		return false, err
	}
	return liked, nil
}

func (r *postRepository) IncrementCommentCount(ctx context.Context, postID int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.Post)(nil)).
		Set("comment_count = comment_count + 1").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", postID).
		Exec(ctx)
	return err
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*models.Post)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
