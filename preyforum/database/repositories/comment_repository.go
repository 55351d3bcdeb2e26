package repositories

import (
	"context"
	"time"

	"github.com/preyforum/preyforum/preyforum/database/models"
	"github.com/uptrace/bun"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	GetByPost(ctx context.Context, postID int64) ([]*models.Comment, error)
	ToggleLike(ctx context.Context, commentID int64, userID string) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type commentRepository struct {
	db *bun.DB
}

func NewCommentRepository(db *bun.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = time.Now()
	if comment.LikedBy == nil {
		comment.LikedBy = []string{}
	}
	_, err := r.db.NewInsert().Model(comment).Exec(ctx)
	return err
}

func (r *commentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	comment := new(models.Comment)
	err := r.db.NewSelect().
		Model(comment).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// GetByPost returns all comments for a post in creation order; callers
// assemble the one-level reply tree from ParentID.
func (r *commentRepository) GetByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.NewSelect().
		Model(&comments).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Scan(ctx)
	return comments, err
}

func (r *commentRepository) ToggleLike(ctx context.Context, commentID int64, userID string) (bool, error) {
	var liked bool
	err := r.db.NewRaw(
		`UPDATE comments
		 SET liked_by = CASE
		     WHEN liked_by @> to_jsonb(ARRAY[?]::text[])
		     THEN liked_by - ?
		     ELSE liked_by || to_jsonb(ARRAY[?]::text[])
		 END,
		 updated_at = now()
		 WHERE id = ?
		 RETURNING liked_by @> to_jsonb(ARRAY[?]::text[])`,
		userID, userID, userID, commentID, userID,
	).Scan(ctx, &liked)
	if err != nil {
		return false, err
	}
	return liked, nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*models.Comment)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}
