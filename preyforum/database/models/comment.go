package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:c"`

	ID     int64 `bun:"id,pk,autoincrement"`
	PostID int64 `bun:"post_id,notnull"`

	// Zero for top-level comments, otherwise the parent comment ID. Replies
	// nest one level only.
	ParentID int64 `bun:"parent_id,notnull,default:0"`

	Content string `bun:"content,notnull"`

	AuthorID     string `bun:"author_id,notnull"`
	AuthorName   string `bun:"author_name,notnull"`
	AuthorAvatar string `bun:"author_avatar"`

	LikedBy []string `bun:"liked_by,type:jsonb"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
