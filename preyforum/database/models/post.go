package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Post struct {
	bun.BaseModel `bun:"table:posts,alias:p"`

	ID         int64 `bun:"id,pk,autoincrement"`
	CategoryID int64 `bun:"category_id,notnull"`

	Title   string `bun:"title,notnull"`
	Content string `bun:"content,notnull"`

	// Author profile snapshot, denormalized at creation time so old posts
	// keep the byline they were written under.
	AuthorID        string `bun:"author_id,notnull"`
	AuthorName      string `bun:"author_name,notnull"`
	AuthorAvatar    string `bun:"author_avatar"`
	AuthorSignature string `bun:"author_signature"`

	MediaURLs []string `bun:"media_urls,type:jsonb"`
	LikedBy   []string `bun:"liked_by,type:jsonb"`

	CommentCount int64 `bun:"comment_count,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	// Relations
	Category *Category  `bun:"rel:belongs-to,join:category_id=id"`
	Comments []*Comment `bun:"rel:has-many,join:id=post_id"`
}
