package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID          int64  `bun:"id,pk,autoincrement"`
	LegacyID    string `bun:"legacy_id,unique"`
	Name        string `bun:"name,notnull"`
	Description string `bun:"description"`
	Type        string `bun:"type,notnull,default:'discussion'"`

	// Unique categories pay the premium reward rate.
	IsUnique bool `bun:"is_unique,notnull,default:false"`

	TopicCount int64 `bun:"topic_count,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	// Relations
	Posts []*Post `bun:"rel:has-many,join:id=category_id"`
}
