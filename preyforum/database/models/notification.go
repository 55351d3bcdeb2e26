package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

const (
	NotificationKindRoleChanged = "role_changed"
)

type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID     int64  `bun:"id,pk,autoincrement"`
	UserID string `bun:"user_id,notnull"`
	Kind   string `bun:"kind,notnull"`

	Title   string          `bun:"title,notnull"`
	Body    string          `bun:"body"`
	Payload json.RawMessage `bun:"payload,type:jsonb"`

	Read bool `bun:"read,notnull,default:false"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
