package models

import (
	"time"

	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID      int64  `bun:"id,pk,autoincrement"`
	PreyUID string `bun:"prey_uid,notnull,unique"`

	Username  string `bun:"username,notnull"`
	Email     string `bun:"email"`
	AvatarURL string `bun:"avatar_url"`
	Signature string `bun:"signature"`
	Verified  bool   `bun:"verified,notnull,default:false"`

	// Progression state. Balance only moves through conditional increments;
	// role is written by the progression engine.
	Role    string `bun:"role,notnull,default:'NewUser'"`
	Balance int64  `bun:"balance,notnull,default:0"`

	PostCount int64 `bun:"post_count,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
