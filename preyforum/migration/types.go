// types.go
package migration

import (
	"sync"
	"time"
)

// LegacyExport mirrors the realtime-database JSON dump of the old forum.
// Every node is a map keyed by the push ID Firebase generated for it.
type LegacyExport struct {
	Users      map[string]LegacyUser     `json:"users"`
	Categories map[string]LegacyCategory `json:"categories"`
	Posts      map[string]LegacyPost     `json:"posts"`
}

// LegacyProfile is the nested profile node of a legacy user.
type LegacyProfile struct {
	Username  string `json:"username" bson:"username"`
	AvatarURL string `json:"avatarUrl" bson:"avatarUrl"`
	Signature string `json:"signature" bson:"signature"`
	Role      string `json:"role" bson:"role"`
}

// LegacyUser is one users/{uid} node.
type LegacyUser struct {
	UID     string        `json:"uid" bson:"uid"`
	Profile LegacyProfile `json:"profile" bson:"profile"`
	Balance float64       `json:"balance" bson:"balance"`
	Status  string        `json:"status" bson:"status"`
}

// LegacyCategory is one categories/{id} node. Posts under the category are
// duplicated from the root posts node and skipped here.
type LegacyCategory struct {
	ID           string  `json:"id" bson:"id"`
	Name         string  `json:"name" bson:"name"`
	Description  string  `json:"description" bson:"description"`
	Type         string  `json:"type" bson:"type"`
	IsUnique     bool    `json:"isUnique" bson:"isUnique"`
	PostsCount   float64 `json:"postsCount" bson:"postsCount"`
	LastActivity float64 `json:"lastActivity" bson:"lastActivity"`
}

// LegacyPost is one posts/{id} node, comments nested inline.
type LegacyPost struct {
	ID           string                   `json:"id" bson:"id"`
	Title        string                   `json:"title" bson:"title"`
	Content      string                   `json:"content" bson:"content"`
	AuthorID     string                   `json:"authorId" bson:"authorId"`
	AuthorName   string                   `json:"authorName" bson:"authorName"`
	AuthorAvatar string                   `json:"authorAvatar" bson:"authorAvatar"`
	CategoryID   string                   `json:"categoryId" bson:"categoryId"`
	CreatedAt    string                   `json:"createdAt" bson:"createdAt"`
	LikesCount   float64                  `json:"likesCount" bson:"likesCount"`
	Views        float64                  `json:"views" bson:"views"`
	Likes        map[string]bool          `json:"likes" bson:"likes"`
	MediaURLs    []string                 `json:"mediaUrls" bson:"mediaUrls"`
	Comments     map[string]LegacyComment `json:"comments" bson:"comments"`
}

// LegacyComment is one comment node under a post.
type LegacyComment struct {
	ID           string          `json:"id" bson:"id"`
	Content      string          `json:"content" bson:"content"`
	AuthorID     string          `json:"authorId" bson:"authorId"`
	AuthorName   string          `json:"authorName" bson:"authorName"`
	AuthorAvatar string          `json:"authorAvatar" bson:"authorAvatar"`
	ParentID     string          `json:"parentId" bson:"parentId"`
	CreatedAt    string          `json:"createdAt" bson:"createdAt"`
	Likes        map[string]bool `json:"likes" bson:"likes"`
}

// TableStats tracks per-table migration progress
type TableStats struct {
	Read     int
	Written  int
	Skipped  int
	Failed   int
	Duration time.Duration
}

// MigrationStats tracks overall migration statistics. The users and
// categories passes run concurrently, so handing out table entries must be
// serialized; each pass then owns its entry exclusively.
type MigrationStats struct {
	mu        sync.Mutex
	Tables    map[string]*TableStats
	StartTime time.Time
}

func (s *MigrationStats) table(name string) *TableStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Tables[name] == nil {
		s.Tables[name] = &TableStats{}
	}
	return s.Tables[name]
}
