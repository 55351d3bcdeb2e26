// converters.go
package migration

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/preyforum/preyforum/preyforum/database/models"
	"github.com/preyforum/preyforum/preyforum/progression"
)

// legacyRoleNames maps the old forum's spaced role labels onto the canonical
// role identifiers. Unknown labels pass through unchanged.
var legacyRoleNames = map[string]progression.Role{
	"new user":      progression.RoleNewUser,
	"newuser":       progression.RoleNewUser,
	"user":          progression.RoleUser,
	"moderator":     progression.RoleModerator,
	"teacher":       progression.RoleTeacher,
	"administrator": progression.RoleAdministrator,
	"admin":         progression.RoleAdministrator,
}

func normalizeRole(legacy string) string {
	if legacy == "" {
		return string(progression.RoleNewUser)
	}
	if role, ok := legacyRoleNames[strings.ToLower(strings.TrimSpace(legacy))]; ok {
		return string(role)
	}
	return strings.TrimSpace(legacy)
}

func (m *Migrator) convertUser(uid string, lu LegacyUser) *models.User {
	now := time.Now()

	username := cleanseString(lu.Profile.Username)
	if username == "" {
		username = uid
	}

	return &models.User{
		PreyUID:   uid,
		Username:  username,
		AvatarURL: lu.Profile.AvatarURL,
		Signature: cleanseString(lu.Profile.Signature),
		Role:      normalizeRole(lu.Profile.Role),
		Balance:   int64(lu.Balance),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (m *Migrator) convertCategory(legacyID string, lc LegacyCategory) *models.Category {
	now := time.Now()

	return &models.Category{
		LegacyID:    legacyID,
		Name:        cleanseString(lc.Name),
		Description: cleanseString(lc.Description),
		Type:        defaultString(lc.Type, "discussion"),
		IsUnique:    lc.IsUnique,
		TopicCount:  int64(lc.PostsCount),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (m *Migrator) convertPost(lp LegacyPost, categoryID int64) *models.Post {
	now := time.Now()

	return &models.Post{
		CategoryID:   categoryID,
		Title:        cleanseString(lp.Title),
		Content:      cleanseString(lp.Content),
		AuthorID:     lp.AuthorID,
		AuthorName:   cleanseString(lp.AuthorName),
		AuthorAvatar: lp.AuthorAvatar,
		MediaURLs:    lp.MediaURLs,
		LikedBy:      likedBy(lp.Likes),
		CommentCount: int64(len(lp.Comments)),
		CreatedAt:    parseLegacyTime(lp.CreatedAt, now),
		UpdatedAt:    now,
	}
}

func (m *Migrator) convertComment(lc LegacyComment, postID, parentID int64) *models.Comment {
	now := time.Now()

	return &models.Comment{
		PostID:       postID,
		ParentID:     parentID,
		Content:      cleanseString(lc.Content),
		AuthorID:     lc.AuthorID,
		AuthorName:   cleanseString(lc.AuthorName),
		AuthorAvatar: lc.AuthorAvatar,
		LikedBy:      likedBy(lc.Likes),
		CreatedAt:    parseLegacyTime(lc.CreatedAt, now),
		UpdatedAt:    now,
	}
}

// likedBy flattens the legacy likes map into the sorted-insertion slice the
// new schema stores.
func likedBy(likes map[string]bool) []string {
	if len(likes) == 0 {
		return nil
	}
	uids := make([]string, 0, len(likes))
	for uid, liked := range likes {
		if liked {
			uids = append(uids, uid)
		}
	}
	return uids
}

// parseLegacyTime handles the ISO strings the old client wrote. Anything
// unparseable falls back to the migration run time.
func parseLegacyTime(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02T15:04:05.000Z", value); err == nil {
		return t
	}
	return fallback
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// cleanseString strips invalid UTF-8 and NUL bytes that Postgres rejects.
func cleanseString(s string) string {
	if utf8.ValidString(s) && !strings.ContainsRune(s, 0) {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(strings.ToValidUTF8(strings.ReplaceAll(s, "\x00", ""), ""))
}
