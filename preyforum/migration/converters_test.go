package migration

import (
	"sort"
	"testing"
	"time"

	"github.com/preyforum/preyforum/preyforum/progression"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		legacy string
		want   string
	}{
		{"New User", "NewUser"},
		{"new user", "NewUser"},
		{"User", "User"},
		{"Moderator", "Moderator"},
		{"Teacher", "Teacher"},
		{"Administrator", "Administrator"},
		{"admin", "Administrator"},
		{"", "NewUser"},
		{"  Teacher  ", "Teacher"},
		{"Architect", "Architect"},
	}
	for _, tt := range tests {
		if got := normalizeRole(tt.legacy); got != tt.want {
			t.Errorf("normalizeRole(%q) = %q, want %q", tt.legacy, got, tt.want)
		}
	}
}

func TestConvertUser(t *testing.T) {
	m := NewMigrator(nil, "")

	user := m.convertUser("uid-1", LegacyUser{
		Profile: LegacyProfile{
			Username:  "  Ольга  ",
			AvatarURL: "/image/a.png",
			Signature: "Участник форума",
			Role:      "New User",
		},
		Balance: 205,
	})

	if user.PreyUID != "uid-1" {
		t.Errorf("PreyUID = %q", user.PreyUID)
	}
	if user.Username != "Ольга" {
		t.Errorf("Username = %q, want trimmed", user.Username)
	}
	if user.Role != string(progression.RoleNewUser) {
		t.Errorf("Role = %q", user.Role)
	}
	if user.Balance != 205 {
		t.Errorf("Balance = %d, want 205", user.Balance)
	}
}

func TestConvertUser_EmptyUsernameFallsBackToUID(t *testing.T) {
	m := NewMigrator(nil, "")
	user := m.convertUser("uid-9", LegacyUser{})
	if user.Username != "uid-9" {
		t.Errorf("Username = %q, want uid-9", user.Username)
	}
}

func TestConvertPost(t *testing.T) {
	m := NewMigrator(nil, "")

	post := m.convertPost(LegacyPost{
		Title:      "Первый пост",
		Content:    "Содержимое",
		AuthorID:   "uid-1",
		AuthorName: "Ольга",
		CreatedAt:  "2023-06-01T12:30:00.000Z",
		Likes:      map[string]bool{"uid-2": true, "uid-3": false, "uid-4": true},
		Comments:   map[string]LegacyComment{"c1": {}, "c2": {}},
	}, 7)

	if post.CategoryID != 7 {
		t.Errorf("CategoryID = %d", post.CategoryID)
	}
	if post.CommentCount != 2 {
		t.Errorf("CommentCount = %d, want 2", post.CommentCount)
	}

	want := time.Date(2023, 6, 1, 12, 30, 0, 0, time.UTC)
	if !post.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", post.CreatedAt, want)
	}

	sort.Strings(post.LikedBy)
	if len(post.LikedBy) != 2 || post.LikedBy[0] != "uid-2" || post.LikedBy[1] != "uid-4" {
		t.Errorf("LikedBy = %v, want liked uids only", post.LikedBy)
	}
}

func TestParseLegacyTime_Fallback(t *testing.T) {
	fallback := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, input := range []string{"", "yesterday", "2023-13-45"} {
		if got := parseLegacyTime(input, fallback); !got.Equal(fallback) {
			t.Errorf("parseLegacyTime(%q) = %v, want fallback", input, got)
		}
	}

	if got := parseLegacyTime("2023-06-01T12:30:00Z", fallback); got.Equal(fallback) {
		t.Error("parseLegacyTime rejected a valid RFC3339 stamp")
	}
}

func TestCleanseString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello", "hello"},
		{"trims", "  hello  ", "hello"},
		{"nul bytes", "he\x00llo", "hello"},
		{"invalid utf8", "ok\xff", "ok"},
		{"cyrillic kept", "Привет", "Привет"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanseString(tt.input); got != tt.want {
				t.Errorf("cleanseString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
