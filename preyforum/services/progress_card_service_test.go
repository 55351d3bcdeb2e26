package services

import "testing"

func TestAvatarLetter(t *testing.T) {
	tests := []struct {
		username string
		want     string
	}{
		{"olga", "O"},
		{"Ольга", "О"},
		{"йцукен", "Й"},
		{"7cats", "7"},
		{"", "?"},
		{"\xff\xfe", "?"},
	}
	for _, tt := range tests {
		if got := avatarLetter(tt.username); got != tt.want {
			t.Errorf("avatarLetter(%q) = %q, want %q", tt.username, got, tt.want)
		}
	}
}
