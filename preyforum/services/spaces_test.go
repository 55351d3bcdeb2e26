package services

import "testing"

func TestSpacesKeyFromURL(t *testing.T) {
	s := &SpacesService{bucket: "prey-media", region: "fra1", MediaRoot: "forum"}

	key := "forum/image/uid-1-1700000000-photo.png"
	url := s.PublicURL(key)

	got, ok := s.KeyFromURL(url)
	if !ok {
		t.Fatalf("KeyFromURL(%q) not recognized", url)
	}
	if got != key {
		t.Errorf("KeyFromURL(%q) = %q, want %q", url, got, key)
	}

	foreign := []string{
		"",
		"https://example.com/forum/image/photo.png",
		"https://other-bucket.fra1.digitaloceanspaces.com/forum/image/photo.png",
		"https://prey-media.fra1.digitaloceanspaces.com/",
	}
	for _, url := range foreign {
		if _, ok := s.KeyFromURL(url); ok {
			t.Errorf("KeyFromURL(%q) accepted a foreign URL", url)
		}
	}
}
