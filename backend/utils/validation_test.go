package utils

import (
	"strings"
	"testing"

	"github.com/preyforum/preyforum/backend/models"
)

func TestValidatePostCreateRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        models.PostCreateRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  models.PostCreateRequest{Title: "Hello", Content: "World"},
		},
		{
			name:       "missing title",
			req:        models.PostCreateRequest{Content: "World"},
			wantFields: []string{"title"},
		},
		{
			name:       "whitespace only",
			req:        models.PostCreateRequest{Title: "   ", Content: "  "},
			wantFields: []string{"title", "content"},
		},
		{
			name:       "title too long",
			req:        models.PostCreateRequest{Title: strings.Repeat("x", MaxTitleLength+1), Content: "ok"},
			wantFields: []string{"title"},
		},
		{
			name: "too many attachments",
			req: models.PostCreateRequest{
				Title: "Hello", Content: "World",
				MediaURLs: make([]string, MaxMediaPerPost+1),
			},
			wantFields: []string{"media_urls"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidatePostCreateRequest(&tt.req)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %d errors %v, want %d", len(errs), errs, len(tt.wantFields))
			}
			for i, field := range tt.wantFields {
				if errs[i].Field != field {
					t.Errorf("error %d field = %q, want %q", i, errs[i].Field, field)
				}
			}
		})
	}
}

func TestValidateSessionCreateRequest(t *testing.T) {
	valid := models.SessionCreateRequest{PreyUID: "firebase:abc-123", Username: "olga"}
	if errs := ValidateSessionCreateRequest(&valid); len(errs) != 0 {
		t.Errorf("valid request rejected: %v", errs)
	}

	bad := models.SessionCreateRequest{PreyUID: "uid with spaces", Username: "olga"}
	if errs := ValidateSessionCreateRequest(&bad); len(errs) == 0 {
		t.Error("uid with spaces accepted")
	}

	empty := models.SessionCreateRequest{}
	if errs := ValidateSessionCreateRequest(&empty); len(errs) != 2 {
		t.Errorf("empty request produced %d errors, want 2", len(errs))
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"photo.png", "photo.png"},
		{"../../etc/passwd", "____etc_passwd"},
		{"my file (1).png", "my_file__1_.png"},
		{"путь.png", "____.png"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
