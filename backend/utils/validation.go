package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/preyforum/preyforum/backend/models"
)

const (
	MaxTitleLength     = 200
	MaxContentLength   = 20000
	MaxCommentLength   = 5000
	MaxUsernameLength  = 32
	MaxSignatureLength = 500
	MaxMediaPerPost    = 10
)

var (
	// ValidUsernameRegex validates display names
	ValidUsernameRegex = regexp.MustCompile(`^[\p{L}\p{N}\s\-_.]+$`)

	// ValidPreyUIDRegex validates external account identifiers
	ValidPreyUIDRegex = regexp.MustCompile(`^[a-zA-Z0-9\-_:]+$`)
)

// ValidatePostCreateRequest validates a post creation request
func ValidatePostCreateRequest(req *models.PostCreateRequest) []models.ValidationError {
	var errors []models.ValidationError

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errors = append(errors, models.ValidationError{
			Field:   "title",
			Message: "Title is required",
		})
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		errors = append(errors, models.ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("Title must be at most %d characters", MaxTitleLength),
		})
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		errors = append(errors, models.ValidationError{
			Field:   "content",
			Message: "Content is required",
		})
	} else if utf8.RuneCountInString(content) > MaxContentLength {
		errors = append(errors, models.ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("Content must be at most %d characters", MaxContentLength),
		})
	}

	if len(req.MediaURLs) > MaxMediaPerPost {
		errors = append(errors, models.ValidationError{
			Field:   "media_urls",
			Message: fmt.Sprintf("At most %d media attachments allowed", MaxMediaPerPost),
		})
	}

	return errors
}

// ValidateCommentCreateRequest validates a comment creation request
func ValidateCommentCreateRequest(req *models.CommentCreateRequest) []models.ValidationError {
	var errors []models.ValidationError

	content := strings.TrimSpace(req.Content)
	if content == "" {
		errors = append(errors, models.ValidationError{
			Field:   "content",
			Message: "Content is required",
		})
	} else if utf8.RuneCountInString(content) > MaxCommentLength {
		errors = append(errors, models.ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("Content must be at most %d characters", MaxCommentLength),
		})
	}

	if req.ParentID < 0 {
		errors = append(errors, models.ValidationError{
			Field:   "parent_id",
			Message: "Parent ID must be a valid comment ID",
		})
	}

	return errors
}

// ValidateSessionCreateRequest validates a session creation request
func ValidateSessionCreateRequest(req *models.SessionCreateRequest) []models.ValidationError {
	var errors []models.ValidationError

	if req.PreyUID == "" {
		errors = append(errors, models.ValidationError{
			Field:   "prey_uid",
			Message: "User ID is required",
		})
	} else if !ValidPreyUIDRegex.MatchString(req.PreyUID) {
		errors = append(errors, models.ValidationError{
			Field:   "prey_uid",
			Message: "User ID contains invalid characters",
		})
	}

	if req.Username == "" {
		errors = append(errors, models.ValidationError{
			Field:   "username",
			Message: "Username is required",
		})
	} else if utf8.RuneCountInString(req.Username) > MaxUsernameLength {
		errors = append(errors, models.ValidationError{
			Field:   "username",
			Message: fmt.Sprintf("Username must be at most %d characters", MaxUsernameLength),
		})
	}

	return errors
}

// ValidateProfileUpdateRequest validates a profile update request
func ValidateProfileUpdateRequest(req *models.ProfileUpdateRequest) []models.ValidationError {
	var errors []models.ValidationError

	if req.Username != "" {
		if utf8.RuneCountInString(req.Username) > MaxUsernameLength {
			errors = append(errors, models.ValidationError{
				Field:   "username",
				Message: fmt.Sprintf("Username must be at most %d characters", MaxUsernameLength),
			})
		} else if !ValidUsernameRegex.MatchString(req.Username) {
			errors = append(errors, models.ValidationError{
				Field:   "username",
				Message: "Username contains invalid characters",
			})
		}
	}

	if utf8.RuneCountInString(req.Signature) > MaxSignatureLength {
		errors = append(errors, models.ValidationError{
			Field:   "signature",
			Message: fmt.Sprintf("Signature must be at most %d characters", MaxSignatureLength),
		})
	}

	return errors
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	filename = strings.ReplaceAll(filename, " ", "_")

	reg := regexp.MustCompile(`[^a-zA-Z0-9.\-_]`)
	return reg.ReplaceAllString(filename, "_")
}
