package models

import (
	"time"

	dbmodels "github.com/preyforum/preyforum/preyforum/database/models"
)

// UserSession is the authenticated identity carried by the session cookie.
type UserSession struct {
	PreyUID   string    `json:"prey_uid"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	IsAdmin   bool      `json:"is_admin"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionCreateRequest mints a session for an identity already verified by
// the external provider.
type SessionCreateRequest struct {
	PreyUID  string `json:"prey_uid"`
	Username string `json:"username"`
}

type PostCreateRequest struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	MediaURLs []string `json:"media_urls,omitempty"`
}

type CommentCreateRequest struct {
	Content  string `json:"content"`
	ParentID int64  `json:"parent_id,omitempty"`
}

type ProfileUpdateRequest struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Signature string `json:"signature"`
}

// PostDTO is the wire shape of a post.
type PostDTO struct {
	ID              int64     `json:"id"`
	CategoryID      int64     `json:"category_id"`
	Title           string    `json:"title"`
	Content         string    `json:"content"`
	AuthorID        string    `json:"author_id"`
	AuthorName      string    `json:"author_name"`
	AuthorAvatar    string    `json:"author_avatar,omitempty"`
	AuthorSignature string    `json:"author_signature,omitempty"`
	MediaURLs       []string  `json:"media_urls,omitempty"`
	LikeCount       int       `json:"like_count"`
	Liked           bool      `json:"liked"`
	CommentCount    int64     `json:"comment_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// CommentDTO nests one level of replies.
type CommentDTO struct {
	ID           int64         `json:"id"`
	PostID       int64         `json:"post_id"`
	Content      string        `json:"content"`
	AuthorID     string        `json:"author_id"`
	AuthorName   string        `json:"author_name"`
	AuthorAvatar string        `json:"author_avatar,omitempty"`
	LikeCount    int           `json:"like_count"`
	Liked        bool          `json:"liked"`
	CreatedAt    time.Time     `json:"created_at"`
	Replies      []*CommentDTO `json:"replies,omitempty"`
}

type CategoryDTO struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	IsUnique    bool   `json:"is_unique"`
	TopicCount  int64  `json:"topic_count"`
}

type ProfileDTO struct {
	PreyUID   string `json:"prey_uid"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Signature string `json:"signature,omitempty"`
	Role      string `json:"role"`
	Balance   int64  `json:"balance"`
	PostCount int64  `json:"post_count"`
}

type UploadResult struct {
	URL         string `json:"url"`
	Kind        string `json:"kind"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

func NewPostDTO(post *dbmodels.Post, viewerID string) *PostDTO {
	dto := &PostDTO{
		ID:              post.ID,
		CategoryID:      post.CategoryID,
		Title:           post.Title,
		Content:         post.Content,
		AuthorID:        post.AuthorID,
		AuthorName:      post.AuthorName,
		AuthorAvatar:    post.AuthorAvatar,
		AuthorSignature: post.AuthorSignature,
		MediaURLs:       post.MediaURLs,
		LikeCount:       len(post.LikedBy),
		CommentCount:    post.CommentCount,
		CreatedAt:       post.CreatedAt,
	}
	for _, uid := range post.LikedBy {
		if uid == viewerID {
			dto.Liked = true
			break
		}
	}
	return dto
}

func NewCommentDTO(comment *dbmodels.Comment, viewerID string) *CommentDTO {
	dto := &CommentDTO{
		ID:           comment.ID,
		PostID:       comment.PostID,
		Content:      comment.Content,
		AuthorID:     comment.AuthorID,
		AuthorName:   comment.AuthorName,
		AuthorAvatar: comment.AuthorAvatar,
		LikeCount:    len(comment.LikedBy),
		CreatedAt:    comment.CreatedAt,
	}
	for _, uid := range comment.LikedBy {
		if uid == viewerID {
			dto.Liked = true
			break
		}
	}
	return dto
}

func NewCategoryDTO(category *dbmodels.Category) *CategoryDTO {
	return &CategoryDTO{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Type:        category.Type,
		IsUnique:    category.IsUnique,
		TopicCount:  category.TopicCount,
	}
}

func NewProfileDTO(user *dbmodels.User) *ProfileDTO {
	return &ProfileDTO{
		PreyUID:   user.PreyUID,
		Username:  user.Username,
		AvatarURL: user.AvatarURL,
		Signature: user.Signature,
		Role:      user.Role,
		Balance:   user.Balance,
		PostCount: user.PostCount,
	}
}

// AssembleCommentTree arranges flat comments into top-level comments with one
// level of replies, preserving creation order.
func AssembleCommentTree(comments []*dbmodels.Comment, viewerID string) []*CommentDTO {
	byID := make(map[int64]*CommentDTO, len(comments))
	var roots []*CommentDTO

	for _, comment := range comments {
		if comment.ParentID == 0 {
			dto := NewCommentDTO(comment, viewerID)
			byID[comment.ID] = dto
			roots = append(roots, dto)
		}
	}
	for _, comment := range comments {
		if comment.ParentID == 0 {
			continue
		}
		if parent, ok := byID[comment.ParentID]; ok {
			parent.Replies = append(parent.Replies, NewCommentDTO(comment, viewerID))
		}
	}
	return roots
}
