package models

import (
	"github.com/preyforum/preyforum/preyforum/database/repositories"
)

// Repositories bundles every repository the web layer needs.
type Repositories struct {
	User         repositories.UserRepository
	Category     repositories.CategoryRepository
	Post         repositories.PostRepository
	Comment      repositories.CommentRepository
	Notification repositories.NotificationRepository
}

func NewRepositories(
	user repositories.UserRepository,
	category repositories.CategoryRepository,
	post repositories.PostRepository,
	comment repositories.CommentRepository,
	notification repositories.NotificationRepository,
) *Repositories {
	return &Repositories{
		User:         user,
		Category:     category,
		Post:         post,
		Comment:      comment,
		Notification: notification,
	}
}
