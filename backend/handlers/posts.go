package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/models"
	"github.com/preyforum/preyforum/backend/utils"
	appconfig "github.com/preyforum/preyforum/preyforum/config"
	dbmodels "github.com/preyforum/preyforum/preyforum/database/models"
)

// HandleListCategoryPosts returns a page of posts in a category.
func (w *WebApp) HandleListCategoryPosts(c *fiber.Ctx) error {
	categoryID, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid category ID", nil)
	}

	page, limit := parsePagination(c)

	ctx, cancel := queryContext(c)
	defer cancel()

	posts, total, err := w.Repos.Post.GetByCategory(ctx, categoryID, (page-1)*limit, limit)
	if err != nil {
		slog.Error("Failed to list posts",
			slog.Int64("category_id", categoryID),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to list posts")
	}

	viewerID := viewerUID(c)
	dtos := make([]*models.PostDTO, 0, len(posts))
	for _, post := range posts {
		dtos = append(dtos, models.NewPostDTO(post, viewerID))
	}

	pagination := models.NewPaginationInfo(page, limit, int64(total))
	return utils.SendPaginated(c, dtos, pagination, "")
}

// HandleRecentPosts returns the newest posts across all categories.
func (w *WebApp) HandleRecentPosts(c *fiber.Ctx) error {
	ctx, cancel := queryContext(c)
	defer cancel()

	posts, err := w.Repos.Post.GetRecent(ctx, appconfig.RecentPostsLimit)
	if err != nil {
		slog.Error("Failed to list recent posts", slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to list recent posts")
	}

	viewerID := viewerUID(c)
	dtos := make([]*models.PostDTO, 0, len(posts))
	for _, post := range posts {
		dtos = append(dtos, models.NewPostDTO(post, viewerID))
	}

	return utils.SendSuccess(c, dtos, "")
}

// HandleGetPost returns a post with its comment tree.
func (w *WebApp) HandleGetPost(c *fiber.Ctx) error {
	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid post ID", nil)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	post, err := w.Repos.Post.GetByID(ctx, id)
	if err != nil {
		return utils.SendNotFound(c, "Post not found")
	}

	comments, err := w.Repos.Comment.GetByPost(ctx, id)
	if err != nil {
		slog.Error("Failed to load comments",
			slog.Int64("post_id", id),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to load comments")
	}

	viewerID := viewerUID(c)
	return utils.SendSuccess(c, fiber.Map{
		"post":     models.NewPostDTO(post, viewerID),
		"comments": models.AssembleCommentTree(comments, viewerID),
	}, "")
}

// HandleCreatePost creates a post in a category and credits the author's
// posting reward. Posting in a premium category pays the higher rate.
func (w *WebApp) HandleCreatePost(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	categoryID, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid category ID", nil)
	}

	var req models.PostCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if errs := utils.ValidatePostCreateRequest(&req); len(errs) > 0 {
		return utils.HandleValidationErrors(c, errs)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	category, err := w.Repos.Category.GetByID(ctx, categoryID)
	if err != nil {
		return utils.SendNotFound(c, "Category not found")
	}

	author, err := w.Repos.User.GetByUID(ctx, session.PreyUID)
	if err != nil {
		return utils.SendUnauthorized(c, "Unknown user")
	}

	post := &dbmodels.Post{
		CategoryID:      category.ID,
		Title:           strings.TrimSpace(req.Title),
		Content:         strings.TrimSpace(req.Content),
		AuthorID:        author.PreyUID,
		AuthorName:      author.Username,
		AuthorAvatar:    author.AvatarURL,
		AuthorSignature: author.Signature,
		MediaURLs:       req.MediaURLs,
	}
	if err := w.Repos.Post.Create(ctx, post); err != nil {
		slog.Error("Failed to create post",
			slog.String("author", author.PreyUID),
			slog.Int64("category_id", category.ID),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to create post")
	}

	if err := w.Repos.Category.IncrementTopicCount(ctx, category.ID); err != nil {
		slog.Warn("Failed to bump topic count",
			slog.Int64("category_id", category.ID),
			slog.Any("error", err))
	}
	if err := w.Repos.User.IncrementPostCount(ctx, author.PreyUID); err != nil {
		slog.Warn("Failed to bump post count",
			slog.String("author", author.PreyUID),
			slog.Any("error", err))
	}

	balance, err := w.Engine.AwardForAction(ctx, author.PreyUID, category.IsUnique)
	if err != nil {
		slog.Error("Failed to credit posting reward",
			slog.String("author", author.PreyUID),
			slog.Any("error", err))
		return utils.SendCreated(c, fiber.Map{
			"post": models.NewPostDTO(post, author.PreyUID),
		}, "Post created")
	}

	return utils.SendCreated(c, fiber.Map{
		"post":    models.NewPostDTO(post, author.PreyUID),
		"balance": balance,
	}, "Post created")
}

// HandleDeletePost removes a post. Authors may delete their own posts,
// admins any post.
func (w *WebApp) HandleDeletePost(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid post ID", nil)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	post, err := w.Repos.Post.GetByID(ctx, id)
	if err != nil {
		return utils.SendNotFound(c, "Post not found")
	}

	if post.AuthorID != session.PreyUID && !session.IsAdmin {
		return utils.SendForbidden(c, "Not your post")
	}

	if err := w.Repos.Post.Delete(ctx, id); err != nil {
		slog.Error("Failed to delete post",
			slog.Int64("post_id", id),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to delete post")
	}

	// Drop the post's uploads from the bucket. The post row is already gone,
	// so a failed object delete only leaks storage and is not worth a 500.
	if w.Spaces != nil {
		for _, url := range post.MediaURLs {
			key, ok := w.Spaces.KeyFromURL(url)
			if !ok {
				continue
			}
			if err := w.Spaces.DeleteMedia(ctx, key); err != nil {
				slog.Warn("Failed to delete post media",
					slog.Int64("post_id", id),
					slog.String("key", key),
					slog.Any("error", err))
			}
		}
	}

	return utils.SendNoContent(c)
}

// HandleTogglePostLike toggles the viewer's like on a post.
func (w *WebApp) HandleTogglePostLike(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid post ID", nil)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	liked, err := w.Repos.Post.ToggleLike(ctx, id, session.PreyUID)
	if err != nil {
		return utils.SendNotFound(c, "Post not found")
	}

	return utils.SendSuccess(c, fiber.Map{"liked": liked}, "")
}

// viewerUID returns the authenticated viewer's UID, or empty for guests.
func viewerUID(c *fiber.Ctx) string {
	if session, ok := utils.ExtractUserSession(c); ok {
		return session.PreyUID
	}
	return ""
}
