package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/preyforum/preyforum/backend/models"
	"github.com/preyforum/preyforum/backend/utils"
	dbmodels "github.com/preyforum/preyforum/preyforum/database/models"
)

// HandleCreateComment adds a comment to a post. Replies nest one level
// deep; replying to a reply attaches to the reply's parent.
func (w *WebApp) HandleCreateComment(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	postID, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid post ID", nil)
	}

	var req models.CommentCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}
	if errs := utils.ValidateCommentCreateRequest(&req); len(errs) > 0 {
		return utils.HandleValidationErrors(c, errs)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	if _, err := w.Repos.Post.GetByID(ctx, postID); err != nil {
		return utils.SendNotFound(c, "Post not found")
	}

	parentID := req.ParentID
	if parentID != 0 {
		parent, err := w.Repos.Comment.GetByID(ctx, parentID)
		if err != nil || parent.PostID != postID {
			return utils.SendBadRequest(c, "Parent comment not found", nil)
		}
		if parent.ParentID != 0 {
			parentID = parent.ParentID
		}
	}

	author, err := w.Repos.User.GetByUID(ctx, session.PreyUID)
	if err != nil {
		return utils.SendUnauthorized(c, "Unknown user")
	}

	comment := &dbmodels.Comment{
		PostID:       postID,
		ParentID:     parentID,
		Content:      strings.TrimSpace(req.Content),
		AuthorID:     author.PreyUID,
		AuthorName:   author.Username,
		AuthorAvatar: author.AvatarURL,
	}
	if err := w.Repos.Comment.Create(ctx, comment); err != nil {
		slog.Error("Failed to create comment",
			slog.Int64("post_id", postID),
			slog.String("author", author.PreyUID),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to create comment")
	}

	if err := w.Repos.Post.IncrementCommentCount(ctx, postID); err != nil {
		slog.Warn("Failed to bump comment count",
			slog.Int64("post_id", postID),
			slog.Any("error", err))
	}

	return utils.SendCreated(c, models.NewCommentDTO(comment, author.PreyUID), "Comment created")
}

// HandleToggleCommentLike toggles the viewer's like on a comment.
func (w *WebApp) HandleToggleCommentLike(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid comment ID", nil)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	liked, err := w.Repos.Comment.ToggleLike(ctx, id, session.PreyUID)
	if err != nil {
		return utils.SendNotFound(c, "Comment not found")
	}

	return utils.SendSuccess(c, fiber.Map{"liked": liked}, "")
}

// HandleDeleteComment removes a comment. Authors may delete their own
// comments, admins any comment.
func (w *WebApp) HandleDeleteComment(c *fiber.Ctx) error {
	session, ok := utils.ExtractUserSession(c)
	if !ok {
		return utils.SendUnauthorized(c, "Authentication required")
	}

	id, err := parseInt64(c.Params("id"))
	if err != nil {
		return utils.SendBadRequest(c, "Invalid comment ID", nil)
	}

	ctx, cancel := queryContext(c)
	defer cancel()

	comment, err := w.Repos.Comment.GetByID(ctx, id)
	if err != nil {
		return utils.SendNotFound(c, "Comment not found")
	}

	if comment.AuthorID != session.PreyUID && !session.IsAdmin {
		return utils.SendForbidden(c, "Not your comment")
	}

	if err := w.Repos.Comment.Delete(ctx, id); err != nil {
		slog.Error("Failed to delete comment",
			slog.Int64("comment_id", id),
			slog.Any("error", err))
		return utils.SendInternalServerError(c, "Failed to delete comment")
	}

	return utils.SendNoContent(c)
}
