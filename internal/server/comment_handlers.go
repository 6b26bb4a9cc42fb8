package server

import (
	"agora/internal/middleware"
	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/posts/:id/comment
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	identity := identityFromCtx(c)

	id, err := parseUUID(c, "id", "post")
	if err != nil {
		return nil
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Comment == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Comment text is required"))
	}

	comment, count, err := s.commentRepo.Append(ctx, id, *identity, req.Comment)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	middleware.CommentsCreated.Inc()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"comment":       comment,
		"comment_count": count,
	})
}

// GetComments handles GET /api/posts/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := parseUUID(c, "id", "post")
	if err != nil {
		return nil
	}

	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(comments)
}
