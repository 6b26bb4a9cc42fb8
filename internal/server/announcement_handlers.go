package server

import (
	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateAnnouncement handles POST /api/announcements
func (s *Server) CreateAnnouncement(c *fiber.Ctx) error {
	ctx := c.Context()
	identity := identityFromCtx(c)

	var req struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		AuthorName   string `json:"author_name"`
		AuthorEmail  string `json:"author_email"`
		AuthorAvatar string `json:"author_avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title == "" || req.Description == "" || req.AuthorName == "" || req.AuthorEmail == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title, description, author name and author email are required"))
	}

	if req.AuthorEmail != identity.Email {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Author email does not match the authenticated caller"))
	}

	if s.config.AnnouncementPublishAdminOnly {
		admin, err := s.isAdminByEmail(c, identity.Email)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Only admins may publish announcements"))
		}
	}

	announcement := &models.Announcement{
		Title:        req.Title,
		Description:  req.Description,
		AuthorName:   req.AuthorName,
		AuthorEmail:  req.AuthorEmail,
		AuthorAvatar: req.AuthorAvatar,
	}
	if announcement.AuthorAvatar == "" {
		announcement.AuthorAvatar = identity.Picture
	}

	if err := s.announcementRepo.Create(ctx, announcement); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(announcement)
}

// GetAnnouncements handles GET /api/announcements (admin only)
func (s *Server) GetAnnouncements(c *fiber.Ctx) error {
	ctx := c.Context()

	announcements, err := s.announcementRepo.ListAll(ctx)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"announcements": announcements,
		"count":         len(announcements),
	})
}

// GetUnseenCount handles GET /api/announcements/unseen/count
func (s *Server) GetUnseenCount(c *fiber.Ctx) error {
	ctx := c.Context()
	identity := identityFromCtx(c)

	count, err := s.announcementRepo.UnseenCountFor(ctx, identity.Email)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"count": count})
}

// MarkAllSeen handles PATCH /api/announcements/mark-seen
func (s *Server) MarkAllSeen(c *fiber.Ctx) error {
	ctx := c.Context()
	identity := identityFromCtx(c)

	if err := s.announcementRepo.MarkAllSeenFor(ctx, identity.Email); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"message": "All announcements marked as seen"})
}
