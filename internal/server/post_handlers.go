package server

import (
	"agora/internal/cache"
	"agora/internal/middleware"
	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	identity := identityFromCtx(c)

	var req struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		Tag          string `json:"tag"`
		AuthorName   string `json:"author_name"`
		AuthorEmail  string `json:"author_email"`
		AuthorAvatar string `json:"author_avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	// Validate required fields
	if req.Title == "" || req.Description == "" || req.Tag == "" ||
		req.AuthorName == "" || req.AuthorEmail == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Title, description, tag, author name and author email are required"))
	}

	// The author must be the verified caller; posts cannot be published on
	// someone else's behalf.
	if req.AuthorEmail != identity.Email {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Author email does not match the authenticated caller"))
	}

	post := &models.Post{
		Title:        req.Title,
		Description:  req.Description,
		Tag:          req.Tag,
		AuthorName:   req.AuthorName,
		AuthorEmail:  req.AuthorEmail,
		AuthorAvatar: req.AuthorAvatar,
	}
	if post.AuthorAvatar == "" {
		post.AuthorAvatar = identity.Picture
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	// Best-effort author counter bump; a failure here never fails the request.
	if err := s.userRepo.IncrementPostCount(c.Context(), identity.Email); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to increment author post count",
			"author_email", identity.Email, "error", err.Error())
	}

	middleware.PostsCreated.Inc()

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePage(c)
	sortBy := c.Query("sortBy", "newest")
	tag := c.Query("tag")

	var result models.PostPage
	key := cache.PostsPageKey(page.Number, page.Size, sortBy, tag)
	err := cache.Aside(ctx, key, &result, cache.PostsPageTTL, func() error {
		pageResult, err := s.postRepo.GetPage(ctx, page.Number, page.Size, sortBy, tag)
		if err != nil {
			return err
		}
		result = *pageResult
		return nil
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(result)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := parseUUID(c, "id", "post")
	if err != nil {
		return nil
	}

	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"post":     post,
		"comments": comments,
	})
}

// VotePost handles PATCH /api/posts/:id/vote
func (s *Server) VotePost(c *fiber.Ctx) error {
	ctx := c.Context()
	identity := identityFromCtx(c)

	id, err := parseUUID(c, "id", "post")
	if err != nil {
		return nil
	}

	var req struct {
		Type string `json:"type"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if !models.ValidVoteType(req.Type) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Vote type must be 'upvote' or 'downvote'"))
	}

	post, err := s.postRepo.ToggleVote(ctx, id, identity.Email, req.Type)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	middleware.VotesToggled.WithLabelValues(req.Type).Inc()

	return c.JSON(post)
}
