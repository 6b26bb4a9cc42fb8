package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newPostApp(t *testing.T) (*fiber.App, *Server, *gorm.DB) {
	t.Helper()
	s, db := newTestServer(t)
	app := fiber.New()
	app.Get("/api/posts", s.GetPosts)
	app.Get("/api/posts/:id", s.GetPost)
	app.Post("/api/posts", withIdentity(testIdentity), s.CreatePost)
	app.Patch("/api/posts/:id/vote", withIdentity(testIdentity), s.VotePost)
	return app, s, db
}

func validPostBody() map[string]string {
	return map[string]string{
		"title":        "Hello agora",
		"description":  "A first post",
		"tag":          "general",
		"author_name":  "Ada Lovelace",
		"author_email": "ada@example.com",
	}
}

func TestCreatePost(t *testing.T) {
	app, _, db := newPostApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", validPostBody()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Post
	decodeBody(t, resp, &created)
	assert.Equal(t, "Hello agora", created.Title)
	assert.NotEmpty(t, created.ID)
	// Missing avatar falls back to the verified identity's picture.
	assert.Equal(t, testIdentity.Picture, created.AuthorAvatar)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreatePost_MissingFields(t *testing.T) {
	app, _, _ := newPostApp(t)

	body := validPostBody()
	body["title"] = ""
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody models.ErrorResponse
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "VALIDATION_ERROR", errBody.Code)
}

func TestCreatePost_AuthorMustMatchCaller(t *testing.T) {
	app, _, db := newPostApp(t)

	body := validPostBody()
	body["author_email"] = "impostor@example.com"
	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreatePost_BumpsAuthorCounter(t *testing.T) {
	app, _, db := newPostApp(t)
	require.NoError(t, db.Create(&models.User{
		Name: "Ada Lovelace", Email: "ada@example.com",
	}).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", validPostBody()))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var user models.User
	require.NoError(t, db.Where("email = ?", "ada@example.com").First(&user).Error)
	assert.Equal(t, 1, user.PostCount)
}

func TestGetPosts_Envelope(t *testing.T) {
	app, _, _ := newPostApp(t)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", validPostBody()))
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts?page=1&limit=2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.PostPage
	decodeBody(t, resp, &page)
	assert.Len(t, page.Posts, 2)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, int64(3), page.TotalCount)
}

func TestGetPost_WithComments(t *testing.T) {
	app, s, _ := newPostApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", validPostBody()))
	require.NoError(t, err)
	var created models.Post
	decodeBody(t, resp, &created)

	_, _, err = s.commentRepo.Append(context.Background(), created.ID, *testIdentity, "nice one")
	require.NoError(t, err)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/"+created.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Post     models.Post       `json:"post"`
		Comments []*models.Comment `json:"comments"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, created.ID, body.Post.ID)
	assert.Equal(t, 1, body.Post.CommentCount)
	require.Len(t, body.Comments, 1)
	assert.Equal(t, "nice one", body.Comments[0].Content)
}

func TestGetPost_BadAndMissingIDs(t *testing.T) {
	app, _, _ := newPostApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet,
		"/api/posts/6a60414e-7a9c-4f1f-a2aa-22a09d838fd0", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVotePost(t *testing.T) {
	app, _, _ := newPostApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", validPostBody()))
	require.NoError(t, err)
	var created models.Post
	decodeBody(t, resp, &created)
	target := "/api/posts/" + created.ID.String() + "/vote"

	resp, err = app.Test(jsonRequest(t, http.MethodPatch, target, map[string]string{"type": "upvote"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var voted models.Post
	decodeBody(t, resp, &voted)
	assert.Equal(t, 1, voted.PopularityScore)
	assert.Contains(t, voted.Upvoters, testIdentity.Email)

	// Toggling again removes the vote.
	resp, err = app.Test(jsonRequest(t, http.MethodPatch, target, map[string]string{"type": "upvote"}))
	require.NoError(t, err)
	decodeBody(t, resp, &voted)
	assert.Equal(t, 0, voted.PopularityScore)
}

func TestVotePost_InvalidType(t *testing.T) {
	app, _, _ := newPostApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/posts", validPostBody()))
	require.NoError(t, err)
	var created models.Post
	decodeBody(t, resp, &created)

	resp, err = app.Test(jsonRequest(t, http.MethodPatch,
		"/api/posts/"+created.ID.String()+"/vote", map[string]string{"type": "sideways"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody models.ErrorResponse
	decodeBody(t, resp, &errBody)
	assert.Equal(t, "VALIDATION_ERROR", errBody.Code)
}

func TestVotePost_UnknownPost(t *testing.T) {
	app, _, _ := newPostApp(t)

	resp, err := app.Test(jsonRequest(t, http.MethodPatch,
		"/api/posts/6a60414e-7a9c-4f1f-a2aa-22a09d838fd0/vote", map[string]string{"type": "upvote"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
