package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"agora/internal/config"
	"agora/internal/database"
	"agora/internal/models"
	"agora/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds a Server over a fresh in-memory SQLite database.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	s := &Server{
		config:           &config.Config{},
		db:               db,
		userRepo:         repository.NewUserRepository(db),
		postRepo:         repository.NewPostRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		announcementRepo: repository.NewAnnouncementRepository(db),
		tagRepo:          repository.NewTagRepository(db),
	}
	return s, db
}

// withIdentity mimics the authentication middleware by injecting a verified
// identity into locals.
func withIdentity(identity *models.Identity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("identity", identity)
		c.Locals("callerEmail", identity.Email)
		return c.Next()
	}
}

var testIdentity = &models.Identity{
	Email:   "ada@example.com",
	Name:    "Ada Lovelace",
	Picture: "https://example.com/ada.png",
}

func jsonRequest(t *testing.T, method, target string, payload any) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// --- parsePage ---

func TestParsePage_Defaults(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePage(c)
		return c.JSON(fiber.Map{"page": p.Number, "size": p.Size})
	})

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body map[string]float64
	decodeBody(t, resp, &body)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(defaultPageSize), body["size"])
}

func TestParsePage_ClampsBadValues(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		p := parsePage(c)
		return c.JSON(fiber.Map{"page": p.Number, "size": p.Size})
	})

	req := httptest.NewRequest(http.MethodGet, "/items?page=-3&limit=5000", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	var body map[string]float64
	decodeBody(t, resp, &body)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(maxPageSize), body["size"])
}

// --- parseUUID ---

func TestParseUUID_Invalid(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := parseUUID(c, "id", "post")
		if err != nil {
			return nil
		}
		return c.JSON(fiber.Map{"id": id})
	})

	req := httptest.NewRequest(http.MethodGet, "/items/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body models.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "INVALID_ID", body.Code)
}

// --- AdminRequired ---

func TestAdminRequired(t *testing.T) {
	s, db := newTestServer(t)
	require.NoError(t, db.Create(&models.User{
		Name: "Ada Lovelace", Email: "ada@example.com", Role: models.RoleAdmin,
	}).Error)

	app := fiber.New()
	app.Get("/admin", withIdentity(testIdentity), s.AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	app.Get("/admin-as-bob", withIdentity(&models.Identity{Email: "bob@example.com"}),
		s.AdminRequired(), func(c *fiber.Ctx) error {
			return c.SendStatus(http.StatusOK)
		})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Unknown accounts default to the plain user role and are rejected.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/admin-as-bob", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
