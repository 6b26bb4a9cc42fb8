package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"agora/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTags(t *testing.T) {
	s, _ := newTestServer(t)
	app := fiber.New()
	app.Get("/api/tags", s.GetTags)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/tags", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var tags []models.Tag
	decodeBody(t, resp, &tags)
	require.NotEmpty(t, tags)

	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Contains(t, names, "general")
	assert.IsIncreasing(t, names)
}
