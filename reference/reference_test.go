package reference

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"nguza/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUnits(t *testing.T) {
	rec := httptest.NewRecorder()
	GetUnits(rec, httptest.NewRequest(http.MethodGet, "/api/reference/units", nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success bool     `json:"success"`
		Units   []string `json:"units"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, models.Units, body.Units)
}

func TestGetCategories(t *testing.T) {
	rec := httptest.NewRecorder()
	GetCategories(rec, httptest.NewRequest(http.MethodGet, "/api/reference/categories", nil), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success    bool                `json:"success"`
		Categories []string            `json:"categories"`
		Tree       map[string][]string `json:"tree"`
		Units      []string            `json:"units"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, models.Categories, body.Categories)
	assert.Equal(t, models.Units, body.Units)
	for _, c := range body.Categories {
		assert.NotEmpty(t, body.Tree[c], c)
	}
}
