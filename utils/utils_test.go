package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhoneNumber(t *testing.T) {
	valid := []string{"+256701234567", "0701234567", "0789999999"}
	for _, p := range valid {
		assert.True(t, ValidPhoneNumber(p), p)
	}

	invalid := []string{
		"",
		"0801234567",     // not a 7xx mobile prefix
		"+25670123456",   // too short
		"+2567012345678", // too long
		"256701234567",   // missing + on the country code form
		"070123456a",
	}
	for _, p := range invalid {
		assert.False(t, ValidPhoneNumber(p), p)
	}
}

func TestGenerateRandomString(t *testing.T) {
	a := GenerateRandomString(12)
	b := GenerateRandomString(12)
	assert.Len(t, a, 12)
	assert.Len(t, b, 12)
	assert.NotEqual(t, a, b)

	assert.Len(t, GenerateRandomDigitString(6), 6)
	assert.Regexp(t, `^\d{6}$`, GenerateRandomDigitString(6))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "photo.jpg", SanitizeFilename("photo.jpg"))
	assert.Equal(t, "my_photo.jpg", SanitizeFilename("my photo.jpg"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/admin/users?limit=30&skip=60", nil)
	skip, limit := ParsePagination(r, 20, 100)
	assert.Equal(t, int64(60), skip)
	assert.Equal(t, int64(30), limit)

	r = httptest.NewRequest("GET", "/api/admin/users", nil)
	skip, limit = ParsePagination(r, 20, 100)
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(20), limit)

	r = httptest.NewRequest("GET", "/api/admin/users?limit=9999", nil)
	_, limit = ParsePagination(r, 20, 100)
	assert.Equal(t, int64(100), limit)

	r = httptest.NewRequest("GET", "/api/admin/users?limit=abc&skip=-5", nil)
	skip, limit = ParsePagination(r, 20, 100)
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(20), limit)
}
