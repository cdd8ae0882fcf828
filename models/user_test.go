package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestUserPhoneOmittedWhenEmpty(t *testing.T) {
	// Google-first accounts have no phone number. The field must stay out of
	// the stored document entirely so the partial unique index never sees two
	// accounts with phoneNumber "".
	u := User{
		UserID:   "u1234567890",
		Username: "akello",
		Email:    "akello@example.com",
		GoogleID: "google-oauth-id",
		Role:     []string{"user"},
	}

	raw, err := bson.Marshal(u)
	require.NoError(t, err)
	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))

	_, present := doc["phoneNumber"]
	assert.False(t, present)

	u.PhoneNumber = "0701234567"
	raw, err = bson.Marshal(u)
	require.NoError(t, err)
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.Equal(t, "0701234567", doc["phoneNumber"])
}

func TestUserIsAdmin(t *testing.T) {
	admin := User{Role: []string{"user", "admin"}}
	assert.True(t, admin.IsAdmin())

	plain := User{Role: []string{"user"}}
	assert.False(t, plain.IsAdmin())
}
