package rdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListingIDFromCounterKey(t *testing.T) {
	id, ok := listingIDFromCounterKey("contact:count:lst123abc")
	require.True(t, ok)
	assert.Equal(t, "lst123abc", id)

	for _, bad := range []string{
		"contact:count",
		"contact:count:",
		"contact:views:lst123",
		"other:count:lst123",
		"contact:count:lst123:extra",
		"",
	} {
		_, ok := listingIDFromCounterKey(bad)
		assert.False(t, ok, bad)
	}
}
