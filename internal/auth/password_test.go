package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Abc12345!", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "Abc12345!", hash)

	assert.NoError(t, ComparePassword(hash, "Abc12345!"))
	assert.Error(t, ComparePassword(hash, "wrong-password"))
}
