package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gig-marketplace/internal/models"
)

func TestTokenManager_GenerateAndParse(t *testing.T) {
	tm := testTokenManager()
	user := &models.User{ID: uuid.New(), Role: models.RoleClient}

	pair, refreshExp, err := tm.GeneratePair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, refreshExp.After(time.Now()))

	userID, role, err := tm.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, models.RoleClient, role)

	claims, err := tm.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
}

func TestTokenManager_ParseAccess_WrongSecret(t *testing.T) {
	tm := testTokenManager()
	other := NewTokenManager("another-access-secret", "another-refresh-secret", 15*time.Minute, 24*time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleFreelancer}

	pair, _, err := tm.GeneratePair(user)
	require.NoError(t, err)

	_, _, err = other.ParseAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenManager_RefreshIsNotAccess(t *testing.T) {
	tm := testTokenManager()
	user := &models.User{ID: uuid.New(), Role: models.RoleFreelancer}

	pair, _, err := tm.GeneratePair(user)
	require.NoError(t, err)

	// Refresh токен подписан другим секретом и не проходит как access.
	_, _, err = tm.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}
