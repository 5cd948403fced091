package main

import (
	"context"
	"testing"
	"time"

	"medblock-service/internal/app/contracts"
	"medblock-service/internal/app/models"
	"medblock-service/internal/pkg/constvars"
	"medblock-service/internal/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUsers struct {
	contracts.UserRepository
	byEmail map[string]*models.User
}

func (m *memoryUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.byEmail[email], nil
}

func (m *memoryUsers) Create(ctx context.Context, user *models.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func TestSeedAdmin(t *testing.T) {
	now := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)
	valid := seedAdminInput{Email: " Root@Example.com ", Password: "Adm1n!pass", FirstName: "System", LastName: "Admin"}

	t.Run("creates an active admin with a bcrypt hash", func(t *testing.T) {
		repo := &memoryUsers{byEmail: map[string]*models.User{}}
		user, err := seedAdmin(context.Background(), repo, valid, now)
		require.NoError(t, err)

		assert.Equal(t, "root@example.com", user.Email)
		assert.Equal(t, constvars.RoleAdmin, user.Role)
		assert.True(t, user.IsActive)
		assert.Equal(t, int64(1), user.Version)
		assert.True(t, utils.CheckPasswordHash("Adm1n!pass", user.PasswordHash))
		assert.Same(t, user, repo.byEmail["root@example.com"])
	})

	t.Run("refuses a duplicate email", func(t *testing.T) {
		repo := &memoryUsers{byEmail: map[string]*models.User{"root@example.com": {}}}
		_, err := seedAdmin(context.Background(), repo, valid, now)
		assert.ErrorIs(t, err, errAdminExists)
	})

	t.Run("rejects a weak password", func(t *testing.T) {
		repo := &memoryUsers{byEmail: map[string]*models.User{}}
		input := valid
		input.Password = "short"
		_, err := seedAdmin(context.Background(), repo, input, now)
		assert.Error(t, err)
		assert.Empty(t, repo.byEmail)
	})
}
