package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farhandwi/dots/internal/domain/entity"
)

func TestBuildUser(t *testing.T) {
	t.Run("roles with and without cost center", func(t *testing.T) {
		user, err := buildUser("dh@example.com", "P001", "BP001", []string{"vd001:CC100", "V0001"})
		require.NoError(t, err)

		require.Len(t, user.Applications, 1)
		assert.Equal(t, entity.ApplicationDOTS, user.Applications[0].AppName)

		roles := user.Applications[0].Role
		require.Len(t, roles, 2)
		assert.Equal(t, entity.UserTypeDepartmentHead, roles[0].UserType)
		require.NotNil(t, roles[0].CostCenter)
		assert.Equal(t, "CC100", *roles[0].CostCenter)
		assert.Equal(t, "BP001", roles[0].BP)
		assert.Nil(t, roles[1].CostCenter)
	})

	t.Run("empty cost center is null", func(t *testing.T) {
		user, err := buildUser("a@example.com", "", "", []string{"IS001:"})
		require.NoError(t, err)
		assert.Nil(t, user.Applications[0].Role[0].CostCenter)
	})

	t.Run("no roles means no DOTS application", func(t *testing.T) {
		user, err := buildUser("a@example.com", "", "", nil)
		require.NoError(t, err)
		assert.Empty(t, user.Applications)
	})

	t.Run("missing user type", func(t *testing.T) {
		_, err := buildUser("a@example.com", "", "", []string{":CC100"})
		assert.Error(t, err)
	})
}
