package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{"Admin": RoleAdmin, "staff": RoleStaff, " USER ": RoleUser}
	for in, want := range cases {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseRole("root")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAssignRoleRejectsAdmin(t *testing.T) {
	u := NewUser("bob", "bob@example.com", "hash", RoleUser)
	assert.NotEmpty(t, u.ID)

	assert.ErrorIs(t, u.AssignRole(RoleAdmin), ErrInvalidRole)
	assert.Equal(t, RoleUser, u.Role)

	require.NoError(t, u.AssignRole(RoleStaff))
	assert.Equal(t, RoleStaff, u.Role)
}
