package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/codemorph-be/internal/models"
)

func fixedID() string { return "generated-id" }

func TestPrepareNew_AssignsID(t *testing.T) {
	u, err := PrepareNew(models.User{Email: "a@x.com", PasswordHash: "h", Role: models.RoleUser}, fixedID)
	require.NoError(t, err)
	assert.Equal(t, "generated-id", u.ID)
}

func TestPrepareNew_KeepsExistingID(t *testing.T) {
	u, err := PrepareNew(models.User{ID: "mine", Email: "a@x.com", PasswordHash: "h", Role: models.RoleAdmin}, fixedID)
	require.NoError(t, err)
	assert.Equal(t, "mine", u.ID)
}

func TestPrepareNew_RejectsInvariantViolations(t *testing.T) {
	cases := map[string]models.User{
		"empty email": {PasswordHash: "h", Role: models.RoleUser},
		"empty hash":  {Email: "a@x.com", Role: models.RoleUser},
		"bad role":    {Email: "a@x.com", PasswordHash: "h", Role: "ROOT"},
	}
	for name, u := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := PrepareNew(u, fixedID)
			assert.True(t, errors.Is(err, ErrInvalidUser), "got %v", err)
		})
	}
}
