package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"github.com/recuentobot/recuento/internal/bot/constants"
	"github.com/recuentobot/recuento/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	roles := &config.RolesConfig{Staff: 100, Mod: 200, Admin: 300}

	return New(nil, nil, roles, zap.NewNop())
}

func TestLookupRole(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	tests := []struct {
		tag  string
		want snowflake.ID
	}{
		{constants.RoleTagStaff, 100},
		{constants.RoleTagMod, 200},
		{constants.RoleTagAdmin, 300},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			t.Parallel()

			roleID, err := h.lookupRole(tt.tag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, roleID)
		})
	}
}

func TestLookupRoleUnknownTag(t *testing.T) {
	t.Parallel()
	h := newTestHandler(t)

	for _, tag := range []string{"socio", "STAFF", ""} {
		roleID, err := h.lookupRole(tag)
		require.ErrorIs(t, err, ErrUnknownRoleTag)
		assert.Zero(t, roleID)
	}
}

func TestRoleErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		err   error
		want  string
		known bool
	}{
		{
			name:  "unknown tag",
			err:   fmt.Errorf("%w: %q", ErrUnknownRoleTag, "socio"),
			want:  "Ese rol no está configurado.",
			known: true,
		},
		{
			name:  "role missing from guild",
			err:   fmt.Errorf("%w: %s", ErrRoleNotFound, snowflake.ID(100)),
			want:  "El rol configurado no existe en este servidor.",
			known: true,
		},
		{
			name:  "empty role",
			err:   ErrEmptyRole,
			want:  "Nadie tiene ese rol actualmente.",
			known: true,
		},
		{
			name:  "outside the taxonomy",
			err:   errors.New("rest request failed"),
			want:  "Ocurrió un error al procesar el comando.",
			known: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			message, known := roleErrorMessage(tt.err)
			assert.Equal(t, tt.want, message)
			assert.Equal(t, tt.known, known)
		})
	}
}
