// Package handlers implements the /stats and /historial slash commands.
package handlers

import (
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
	"github.com/recuentobot/recuento/internal/bot/constants"
	"github.com/recuentobot/recuento/internal/mirror"
	"github.com/recuentobot/recuento/internal/setup/config"
	"github.com/recuentobot/recuento/internal/tracker"
	"go.uber.org/zap"
)

var (
	// ErrUnknownRoleTag indicates the requested role tag is not one of the
	// three configured tags.
	ErrUnknownRoleTag = errors.New("unknown role tag")
	// ErrRoleNotFound indicates the configured role id does not exist in
	// the target guild.
	ErrRoleNotFound = errors.New("role not found in guild")
	// ErrEmptyRole indicates no current member holds the requested role.
	ErrEmptyRole = errors.New("no members hold the role")
)

// Handler processes slash command interactions against the tally store and
// the Redis mirror.
type Handler struct {
	store  *tracker.Store
	mirror *mirror.Mirror
	roles  map[string]snowflake.ID
	logger *zap.Logger
}

// New creates a command handler. The role tag mapping comes from static
// configuration and never changes at runtime.
func New(store *tracker.Store, mirror *mirror.Mirror, roles *config.RolesConfig, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		mirror: mirror,
		roles: map[string]snowflake.ID{
			constants.RoleTagStaff: snowflake.ID(roles.Staff),
			constants.RoleTagMod:   snowflake.ID(roles.Mod),
			constants.RoleTagAdmin: snowflake.ID(roles.Admin),
		},
		logger: logger.Named("handlers"),
	}
}

// lookupRole maps a role tag option to its configured role id, failing
// with ErrUnknownRoleTag when the tag is not one of the three configured
// tags.
func (h *Handler) lookupRole(tag string) (snowflake.ID, error) {
	roleID, ok := h.roles[tag]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownRoleTag, tag)
	}

	return roleID, nil
}

// resolveRole maps a role tag option to the guild's actual role, failing
// with the user-facing taxonomy errors when the tag is unconfigured or the
// configured id is absent from the guild.
func (h *Handler) resolveRole(event *events.ApplicationCommandInteractionCreate, tag string) (discord.Role, error) {
	roleID, err := h.lookupRole(tag)
	if err != nil {
		return discord.Role{}, err
	}

	roles, err := event.Client().Rest().GetRoles(*event.GuildID())
	if err != nil {
		return discord.Role{}, fmt.Errorf("failed to fetch guild roles: %w", err)
	}

	for _, role := range roles {
		if role.ID == roleID {
			return role, nil
		}
	}

	return discord.Role{}, fmt.Errorf("%w: %s", ErrRoleNotFound, roleID)
}

// roleMembers enumerates every current guild member holding the role,
// paging through the member list in chunks of 1000.
func (h *Handler) roleMembers(event *events.ApplicationCommandInteractionCreate, roleID snowflake.ID) ([]discord.Member, error) {
	var holders []discord.Member

	var after snowflake.ID

	for {
		chunk, err := event.Client().Rest().GetMembers(*event.GuildID(), 1000, after)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch guild members: %w", err)
		}

		for _, member := range chunk {
			for _, id := range member.RoleIDs {
				if id == roleID {
					holders = append(holders, member)
					break
				}
			}
		}

		// A short page means we reached the end of the member list
		if len(chunk) < 1000 {
			break
		}

		after = chunk[len(chunk)-1].User.ID
	}

	return holders, nil
}

// respond replaces the deferred response with an embed.
func (h *Handler) respond(event *events.ApplicationCommandInteractionCreate, embed discord.Embed) {
	_, err := event.Client().Rest().UpdateInteractionResponse(event.ApplicationID(), event.Token(),
		discord.NewMessageUpdateBuilder().SetEmbeds(embed).Build())
	if err != nil {
		h.logger.Error("Failed to send command response", zap.Error(err))
	}
}

// respondText replaces the deferred response with plain text. Used for the
// user-facing error taxonomy.
func (h *Handler) respondText(event *events.ApplicationCommandInteractionCreate, content string) {
	_, err := event.Client().Rest().UpdateInteractionResponse(event.ApplicationID(), event.Token(),
		discord.NewMessageUpdateBuilder().SetContent(content).Build())
	if err != nil {
		h.logger.Error("Failed to send command response", zap.Error(err))
	}
}

// roleErrorMessage translates a role resolution failure into its
// user-facing reply text. The second return is false for failures outside
// the taxonomy, which get the generic reply.
func roleErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, ErrUnknownRoleTag):
		return "Ese rol no está configurado.", true
	case errors.Is(err, ErrRoleNotFound):
		return "El rol configurado no existe en este servidor.", true
	case errors.Is(err, ErrEmptyRole):
		return "Nadie tiene ese rol actualmente.", true
	default:
		return "Ocurrió un error al procesar el comando.", false
	}
}

// respondRoleError replies with the user-facing text for a role
// resolution failure.
func (h *Handler) respondRoleError(event *events.ApplicationCommandInteractionCreate, err error) {
	message, known := roleErrorMessage(err)
	if !known {
		h.logger.Error("Failed to resolve role", zap.Error(err))
	}

	h.respondText(event, message)
}
