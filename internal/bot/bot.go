package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"go.uber.org/zap"

	"github.com/recuentobot/recuento/internal/bot/constants"
	botEvents "github.com/recuentobot/recuento/internal/bot/events"
	"github.com/recuentobot/recuento/internal/bot/handlers"
	"github.com/recuentobot/recuento/internal/mirror"
	"github.com/recuentobot/recuento/internal/setup/config"
	"github.com/recuentobot/recuento/internal/tracker"
)

// Bot bundles the Discord client with the tally store, the Redis mirror,
// and the slash command handlers.
type Bot struct {
	client   bot.Client
	store    *tracker.Store
	handlers *handlers.Handler
	logger   *zap.Logger
}

// New wires up the Discord client with the gateway intents and event
// listeners the tally pipeline needs.
func New(
	cfg *config.Config,
	store *tracker.Store,
	statsMirror *mirror.Mirror,
	writer *mirror.Writer,
	logger *zap.Logger,
) (*Bot, error) {
	messageHandler := botEvents.NewMessageEventHandler(store, writer, &cfg.Roles, logger)
	commandHandler := handlers.New(store, statsMirror, &cfg.Roles, logger)

	b := &Bot{
		store:    store,
		handlers: commandHandler,
		logger:   logger.Named("bot"),
	}

	client, err := disgo.New(cfg.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMessages,
				gateway.IntentGuildMembers,
				gateway.IntentMessageContent,
			),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnMessageCreate:                 messageHandler.OnMessageCreate,
			OnApplicationCommandInteraction: b.handleApplicationCommandInteraction,
		}),
	)
	if err != nil {
		return nil, err
	}

	b.client = client

	return b, nil
}

// Start registers the slash commands globally and opens the gateway
// connection.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Registering commands")

	_, err := b.client.Rest().SetGlobalCommands(b.client.ApplicationID(), commands())
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	b.logger.Info("Starting bot")

	return b.client.OpenGateway(ctx)
}

// Close gracefully shuts down the Discord gateway connection.
func (b *Bot) Close() {
	b.logger.Info("Closing bot")
	b.client.Close(context.Background())
}

// commands describes the two slash commands the bot registers at startup.
func commands() []discord.ApplicationCommandCreate {
	roleChoices := []discord.ApplicationCommandOptionChoiceString{
		{Name: "Staff", Value: constants.RoleTagStaff},
		{Name: "Mod", Value: constants.RoleTagMod},
		{Name: "Admin", Value: constants.RoleTagAdmin},
	}

	return []discord.ApplicationCommandCreate{
		discord.SlashCommandCreate{
			Name:        constants.StatsCommandName,
			Description: "Muestra las estadísticas de mensajes de un rol específico.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        constants.RoleOptionName,
					Description: "Selecciona el rol para ver las estadísticas",
					Required:    true,
					Choices:     roleChoices,
				},
				discord.ApplicationCommandOptionString{
					Name:        constants.TypeOptionName,
					Description: "Selecciona el tipo de estadística",
					Required:    true,
					Choices: []discord.ApplicationCommandOptionChoiceString{
						{Name: "Diario", Value: constants.StatsTypeDaily},
						{Name: "Semanal", Value: constants.StatsTypeWeekly},
					},
				},
			},
		},
		discord.SlashCommandCreate{
			Name:        constants.HistoryCommandName,
			Description: "Muestra el historial detallado de mensajes de un rol en las últimas 4 semanas.",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        constants.RoleOptionName,
					Description: "Selecciona el rol para ver el historial",
					Required:    true,
					Choices:     roleChoices,
				},
			},
		},
	}
}

// handleApplicationCommandInteraction processes slash commands by first
// deferring the response, then dispatching by command name in a goroutine.
// Panics are recovered so a bad interaction never takes the process down.
func (b *Bot) handleApplicationCommandInteraction(event *events.ApplicationCommandInteractionCreate) {
	go func() {
		// Commands only make sense inside a guild
		if event.GuildID() == nil {
			return
		}

		// Defer response to prevent Discord timeout while processing
		if err := event.DeferCreateMessage(false); err != nil {
			b.logger.Error("Failed to defer create message", zap.Error(err))
			return
		}

		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in application command interaction handler", zap.Any("panic", r))
				b.respondError(event)
			}

			b.logger.Debug("Application command interaction handled",
				zap.String("command", event.SlashCommandInteractionData().CommandName()),
				zap.Duration("duration", time.Since(start)))
		}()

		switch event.SlashCommandInteractionData().CommandName() {
		case constants.StatsCommandName:
			b.handlers.HandleStats(event)
		case constants.HistoryCommandName:
			b.handlers.HandleHistory(event)
		default:
			b.respondError(event)
		}
	}()
}

// respondError replaces the deferred response with a generic failure
// message.
func (b *Bot) respondError(event *events.ApplicationCommandInteractionCreate) {
	_, _ = event.Client().Rest().UpdateInteractionResponse(event.ApplicationID(), event.Token(),
		discord.NewMessageUpdateBuilder().
			SetContent("Ocurrió un error al procesar el comando.").
			Build())
}
