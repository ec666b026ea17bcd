package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/recuentobot/recuento/internal/bot"
	"github.com/recuentobot/recuento/internal/scheduler"
	"github.com/recuentobot/recuento/internal/server"
	"github.com/recuentobot/recuento/internal/setup"
	"github.com/urfave/cli/v3"
)

const (
	// BotLogDir specifies where bot log files are stored.
	BotLogDir = "logs/bot_logs"
)

func main() {
	app := &cli.Command{
		Name:   "recuento",
		Usage:  "Discord bot that tallies staff message activity",
		Action: run,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, _ *cli.Command) error {
	// Initialize application with required dependencies
	app, err := setup.InitializeApp(ctx, BotLogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.CleanupApp()

	// Create bot instance
	discordBot, err := bot.New(app.Config, app.Store, app.Mirror, app.Writer, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	// Start the reset timers
	resets := scheduler.New(app.Store, app.Logger)
	if err := resets.Start(); err != nil {
		return fmt.Errorf("failed to start reset scheduler: %w", err)
	}
	defer resets.Stop()

	// Keep-alive endpoint for the hosting platform
	liveness := server.New(app.Config.Server.Port, app.Store, app.Logger)
	liveness.Start()
	defer liveness.Stop(context.Background())

	// Start the bot and connect to Discord
	if err := discordBot.Start(ctx); err != nil {
		return fmt.Errorf("failed to start bot: %w", err)
	}

	log.Println("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")

	// Wait for interrupt signal to gracefully shutdown the bot
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Cleanly close down the Discord session
	discordBot.Close()

	return nil
}
