package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"pollbot/internal/config"
	"pollbot/internal/discord"
	"pollbot/internal/domain/poll"
	api "pollbot/internal/http"
	"pollbot/internal/metrics"
	"pollbot/internal/repository/memory"
	"pollbot/internal/scheduler"
	"pollbot/internal/worker"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	metrics.Register()

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Fatal().Err(err).Msg("gateway session setup failed")
	}
	session.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	events := make(chan poll.Event, 100)
	svc := poll.NewService(
		memory.NewSessionStore(),
		scheduler.New(),
		discord.NewPublisher(session),
		poll.ServiceOptions{
			Window:    cfg.PollDuration,
			Retention: cfg.SessionRetention,
			Events:    events,
			Logger:    logger,
		},
	)

	bot := discord.NewBot(svc, logger)
	session.AddHandler(bot.OnReady)
	session.AddHandler(bot.OnInteraction)

	if err := session.Open(); err != nil {
		logger.Fatal().Err(err).Msg("gateway connect failed")
	}
	defer session.Close()

	if err := discord.RegisterCommands(session, cfg.ApplicationID, cfg.GuildID); err != nil {
		logger.Fatal().Err(err).Msg("command registration failed")
	}
	logger.Info().Str("guild", cfg.GuildID).Msg("commands registered")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.NewEventsWorker(events, logger).Run(ctx)
	go worker.NewSweeper(svc, cfg.SweepInterval, logger).Run(ctx)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(bot, logger),
	}
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("ops listener started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("ops listener failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("ops listener shutdown failed")
	}
	logger.Info().Msg("bot stopped")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}
