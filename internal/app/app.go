// Package app wires repositories, services and delivery layers together.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aliskhannn/langalarm/internal/config"
	"github.com/aliskhannn/langalarm/internal/delivery/rest"
	"github.com/aliskhannn/langalarm/internal/delivery/telegram"
	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/infra/migrations"
	"github.com/aliskhannn/langalarm/internal/service"
	"github.com/aliskhannn/langalarm/internal/storage"
)

// App bundles the services shared by the server and the CLI commands.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Location *time.Location
	DB       *Database

	Decks     *service.DeckService
	Settings  *service.SettingsService
	Sounds    *service.SoundService
	Weights   *service.WeightWriter
	Quiz      *service.QuizService
	Ringer    *service.Ringer
	Scheduler *service.AlarmScheduler
	Alarms    *service.AlarmService
}

// New opens the database, applies pending migrations and builds every service.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	loc, err := entities.ParseLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	db, err := OpenDatabase(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(db.Std, db.Dialect, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Location: loc,
		DB:       db,
	}

	a.Decks = service.NewDeckService(db.Decks, db.Words, cfg.Words.SeedPath, logger)
	a.Settings = service.NewSettingsService(db.Settings)
	a.Sounds = service.NewSoundService(db.Sounds, a.Settings, cfg.Sounds.Dir, logger)
	a.Weights = service.NewWeightWriter(db.Words, cfg.Weights.QueueSize, logger)

	selector := service.NewSelector(rand.NewSource(time.Now().UnixNano()))
	a.Quiz = service.NewQuizService(
		a.Decks,
		a.Settings,
		a.Weights,
		selector,
		storage.NewQuizStorage[*service.QuizSession](),
		logger,
	)

	a.Ringer = service.NewRinger(a.Quiz, a.Sounds, cfg.Ring.RepeatInterval, cfg.Ring.Timeout, loc, logger)
	a.Quiz.SetDismisser(a.Ringer)

	a.Scheduler = service.NewAlarmScheduler(loc, logger)
	a.Alarms = service.NewAlarmService(db.Alarms, a.Scheduler, a.Ringer, loc, logger)
	a.Scheduler.SetHandler(a.Alarms.HandleDue)

	return a, nil
}

func (a *App) Close() {
	a.DB.Close()
}

// Serve schedules every enabled alarm and runs the background workers and the
// enabled delivery layers until ctx is cancelled or one of them fails.
func (a *App) Serve(ctx context.Context) error {
	if _, err := a.Alarms.RescheduleAll(ctx); err != nil {
		return err
	}

	var handler *telegram.Handler
	if a.Config.Telegram.Enabled {
		h, err := a.newTelegramHandler()
		if err != nil {
			return err
		}
		handler = h
		a.Ringer.SetNotifier(handler)
	} else {
		a.Logger.Warn("telegram disabled, ringing alarms are only logged")
		a.Ringer.SetNotifier(newLogNotifier(a.Logger))
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.Weights.Run(ctx) })
	g.Go(func() error { return a.Ringer.Run(ctx) })
	g.Go(func() error { return a.Scheduler.Run(ctx) })

	if handler != nil {
		g.Go(func() error { return handler.Run(ctx) })
	}

	if a.Config.HTTP.Enabled {
		server := rest.NewServer(a.Decks, a.Alarms, a.Settings, a.Sounds, a.Ringer, a.Quiz, a.Logger)
		router := server.Router(a.Config.HTTP.CORS.AllowedOrigins, a.Config.HTTP.Timeout)
		g.Go(func() error { return rest.Run(ctx, a.Config.HTTP.Addr, router, a.Logger) })
	}

	return g.Wait()
}

func (a *App) newTelegramHandler() (*telegram.Handler, error) {
	bot, err := tgbotapi.NewBotAPI(a.Config.Telegram.APIToken)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	bot.Debug = a.Config.Telegram.Debug

	a.Logger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	handler := telegram.NewHandler(
		bot,
		a.Config.Telegram.OwnerChatID,
		a.Logger,
		a.Quiz,
		a.Alarms,
		a.Ringer,
		a.Decks,
		a.Settings,
		a.Sounds,
		storage.NewImportStorage(),
		storage.NewMessageStorage(),
	)
	handler.RegisterCommands()

	return handler, nil
}
