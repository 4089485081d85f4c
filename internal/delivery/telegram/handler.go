package telegram

import (
	"context"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Commands registered with Telegram on startup.
var botCommands = []tgbotapi.BotCommand{
	{Command: "start", Description: "Start the bot"},
	{Command: "help", Description: "Show help"},
	{Command: "alarms", Description: "List alarms"},
	{Command: "addalarm", Description: "Add an alarm: /addalarm 07:30 mon,fri Label"},
	{Command: "quiz", Description: "Practice: /quiz [target|open] [trials]"},
	{Command: "exit", Description: "End the practice session"},
	{Command: "stop", Description: "Force stop the ringing alarm"},
	{Command: "decks", Description: "List decks"},
	{Command: "newdeck", Description: "Create a deck: /newdeck NAME"},
	{Command: "words", Description: "List words of the active deck"},
	{Command: "add", Description: "Add a word: /add question = answer"},
	{Command: "export", Description: "Export the active deck: /export [csv|xlsx]"},
	{Command: "sounds", Description: "Choose the alarm sound"},
	{Command: "settings", Description: "Show quiz settings"},
	{Command: "set", Description: "Change a setting: /set KEY VALUE"},
}

type Handler struct {
	bot             Bot
	ownerChatID     int64
	logger          *zap.Logger
	quizService     QuizService
	alarmService    AlarmService
	ringerService   RingerService
	deckService     DeckService
	settingsService SettingsService
	soundService    SoundService
	imports         ImportStorage
	messages        MessageStorage
	client          *http.Client
}

func NewHandler(
	bot Bot,
	ownerChatID int64,
	logger *zap.Logger,
	quizService QuizService,
	alarmService AlarmService,
	ringerService RingerService,
	deckService DeckService,
	settingsService SettingsService,
	soundService SoundService,
	imports ImportStorage,
	messages MessageStorage,
) *Handler {
	return &Handler{
		bot:             bot,
		ownerChatID:     ownerChatID,
		logger:          logger,
		quizService:     quizService,
		alarmService:    alarmService,
		ringerService:   ringerService,
		deckService:     deckService,
		settingsService: settingsService,
		soundService:    soundService,
		imports:         imports,
		messages:        messages,
		client:          &http.Client{Timeout: 30 * time.Second},
	}
}

// RegisterCommands publishes the command list shown by Telegram clients.
func (h *Handler) RegisterCommands() {
	if _, err := h.bot.Request(tgbotapi.NewSetMyCommands(botCommands...)); err != nil {
		h.logger.Warn("failed to set bot commands", zap.Error(err))
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		if !h.allow(update.CallbackQuery.Message.Chat.ID) {
			return
		}
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	chatID := update.Message.Chat.ID
	if !h.allow(chatID) {
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", update.Message.Text),
	)

	if update.Message.Document != nil {
		_ = h.withErrorHandling(h.handleDocument(update.Message.Document))(ctx, chatID)
		return
	}
	if update.Message.Audio != nil {
		_ = h.withErrorHandling(h.handleAudio(update.Message.Audio))(ctx, chatID)
		return
	}

	if update.Message.IsCommand() {
		args := update.Message.CommandArguments()

		var fn HandlerFunc
		switch update.Message.Command() {
		case "start":
			fn = h.sendText(msgWelcome)
		case "help":
			fn = h.sendText(msgHelp)
		case "alarms":
			fn = h.handleAlarms()
		case "addalarm":
			fn = h.handleAddAlarm(args)
		case "quiz":
			fn = h.handleQuiz(args)
		case "exit":
			fn = h.handleExit()
		case "stop":
			fn = h.handleStop()
		case "decks":
			fn = h.handleDecks()
		case "newdeck":
			fn = h.handleNewDeck(args)
		case "words":
			fn = h.handleWords(args)
		case "add":
			fn = h.handleAddWord(args)
		case "export":
			fn = h.handleExport(args)
		case "sounds":
			fn = h.handleSounds()
		case "settings":
			fn = h.handleSettings()
		case "set":
			fn = h.handleSet(args)
		default:
			fn = h.sendText(msgUnknownCommand)
		}

		_ = h.withErrorHandling(fn)(ctx, chatID)
		return
	}

	_ = h.withErrorHandling(h.handleAnswer(update.Message.Text))(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message", zap.Error(err))
		return err
	}
	return nil
}

func (h *Handler) sendText(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newPlainMessage(chatID, text))
	}
}
