package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/repository"
)

// callbackResult is what a callback wants to show: an edit of the pressed
// message and an optional toast.
type callbackResult struct {
	text  string
	kb    *tgbotapi.InlineKeyboardMarkup
	toast string
	plain bool
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := decodeCallback(cb.Data)

	var (
		res *callbackResult
		err error
	)

	switch data.Action {
	case actionAlarm:
		res, err = h.handleAlarmCallback(ctx, data)
	case actionDeck:
		res, err = h.handleDeckCallback(ctx, data)
	case actionWords:
		res, err = h.handleWordsCallback(ctx, data)
	case actionImport:
		res, err = h.handleImportCallback(ctx, cb.Message.Chat.ID, data)
	case actionSound:
		res, err = h.handleSoundCallback(ctx, data)
	default:
		h.logger.Warn("unknown callback", zap.String("data", cb.Data))
	}

	toast := ""
	switch {
	case err != nil:
		h.logger.Error("callback failed", zap.String("data", cb.Data), zap.Error(err))
		toast = msgInternalError
	case res != nil:
		toast = res.toast
		if res.text != "" {
			h.editMessage(cb.Message, res)
		}
	}

	// Remove the user's "clock".
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, toast)); err != nil {
		h.logger.Warn("callback answer error", zap.Error(err))
	}
}

func (h *Handler) editMessage(msg *tgbotapi.Message, res *callbackResult) {
	var edit tgbotapi.EditMessageTextConfig
	if res.plain {
		edit = tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, res.text)
	} else {
		edit = newEdit(msg.Chat.ID, msg.MessageID, res.text)
	}
	if res.kb != nil {
		edit.ReplyMarkup = res.kb
	}
	_ = h.send(edit)
}

func (h *Handler) handleAlarmCallback(ctx context.Context, data callbackData) (*callbackResult, error) {
	id, err := uuid.Parse(data.param(1))
	if err != nil {
		h.logger.Warn("invalid alarm callback", zap.String("data", data.Raw))
		return nil, nil
	}

	toast := ""
	switch data.param(0) {
	case alarmToggle:
		alarm, err := h.alarmService.Toggle(ctx, id)
		if err != nil && !errors.Is(err, repository.ErrAlarmNotFound) {
			return nil, err
		}
		if alarm != nil {
			toast = "Alarm turned off"
			if alarm.IsEnabled {
				toast = "Alarm turned on"
			}
		}
	case alarmDelete:
		if err := h.alarmService.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrAlarmNotFound) {
			return nil, err
		}
		toast = "Alarm deleted"
	default:
		return nil, nil
	}

	alarms, err := h.alarmService.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(alarms) == 0 {
		return &callbackResult{text: msgNoAlarms, plain: true, toast: toast}, nil
	}

	kb := buildAlarmsKeyboard(alarms)
	return &callbackResult{
		text:  formatAlarmList(alarms, h.alarmService.NextTrigger),
		kb:    &kb,
		toast: toast,
	}, nil
}

func (h *Handler) handleDeckCallback(ctx context.Context, data callbackData) (*callbackResult, error) {
	id, err := strconv.ParseInt(data.param(1), 10, 64)
	if err != nil {
		h.logger.Warn("invalid deck callback", zap.String("data", data.Raw))
		return nil, nil
	}

	toast := ""
	switch data.param(0) {
	case deckActivate:
		if err := h.deckService.SetActiveDeck(ctx, id); err != nil && !errors.Is(err, repository.ErrDeckNotFound) {
			return nil, err
		}
		toast = "Deck activated"
	case deckDelete:
		if err := h.deckService.DeleteDeck(ctx, id); err != nil && !errors.Is(err, repository.ErrDeckNotFound) {
			return nil, err
		}
		toast = "Deck deleted"
	default:
		return nil, nil
	}

	decks, err := h.deckService.ListDecks(ctx)
	if err != nil {
		return nil, err
	}
	if len(decks) == 0 {
		return &callbackResult{text: msgNoDecks, plain: true, toast: toast}, nil
	}

	kb := buildDecksKeyboard(decks)
	return &callbackResult{text: formatDecks(decks), kb: &kb, toast: toast}, nil
}

func (h *Handler) handleWordsCallback(ctx context.Context, data callbackData) (*callbackResult, error) {
	page, err := strconv.Atoi(data.param(0))
	if err != nil || page < 0 {
		h.logger.Warn("invalid page in callback", zap.String("data", data.Raw))
		return nil, nil
	}

	text, kb, err := h.renderWords(ctx, page, entities.ParseWordSort(data.param(1)))
	if errors.Is(err, repository.ErrNoActiveDeck) {
		return &callbackResult{text: msgNoActiveDeck, plain: true}, nil
	}
	if err != nil {
		return nil, err
	}
	return &callbackResult{text: text, kb: kb}, nil
}

func (h *Handler) handleImportCallback(ctx context.Context, chatID int64, data callbackData) (*callbackResult, error) {
	preview, ok := h.imports.Take(chatID)
	if !ok {
		return &callbackResult{text: msgImportExpired, plain: true}, nil
	}

	action := data.param(0)
	if action == importCancel {
		return &callbackResult{text: msgImportCancelled, plain: true}, nil
	}

	preview.ResolveAll(entities.ParseDuplicateAction(action))
	result, err := h.deckService.FinalizeImport(ctx, preview)
	if err != nil {
		return nil, err
	}

	h.logger.Info("import finalized",
		zap.Int64("deck_id", preview.DeckID),
		zap.Int("inserted", result.Inserted),
		zap.Int("overwritten", result.Overwritten),
		zap.Int("skipped", result.Skipped),
	)

	return &callbackResult{text: formatImportResult(result), plain: true}, nil
}

func (h *Handler) handleSoundCallback(ctx context.Context, data callbackData) (*callbackResult, error) {
	id, err := strconv.ParseInt(data.param(0), 10, 64)
	if err != nil {
		h.logger.Warn("invalid sound callback", zap.String("data", data.Raw))
		return nil, nil
	}

	if err := h.soundService.SetActive(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSoundNotFound) {
			return &callbackResult{toast: "Sound not found"}, nil
		}
		return nil, err
	}

	settings, err := h.settingsService.Get(ctx)
	if err != nil {
		return nil, err
	}
	sounds, err := h.soundService.List(ctx)
	if err != nil {
		return nil, err
	}

	kb := buildSoundsKeyboard(sounds, settings.ActiveSound)
	return &callbackResult{
		text:  "🔊 Choose the alarm sound. Send an audio file to add a new one.",
		kb:    &kb,
		toast: "Sound selected",
		plain: true,
	}, nil
}
