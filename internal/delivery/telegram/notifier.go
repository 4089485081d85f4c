package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/service"
)

var _ service.AlarmNotifier = (*Handler)(nil)

// NotifyAlarm sends the alarm sound, when a custom one is set, and the first question.
func (h *Handler) NotifyAlarm(ctx context.Context, alarm *entities.Alarm, question *entities.Word, sound string) error {
	if sound != entities.DefaultSound {
		audio := tgbotapi.NewAudio(h.ownerChatID, tgbotapi.FilePath(sound))
		audio.Caption = formatAlarmTitle(alarm)
		if err := h.send(audio); err != nil {
			h.logger.Warn("failed to send alarm sound", zap.String("sound", sound), zap.Error(err))
		}
	}

	text := bold("⏰ "+formatAlarmTitle(alarm)) + "\n\n" +
		md("Answer to dismiss the alarm.") + "\n\n" + formatQuestion(question)
	return h.sendRinging(newMessage(h.ownerChatID, text))
}

// NotifyRinging repeats the current question, replacing the previous ringing message.
func (h *Handler) NotifyRinging(ctx context.Context, alarm *entities.Alarm, question *entities.Word) error {
	text := bold("⏰ Still ringing: "+formatAlarmTitle(alarm)) + "\n\n" + formatQuestion(question)
	return h.sendRinging(newMessage(h.ownerChatID, text))
}

func (h *Handler) NotifyEmptyDeck(ctx context.Context, alarm *entities.Alarm) error {
	text := fmt.Sprintf(msgEmptyDeckRinging, formatAlarmTitle(alarm))
	return h.sendRinging(newPlainMessage(h.ownerChatID, text))
}

func (h *Handler) NotifyStopped(ctx context.Context, alarm *entities.Alarm, reason service.StopReason) error {
	h.messages.Delete(h.ownerChatID)
	return h.send(newPlainMessage(h.ownerChatID, formatStopped(reason)))
}

// sendRinging sends msg and deletes the ringing message it replaces.
func (h *Handler) sendRinging(msg tgbotapi.MessageConfig) error {
	sent, err := h.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send ringing message: %w", err)
	}

	prev, ok := h.messages.UpsertAndGetPrev(h.ownerChatID, sent.MessageID)
	if ok && prev.MessageID != sent.MessageID {
		if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(h.ownerChatID, prev.MessageID)); err != nil {
			h.logger.Debug("failed to delete previous ringing message",
				zap.Int("message_id", prev.MessageID),
				zap.Error(err),
			)
		}
	}
	return nil
}
