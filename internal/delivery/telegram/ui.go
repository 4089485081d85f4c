package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

// buildWordsKeyboard builds pagination keyboard for the word list.
func buildWordsKeyboard(page, totalPages int, sort entities.WordSort) *tgbotapi.InlineKeyboardMarkup {
	if totalPages <= 1 {
		return nil
	}

	var row []tgbotapi.InlineKeyboardButton
	if page > 0 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("◀️ Previous", buildWordsCallback(page-1, sort)))
	}
	if page < totalPages-1 {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next ▶️", buildWordsCallback(page+1, sort)))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(row)
	return &kb
}

// buildAlarmsKeyboard builds one toggle/delete row per alarm.
func buildAlarmsKeyboard(alarms []*entities.Alarm) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(alarms))
	for i, a := range alarms {
		toggle := "🔕 Turn off"
		if !a.IsEnabled {
			toggle = "🔔 Turn on"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d. %s", i+1, toggle), buildAlarmCallback(alarmToggle, a.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", buildAlarmCallback(alarmDelete, a.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildDecksKeyboard builds activate/delete buttons for every deck.
func buildDecksKeyboard(decks []*entities.DeckWithCount) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(decks))
	for _, d := range decks {
		prefix := "▶️ "
		if d.IsActive {
			prefix = "✅ "
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(prefix+d.Name, buildDeckCallback(deckActivate, d.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", buildDeckCallback(deckDelete, d.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildImportKeyboard builds the duplicate resolution keyboard.
func buildImportKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏭ Skip all", buildImportCallback(string(entities.DuplicateSkip))),
			tgbotapi.NewInlineKeyboardButtonData("✏️ Overwrite all", buildImportCallback(string(entities.DuplicateOverwrite))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Keep both", buildImportCallback(string(entities.DuplicateKeepBoth))),
			tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", buildImportCallback(importCancel)),
		),
	)
}

// buildSoundsKeyboard lists the default sound followed by custom sounds.
func buildSoundsKeyboard(sounds []*entities.Sound, active string) tgbotapi.InlineKeyboardMarkup {
	label := func(name string, selected bool) string {
		if selected {
			return "✅ " + name
		}
		return name
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label("Default", active == entities.DefaultSound), buildSoundCallback(0)),
		),
	}
	for _, s := range sounds {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label(s.Name, active == s.Path), buildSoundCallback(s.ID)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
