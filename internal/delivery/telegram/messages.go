// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/service"
)

const (
	msgWelcome = "⏰ Language Alarm\n\n" +
		"Your alarms only stop once you answer enough vocabulary questions correctly.\n\n" +
		"1. Add an alarm with /addalarm 07:30 mon,tue,wed,thu,fri Work\n" +
		"2. Upload a CSV or XLSX file with question,answer[,weight] rows to fill your deck.\n" +
		"3. Practice any time with /quiz.\n\n" +
		"Send /help for all commands."
	msgHelp = "Alarms\n" +
		"/alarms - list, toggle and delete alarms\n" +
		"/addalarm HH:MM [days] [label] - days: mon,wed,fri | weekdays | weekends | daily | once\n" +
		"/stop - force stop the ringing alarm\n\n" +
		"Quiz\n" +
		"/quiz [target|open] [trials] - start practice\n" +
		"/exit - end practice\n" +
		"Any other text answers the current question.\n\n" +
		"Decks\n" +
		"/decks - list and activate decks\n" +
		"/newdeck NAME - create a deck\n" +
		"/words [sort] - list words (alphabetical, weight, weight_desc, newest, oldest)\n" +
		"/add question = answer - add a word to the active deck\n" +
		"/export [csv|xlsx] - export the active deck\n" +
		"Send a CSV or XLSX document to import it into the active deck.\n\n" +
		"Settings\n" +
		"/settings - show settings\n" +
		"/set KEY VALUE - keys: required_correct, buffer_size, max_trials\n" +
		"/sounds - choose the alarm sound; send an audio file to add one"

	msgInternalError    = "Something went wrong. Please try again later."
	msgUnknownCommand   = "Unknown command. Send /help for the list of commands."
	msgNotOwner         = "This bot is private."
	msgNoSession        = "No quiz is running. Start one with /quiz."
	msgAlarmQuizActive  = "An alarm is ringing. Answer its questions first."
	msgCannotExitAlarm  = "The alarm quiz cannot be exited. Answer the questions or use /stop."
	msgNotRinging       = "No alarm is ringing."
	msgNoAlarms         = "No alarms yet. Add one with /addalarm 07:30."
	msgUseAddAlarm      = "Use: /addalarm HH:MM [days] [label]\nExample: /addalarm 07:30 weekdays Work"
	msgUseNewDeck       = "Use: /newdeck NAME"
	msgUseAddWord       = "Use: /add question = answer"
	msgUseSet           = "Use: /set KEY VALUE\nKeys: required_correct, buffer_size, max_trials"
	msgUseQuiz          = "Use: /quiz [target|open] [trials]"
	msgEmptyDeck        = "The active deck has no words. Add some with /add or upload a file."
	msgNoDecks          = "No decks yet. Create one with /newdeck NAME."
	msgNoActiveDeck     = "No deck is active. Pick one in /decks."
	msgUnsupportedFile  = "Only .csv, .txt and .xlsx files can be imported."
	msgFileTooLarge     = "The file is too large."
	msgImportEmpty      = "No valid rows found in the file."
	msgImportExpired    = "This import has expired. Send the file again."
	msgImportCancelled  = "Import cancelled."
	msgInvalidValue     = "Invalid value."
	msgUnknownSetting   = "Unknown setting. Keys: required_correct, buffer_size, max_trials"
	msgUnsupportedSound = "Unsupported audio format. Use ogg, mp3, wav or m4a."
	msgEmptyDeckRinging = "⏰ %s\n\nThe active deck has no words, so there is nothing to answer. Send /stop to stop the alarm."
	msgStoppedSolved    = "✅ Alarm dismissed. Good morning!"
	msgStoppedForced    = "🛑 Alarm stopped."
	msgStoppedTimeout   = "⌛ Alarm stopped after ringing too long."
)

const (
	wordsPerPage        = 20
	maxImportFileBytes  = 10 << 20
	maxSoundFileBytes   = 20 << 20
	defaultExportFormat = "csv"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func formatQuestion(w *entities.Word) string {
	return "❓ " + bold(w.Question)
}

func formatAlarmTitle(a *entities.Alarm) string {
	if a.Label == "" {
		return "Alarm " + a.TimeString()
	}
	return a.Label + " " + a.TimeString()
}

func formatAlarm(a *entities.Alarm, next time.Time) string {
	state := "off"
	if a.IsEnabled {
		state = "on"
	}

	line := fmt.Sprintf("%s %s · %s · %s", bold(a.TimeString()), md(a.Days.String()), md(state), md(a.Label))
	if a.IsEnabled {
		line += "\n" + md("next: "+next.Format("Mon 02 Jan 15:04"))
	}
	return line
}

func formatAlarmList(alarms []*entities.Alarm, next func(*entities.Alarm) time.Time) string {
	var sb strings.Builder
	sb.WriteString(bold("⏰ Alarms"))
	for i, a := range alarms {
		sb.WriteString(fmt.Sprintf("\n\n%s %s", md(fmt.Sprintf("%d.", i+1)), formatAlarm(a, next(a))))
	}
	return sb.String()
}

func formatDecks(decks []*entities.DeckWithCount) string {
	var sb strings.Builder
	sb.WriteString(bold("📚 Decks"))
	for _, d := range decks {
		marker := "▫️"
		if d.IsActive {
			marker = "✅"
		}
		sb.WriteString(fmt.Sprintf("\n%s %s %s", marker, md(d.Name), md(fmt.Sprintf("(%d words)", d.WordCount))))
	}
	return sb.String()
}

// buildWordsPage renders one page of words and returns the number of pages.
func buildWordsPage(deck *entities.Deck, words []*entities.Word, page int) (string, int) {
	totalPages := (len(words) + wordsPerPage - 1) / wordsPerPage
	if totalPages == 0 {
		return md(msgEmptyDeck), 0
	}
	page = min(max(page, 0), totalPages-1)

	var sb strings.Builder
	sb.WriteString(bold(fmt.Sprintf("📖 %s (%d)", deck.Name, len(words))))
	sb.WriteString("\n")

	start := page * wordsPerPage
	end := min(start+wordsPerPage, len(words))
	for _, w := range words[start:end] {
		sb.WriteString(fmt.Sprintf("\n%s %s %s", bold(w.Question), md("→ "+w.Answer), md(fmt.Sprintf("[%d]", w.Weight))))
	}

	if totalPages > 1 {
		sb.WriteString("\n\n" + md(fmt.Sprintf("Page %d/%d", page+1, totalPages)))
	}
	return sb.String(), totalPages
}

func formatSettings(s *entities.Settings) string {
	sound := s.ActiveSound
	if sound != entities.DefaultSound {
		sound = filepath.Base(sound)
	}

	return fmt.Sprintf(
		"%s\n\n%s\n%s\n%s\n%s\n\n%s",
		bold("⚙️ Settings"),
		md(fmt.Sprintf("✅ Correct answers to dismiss: %d", s.RequiredCorrect)),
		md(fmt.Sprintf("🔁 Words before a repeat: %d", s.BufferSize)),
		md(fmt.Sprintf("❌ Wrong tries before skipping: %d", s.MaxTrials)),
		md("🔊 Sound: "+sound),
		md("Change with /set KEY VALUE, e.g. /set required_correct 5"),
	)
}

func formatPreview(p *entities.ImportPreview) string {
	var sb strings.Builder
	sb.WriteString(md(fmt.Sprintf("📥 %d new words, %d duplicates.", len(p.NewWords), len(p.Duplicates))))

	shown := min(len(p.Duplicates), 10)
	for _, d := range p.Duplicates[:shown] {
		sb.WriteString("\n" + md(fmt.Sprintf("• %s: %s → %s", d.New.Question, d.Existing.Answer, d.New.Answer)))
	}
	if len(p.Duplicates) > shown {
		sb.WriteString("\n" + md(fmt.Sprintf("… and %d more", len(p.Duplicates)-shown)))
	}

	sb.WriteString("\n\n" + md("What should happen with the duplicates?"))
	return sb.String()
}

func formatImportResult(r *entities.ImportResult) string {
	return fmt.Sprintf("📥 Import done: %d added, %d overwritten, %d skipped.", r.Inserted, r.Overwritten, r.Skipped)
}

func formatStopped(reason service.StopReason) string {
	switch reason {
	case service.StopSolved:
		return msgStoppedSolved
	case service.StopTimeout:
		return msgStoppedTimeout
	default:
		return msgStoppedForced
	}
}

func formatPracticeEnd(correct int) string {
	return fmt.Sprintf("🏁 Practice ended with %d correct answers.", correct)
}

func formatTarget(p service.QuizPolicy) string {
	if p.IsOpenEnded() {
		return "open-ended, /exit to stop"
	}
	return fmt.Sprintf("%d correct answers", p.Target)
}
