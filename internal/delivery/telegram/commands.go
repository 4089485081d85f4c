package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/deckio"
	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/repository"
	"github.com/aliskhannn/langalarm/internal/service"
)

var errUsage = errors.New("invalid command arguments")

// parseAddAlarmArgs parses "HH:MM [days] [label...]". A second token that is
// not a day list starts the label.
func parseAddAlarmArgs(args string) (service.AlarmInput, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return service.AlarmInput{}, errUsage
	}

	hour, minute, err := entities.ParseClock(fields[0])
	if err != nil {
		return service.AlarmInput{}, fmt.Errorf("%w: %w", errUsage, err)
	}

	rest := fields[1:]
	days := entities.Weekdays{}
	if len(rest) > 0 {
		if parsed, err := entities.ParseWeekdays(rest[0]); err == nil {
			days = parsed
			rest = rest[1:]
		}
	}

	return service.AlarmInput{
		Hour:   hour,
		Minute: minute,
		Days:   days,
		Label:  strings.Join(rest, " "),
	}, nil
}

// parseQuizArgs parses "[target|open] [trials]".
func parseQuizArgs(args string, defaultTrials int) (target, trials int, err error) {
	target, trials = service.DefaultPracticeTarget, defaultTrials

	fields := strings.Fields(args)
	if len(fields) > 2 {
		return 0, 0, errUsage
	}

	if len(fields) > 0 {
		if strings.EqualFold(fields[0], "open") {
			target = service.NoTarget
		} else if target, err = strconv.Atoi(fields[0]); err != nil || target < 1 {
			return 0, 0, errUsage
		}
	}
	if len(fields) > 1 {
		if trials, err = strconv.Atoi(fields[1]); err != nil || trials < 1 {
			return 0, 0, errUsage
		}
	}

	return target, trials, nil
}

// parseWordArgs parses "question = answer".
func parseWordArgs(args string) (service.WordInput, error) {
	question, answer, ok := strings.Cut(args, "=")
	question, answer = strings.TrimSpace(question), strings.TrimSpace(answer)
	if !ok || question == "" || answer == "" {
		return service.WordInput{}, errUsage
	}
	return service.WordInput{Question: question, Answer: answer}, nil
}

func (h *Handler) handleAlarms() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		alarms, err := h.alarmService.List(ctx)
		if err != nil {
			return err
		}
		if len(alarms) == 0 {
			return h.send(newPlainMessage(chatID, msgNoAlarms))
		}

		msg := newMessage(chatID, formatAlarmList(alarms, h.alarmService.NextTrigger))
		msg.ReplyMarkup = buildAlarmsKeyboard(alarms)
		return h.send(msg)
	}
}

func (h *Handler) handleAddAlarm(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		in, err := parseAddAlarmArgs(args)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUseAddAlarm))
		}

		alarm, err := h.alarmService.Create(ctx, in)
		if errors.Is(err, service.ErrInvalidInput) {
			return h.send(newPlainMessage(chatID, msgUseAddAlarm))
		}
		if err != nil {
			return err
		}

		h.logger.Info("alarm added via telegram", zap.String("alarm_id", alarm.ID.String()))

		text := md("⏰ Alarm set: ") + formatAlarm(alarm, h.alarmService.NextTrigger(alarm))
		return h.send(newMessage(chatID, text))
	}
}

func (h *Handler) handleQuiz(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		settings, err := h.settingsService.Get(ctx)
		if err != nil {
			return err
		}

		target, trials, err := parseQuizArgs(args, settings.MaxTrials)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUseQuiz))
		}

		session, err := h.quizService.StartPractice(ctx, target, trials)
		switch {
		case errors.Is(err, service.ErrAlarmQuizActive):
			return h.send(newPlainMessage(chatID, msgAlarmQuizActive))
		case errors.Is(err, service.ErrNoWordsAvailable):
			return h.send(newPlainMessage(chatID, msgEmptyDeck))
		case errors.Is(err, service.ErrInvalidPolicy):
			return h.send(newPlainMessage(chatID, msgUseQuiz))
		case err != nil:
			return err
		}

		text := md(fmt.Sprintf("🧠 Practice started: %s.", formatTarget(session.Policy))) +
			"\n\n" + formatQuestion(session.Question)
		return h.send(newMessage(chatID, text))
	}
}

func (h *Handler) handleAnswer(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if strings.TrimSpace(text) == "" {
			return nil
		}

		res, session, err := h.quizService.Answer(ctx, text)
		switch {
		case errors.Is(err, service.ErrNoActiveSession), errors.Is(err, service.ErrSessionCompleted):
			return h.send(newPlainMessage(chatID, msgNoSession))
		case err != nil:
			return err
		}

		return h.send(newMessage(chatID, formatAnswer(text, res, session)))
	}
}

func formatAnswer(text string, res *service.AnswerResult, session service.QuizSnapshot) string {
	var sb strings.Builder
	policy := session.Policy

	switch res.Outcome {
	case service.OutcomeCorrect:
		if policy.IsOpenEnded() {
			sb.WriteString(md(fmt.Sprintf("✅ Correct! Score: %d", res.Correct)))
		} else {
			sb.WriteString(md(fmt.Sprintf("✅ Correct! %d/%d", res.Correct, policy.Target)))
		}
	case service.OutcomeWrong:
		sb.WriteString(md("❌ Wrong."))
		if service.IsCloseAnswer(text, res.Word.Answer) {
			sb.WriteString(md(" You are close, check the spelling."))
		}
		sb.WriteString(md(fmt.Sprintf(" Tries left: %d.", res.AttemptsLeft)))
	case service.OutcomeSkipped:
		sb.WriteString(md("⏭ The answer was ") + bold(res.Word.Answer) + md("."))
	}

	if res.Completed {
		if session.Mode == service.QuizModePractice {
			sb.WriteString("\n\n" + md(formatPracticeEnd(res.Correct)))
		}
		return sb.String()
	}
	if res.Next != nil {
		sb.WriteString("\n\n" + formatQuestion(res.Next))
	}
	return sb.String()
}

func (h *Handler) handleExit() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, err := h.quizService.Exit()
		switch {
		case errors.Is(err, service.ErrNoActiveSession):
			return h.send(newPlainMessage(chatID, msgNoSession))
		case errors.Is(err, service.ErrCannotExitAlarmQuiz):
			return h.send(newPlainMessage(chatID, msgCannotExitAlarm))
		case err != nil:
			return err
		}
		return h.send(newPlainMessage(chatID, formatPracticeEnd(session.Correct)))
	}
}

// handleStop force stops the ringing alarm. The ringer reports the stop itself.
func (h *Handler) handleStop() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		_, err := h.ringerService.ForceStop(ctx)
		if errors.Is(err, service.ErrNotRinging) {
			return h.send(newPlainMessage(chatID, msgNotRinging))
		}
		return err
	}
}

func (h *Handler) handleDecks() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		decks, err := h.deckService.ListDecks(ctx)
		if err != nil {
			return err
		}
		if len(decks) == 0 {
			return h.send(newPlainMessage(chatID, msgNoDecks))
		}

		msg := newMessage(chatID, formatDecks(decks))
		msg.ReplyMarkup = buildDecksKeyboard(decks)
		return h.send(msg)
	}
}

func (h *Handler) handleNewDeck(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name := strings.TrimSpace(args)
		if name == "" {
			return h.send(newPlainMessage(chatID, msgUseNewDeck))
		}

		deck, err := h.deckService.CreateDeck(ctx, name)
		if errors.Is(err, service.ErrInvalidInput) {
			return h.send(newPlainMessage(chatID, msgUseNewDeck))
		}
		if err != nil {
			return err
		}

		text := fmt.Sprintf("📚 Deck %q created.", deck.Name)
		if deck.IsActive {
			text += " It is now the active deck."
		}
		return h.send(newPlainMessage(chatID, text))
	}
}

// activeDeck returns the active deck, seeding the default deck when none exists.
func (h *Handler) activeDeck(ctx context.Context) (*entities.Deck, error) {
	deck, err := h.deckService.ActiveDeck(ctx)
	if !errors.Is(err, repository.ErrNoActiveDeck) {
		return deck, err
	}
	if _, err := h.deckService.ActiveWords(ctx); err != nil {
		return nil, err
	}
	return h.deckService.ActiveDeck(ctx)
}

func (h *Handler) handleWords(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		text, kb, err := h.renderWords(ctx, 0, entities.ParseWordSort(args))
		if errors.Is(err, repository.ErrNoActiveDeck) {
			return h.send(newPlainMessage(chatID, msgNoActiveDeck))
		}
		if err != nil {
			return err
		}

		msg := newMessage(chatID, text)
		if kb != nil {
			msg.ReplyMarkup = kb
		}
		return h.send(msg)
	}
}

func (h *Handler) renderWords(ctx context.Context, page int, sort entities.WordSort) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	deck, err := h.activeDeck(ctx)
	if err != nil {
		return "", nil, err
	}

	words, err := h.deckService.ListWords(ctx, deck.ID, sort)
	if err != nil {
		return "", nil, err
	}

	text, totalPages := buildWordsPage(deck, words, page)
	return text, buildWordsKeyboard(min(max(page, 0), max(totalPages-1, 0)), totalPages, sort), nil
}

func (h *Handler) handleAddWord(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		in, err := parseWordArgs(args)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUseAddWord))
		}

		deck, err := h.activeDeck(ctx)
		if errors.Is(err, repository.ErrNoActiveDeck) {
			return h.send(newPlainMessage(chatID, msgNoActiveDeck))
		}
		if err != nil {
			return err
		}

		word, err := h.deckService.AddWord(ctx, deck.ID, in)
		if errors.Is(err, service.ErrInvalidInput) {
			return h.send(newPlainMessage(chatID, msgUseAddWord))
		}
		if err != nil {
			return err
		}

		return h.send(newPlainMessage(chatID, fmt.Sprintf("➕ Added %q → %q to %s.", word.Question, word.Answer, deck.Name)))
	}
}

func (h *Handler) handleExport(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name := strings.TrimSpace(args)
		if name == "" {
			name = defaultExportFormat
		}
		format, err := deckio.ParseFormat(name)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUnsupportedFile))
		}

		deck, err := h.activeDeck(ctx)
		if errors.Is(err, repository.ErrNoActiveDeck) {
			return h.send(newPlainMessage(chatID, msgNoActiveDeck))
		}
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		n, err := h.deckService.Export(ctx, deck.ID, &buf, format)
		if err != nil {
			return err
		}

		doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
			Name:  exportFilename(deck.Name, format),
			Bytes: buf.Bytes(),
		})
		doc.Caption = fmt.Sprintf("📤 %d words exported from %s.", n, deck.Name)
		return h.send(doc)
	}
}

func exportFilename(deckName string, format deckio.Format) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, deckName)
	if name == "" {
		name = "deck"
	}
	return name + "." + string(format)
}

func (h *Handler) handleSounds() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		settings, err := h.settingsService.Get(ctx)
		if err != nil {
			return err
		}
		sounds, err := h.soundService.List(ctx)
		if err != nil {
			return err
		}

		msg := newPlainMessage(chatID, "🔊 Choose the alarm sound. Send an audio file to add a new one.")
		msg.ReplyMarkup = buildSoundsKeyboard(sounds, settings.ActiveSound)
		return h.send(msg)
	}
}

func (h *Handler) handleSettings() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		settings, err := h.settingsService.Get(ctx)
		if err != nil {
			return err
		}
		return h.send(newMessage(chatID, formatSettings(settings)))
	}
}

func (h *Handler) handleSet(args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		fields := strings.Fields(args)
		if len(fields) != 2 {
			return h.send(newPlainMessage(chatID, msgUseSet))
		}

		settings, err := h.settingsService.SetValue(ctx, fields[0], fields[1])
		switch {
		case errors.Is(err, service.ErrUnknownSetting):
			return h.send(newPlainMessage(chatID, msgUnknownSetting))
		case errors.Is(err, service.ErrInvalidInput):
			return h.send(newPlainMessage(chatID, msgInvalidValue))
		case err != nil:
			return err
		}

		return h.send(newMessage(chatID, formatSettings(settings)))
	}
}
