package telegram

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

// Callback action constants.
const (
	actionAlarm  = "alarm"
	actionDeck   = "deck"
	actionWords  = "words"
	actionImport = "import"
	actionSound  = "sound"
)

// Alarm sub-actions.
const (
	alarmToggle = "toggle"
	alarmDelete = "delete"
)

// Deck sub-actions.
const (
	deckActivate = "activate"
	deckDelete   = "delete"
)

// Import sub-actions besides the duplicate actions.
const (
	importCancel = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or an empty string.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	if len(parts) == 0 {
		return callbackData{Raw: data}
	}

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

func buildAlarmCallback(sub string, id uuid.UUID) string {
	return callbackData{
		Action: actionAlarm,
		Params: []string{sub, id.String()},
	}.encode()
}

func buildDeckCallback(sub string, id int64) string {
	return callbackData{
		Action: actionDeck,
		Params: []string{sub, strconv.FormatInt(id, 10)},
	}.encode()
}

func buildWordsCallback(page int, sort entities.WordSort) string {
	return callbackData{
		Action: actionWords,
		Params: []string{strconv.Itoa(page), string(sort)},
	}.encode()
}

func buildImportCallback(sub string) string {
	return callbackData{
		Action: actionImport,
		Params: []string{sub},
	}.encode()
}

func buildSoundCallback(id int64) string {
	return callbackData{
		Action: actionSound,
		Params: []string{strconv.FormatInt(id, 10)},
	}.encode()
}
