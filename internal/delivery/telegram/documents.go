package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/deckio"
	"github.com/aliskhannn/langalarm/internal/repository"
	"github.com/aliskhannn/langalarm/internal/service"
)

var errFileTooLarge = errors.New("file too large")

// handleDocument previews an uploaded word list. Duplicates are resolved
// through the import keyboard; a file without duplicates is imported at once.
func (h *Handler) handleDocument(doc *tgbotapi.Document) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if isAudioFile(doc.FileName, doc.MimeType) {
			return h.addSound(ctx, chatID, doc.FileID, doc.FileName)
		}

		format, err := deckio.DetectFormat(doc.FileName)
		if err != nil {
			return h.send(newPlainMessage(chatID, msgUnsupportedFile))
		}
		if doc.FileSize > maxImportFileBytes {
			return h.send(newPlainMessage(chatID, msgFileTooLarge))
		}

		deck, err := h.activeDeck(ctx)
		if errors.Is(err, repository.ErrNoActiveDeck) {
			return h.send(newPlainMessage(chatID, msgNoActiveDeck))
		}
		if err != nil {
			return err
		}

		data, err := h.download(ctx, doc.FileID, maxImportFileBytes)
		if errors.Is(err, errFileTooLarge) {
			return h.send(newPlainMessage(chatID, msgFileTooLarge))
		}
		if err != nil {
			return err
		}

		preview, err := h.deckService.PreviewImport(ctx, deck.ID, bytes.NewReader(data), format)
		if err != nil {
			h.logger.Warn("failed to parse import file", zap.String("file", doc.FileName), zap.Error(err))
			return h.send(newPlainMessage(chatID, msgImportEmpty))
		}
		if len(preview.NewWords) == 0 && len(preview.Duplicates) == 0 {
			return h.send(newPlainMessage(chatID, msgImportEmpty))
		}

		if len(preview.Duplicates) == 0 {
			result, err := h.deckService.FinalizeImport(ctx, preview)
			if err != nil {
				return err
			}
			return h.send(newPlainMessage(chatID, formatImportResult(result)))
		}

		h.imports.Store(chatID, preview)

		msg := newMessage(chatID, formatPreview(preview))
		msg.ReplyMarkup = buildImportKeyboard()
		return h.send(msg)
	}
}

func (h *Handler) handleAudio(audio *tgbotapi.Audio) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		name := audio.FileName
		if name == "" {
			name = audio.Title + extensionForMime(audio.MimeType)
		}
		return h.addSound(ctx, chatID, audio.FileID, name)
	}
}

func (h *Handler) addSound(ctx context.Context, chatID int64, fileID, fileName string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	name := strings.TrimSpace(strings.TrimSuffix(fileName, filepath.Ext(fileName)))
	if name == "" {
		name = "Custom sound"
	}

	data, err := h.download(ctx, fileID, maxSoundFileBytes)
	if errors.Is(err, errFileTooLarge) {
		return h.send(newPlainMessage(chatID, msgFileTooLarge))
	}
	if err != nil {
		return err
	}

	sound, err := h.soundService.Add(ctx, name, ext, bytes.NewReader(data))
	if errors.Is(err, service.ErrInvalidInput) {
		return h.send(newPlainMessage(chatID, msgUnsupportedSound))
	}
	if err != nil {
		return err
	}

	return h.send(newPlainMessage(chatID, fmt.Sprintf("🔊 Sound %q added. Pick it in /sounds.", sound.Name)))
}

var audioExtensions = map[string]bool{".ogg": true, ".oga": true, ".mp3": true, ".wav": true, ".m4a": true}

func isAudioFile(name, mime string) bool {
	return strings.HasPrefix(mime, "audio/") || audioExtensions[strings.ToLower(filepath.Ext(name))]
}

func extensionForMime(mime string) string {
	switch mime {
	case "audio/mpeg":
		return ".mp3"
	case "audio/ogg":
		return ".ogg"
	case "audio/wav", "audio/x-wav":
		return ".wav"
	case "audio/mp4", "audio/x-m4a":
		return ".m4a"
	default:
		return ""
	}
}
