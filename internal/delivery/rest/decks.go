package rest

import (
	"bytes"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/deckio"
	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/service"
)

const maxImportBytes = 10 << 20

type deckRequest struct {
	Name string `json:"name"`
}

type deleteWordsRequest struct {
	IDs []int64 `json:"ids"`
}

type importResponse struct {
	Inserted    int `json:"inserted"`
	Overwritten int `json:"overwritten"`
	Skipped     int `json:"skipped"`
}

func (s *Server) listDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.decks.ListDecks(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if decks == nil {
		decks = []*entities.DeckWithCount{}
	}
	respondJSON(w, http.StatusOK, decks)
}

func (s *Server) getDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "deck_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	deck, err := s.decks.GetDeck(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deck)
}

func (s *Server) createDeck(w http.ResponseWriter, r *http.Request) {
	var req deckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	deck, err := s.decks.CreateDeck(r.Context(), req.Name)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, deck)
}

func (s *Server) renameDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "deck_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req deckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := s.decks.RenameDeck(r.Context(), id, req.Name); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "deck_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := s.decks.DeleteDeck(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) activateDeck(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "deck_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if err := s.decks.SetActiveDeck(r.Context(), id); err != nil {
		s.handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listWords(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "deck_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	words, err := s.decks.ListWords(r.Context(), id, entities.ParseWordSort(r.URL.Query().Get("sort")))
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, words)
}

func (s *Server) addWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "deck_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req service.WordInput
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	word, err := s.decks.AddWord(r.Context(), id, req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, word)
}

func (s *Server) updateWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "word_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var req service.WordInput
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	word, err := s.decks.UpdateWord(r.Context(), id, req)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, word)
}

func (s *Server) deleteWords(w http.ResponseWriter, r *http.Request) {
	var req deleteWordsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, r, err)
		return
	}

	n, err := s.decks.DeleteWords(r.Context(), req.IDs)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

// importWords reads a CSV or XLSX body into the deck. Duplicates get the
// action from the duplicates query parameter, skip by default.
func (s *Server) importWords(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "deck_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	format, err := deckio.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	preview, err := s.decks.PreviewImport(r.Context(), id, http.MaxBytesReader(w, r.Body, maxImportBytes), format)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	preview.ResolveAll(entities.ParseDuplicateAction(r.URL.Query().Get("duplicates")))

	result, err := s.decks.FinalizeImport(r.Context(), preview)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.logger.Info("words imported over http",
		zap.Int64("deck_id", id),
		zap.Int("inserted", result.Inserted),
		zap.Int("overwritten", result.Overwritten),
	)

	respondJSON(w, http.StatusOK, importResponse{
		Inserted:    result.Inserted,
		Overwritten: result.Overwritten,
		Skipped:     result.Skipped,
	})
}

func (s *Server) exportWords(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "deck_id")
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	name := r.URL.Query().Get("format")
	if name == "" {
		name = string(deckio.FormatCSV)
	}
	format, err := deckio.ParseFormat(name)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if _, err := s.decks.Export(r.Context(), id, &buf, format); err != nil {
		s.handleError(w, r, err)
		return
	}

	contentType := "text/csv; charset=utf-8"
	if format == deckio.FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="deck-%d.%s"`, id, format))
	_, _ = w.Write(buf.Bytes())
}
