// Package rest exposes decks, alarms, settings and the active quiz over a JSON HTTP API.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Server struct {
	decks    DeckService
	alarms   AlarmService
	settings SettingsService
	sounds   SoundService
	ringer   RingerService
	quiz     QuizService
	logger   *zap.Logger
}

func NewServer(
	decks DeckService,
	alarms AlarmService,
	settings SettingsService,
	sounds SoundService,
	ringer RingerService,
	quiz QuizService,
	logger *zap.Logger,
) *Server {
	return &Server{
		decks:    decks,
		alarms:   alarms,
		settings: settings,
		sounds:   sounds,
		ringer:   ringer,
		quiz:     quiz,
		logger:   logger,
	}
}

// Router builds the HTTP handler with its middleware stack.
func (s *Server) Router(allowedOrigins []string, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}).Handler)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(timeout))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", s.listDecks)
			r.Post("/", s.createDeck)
			r.Route("/{deck_id}", func(r chi.Router) {
				r.Get("/", s.getDeck)
				r.Put("/", s.renameDeck)
				r.Delete("/", s.deleteDeck)
				r.Post("/activate", s.activateDeck)
				r.Get("/words", s.listWords)
				r.Post("/words", s.addWord)
				r.Post("/import", s.importWords)
				r.Get("/export", s.exportWords)
			})
		})

		r.Route("/words", func(r chi.Router) {
			r.Put("/{word_id}", s.updateWord)
			r.Delete("/", s.deleteWords)
		})

		r.Route("/alarms", func(r chi.Router) {
			r.Get("/", s.listAlarms)
			r.Post("/", s.createAlarm)
			r.Get("/{alarm_id}", s.getAlarm)
			r.Put("/{alarm_id}", s.updateAlarm)
			r.Delete("/{alarm_id}", s.deleteAlarm)
			r.Post("/{alarm_id}/toggle", s.toggleAlarm)
		})

		r.Get("/settings", s.getSettings)
		r.Put("/settings", s.updateSettings)

		r.Get("/sounds", s.listSounds)
		r.Put("/sounds/active", s.setActiveSound)

		r.Get("/ringing", s.ringing)
		r.Post("/ringing/stop", s.stopRinging)

		r.Route("/quiz", func(r chi.Router) {
			r.Get("/", s.currentQuiz)
			r.Post("/", s.startQuiz)
			r.Post("/answer", s.answerQuiz)
			r.Delete("/", s.exitQuiz)
		})
	})

	return r
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("http server stopped")
	return nil
}
