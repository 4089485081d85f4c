package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

// drainTimeout bounds how long queued updates are flushed on shutdown.
const drainTimeout = 5 * time.Second

type WeightUpdater interface {
	UpdateWeight(ctx context.Context, id int64, weight int) error
}

type weightUpdate struct {
	wordID int64
	weight int
}

// WeightWriter persists word weights off the answer path.
// Updates are best effort: a full queue drops the update.
type WeightWriter struct {
	repo   WeightUpdater
	queue  chan weightUpdate
	logger *zap.Logger
}

func NewWeightWriter(repo WeightUpdater, size int, logger *zap.Logger) *WeightWriter {
	if size < 1 {
		size = 1
	}
	return &WeightWriter{
		repo:   repo,
		queue:  make(chan weightUpdate, size),
		logger: logger,
	}
}

// Enqueue schedules the current weight of word for persistence. It never blocks.
func (w *WeightWriter) Enqueue(word *entities.Word) {
	if word == nil || word.ID == 0 {
		return
	}

	u := weightUpdate{wordID: word.ID, weight: entities.ClampWeight(word.Weight)}
	select {
	case w.queue <- u:
	default:
		w.logger.Warn("weight queue full, dropping update",
			zap.Int64("word_id", u.wordID),
			zap.Int("weight", u.weight),
		)
	}
}

// Run writes queued updates until ctx is done, then flushes what is left.
func (w *WeightWriter) Run(ctx context.Context) error {
	w.logger.Info("weight writer started")

	for {
		select {
		case u := <-w.queue:
			w.write(ctx, u)
		case <-ctx.Done():
			w.drain()
			w.logger.Info("weight writer stopped")
			return nil
		}
	}
}

func (w *WeightWriter) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case u := <-w.queue:
			w.write(ctx, u)
		default:
			return
		}
	}
}

func (w *WeightWriter) write(ctx context.Context, u weightUpdate) {
	if err := w.repo.UpdateWeight(ctx, u.wordID, u.weight); err != nil {
		w.logger.Error("failed to persist word weight",
			zap.Int64("word_id", u.wordID),
			zap.Int("weight", u.weight),
			zap.Error(err),
		)
	}
}
