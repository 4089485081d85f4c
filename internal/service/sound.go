package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
)

type SoundInput struct {
	Name string `validate:"required,max=100"`
	Ext  string `validate:"omitempty,oneof=.ogg .mp3 .wav .m4a .oga"`
}

// SoundService manages custom alarm sounds stored in a directory.
type SoundService struct {
	repo     SoundRepository
	settings *SettingsService
	dir      string
	logger   *zap.Logger
}

func NewSoundService(repo SoundRepository, settings *SettingsService, dir string, logger *zap.Logger) *SoundService {
	return &SoundService{
		repo:     repo,
		settings: settings,
		dir:      dir,
		logger:   logger,
	}
}

func (s *SoundService) List(ctx context.Context) ([]*entities.Sound, error) {
	return s.repo.List(ctx)
}

// Add copies the audio in r into the sounds directory and registers it.
func (s *SoundService) Add(ctx context.Context, name, ext string, r io.Reader) (*entities.Sound, error) {
	in := SoundInput{Name: strings.TrimSpace(name), Ext: strings.ToLower(ext)}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.Ext == "" {
		in.Ext = ".ogg"
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create sounds dir: %w", err)
	}

	path := filepath.Join(s.dir, fmt.Sprintf("custom_sound_%d%s", time.Now().UnixMilli(), in.Ext))
	if err := writeFile(path, r); err != nil {
		return nil, err
	}

	sound := &entities.Sound{Name: in.Name, Path: path, CreatedAt: time.Now()}
	id, err := s.repo.Create(ctx, sound)
	if err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("create sound: %w", err)
	}
	sound.ID = id

	s.logger.Info("sound added", zap.Int64("sound_id", id), zap.String("path", path))
	return sound, nil
}

func (s *SoundService) Rename(ctx context.Context, id int64, name string) error {
	in := SoundInput{Name: strings.TrimSpace(name)}
	if err := validateStruct(in); err != nil {
		return err
	}
	return s.repo.Rename(ctx, id, in.Name)
}

// Remove deletes a sound and its file. Alarms fall back to the default
// sound if it was active.
func (s *SoundService) Remove(ctx context.Context, id int64) error {
	sound, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete sound: %w", err)
	}

	if err := os.Remove(sound.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("failed to remove sound file", zap.String("path", sound.Path), zap.Error(err))
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return err
	}
	if settings.ActiveSound == sound.Path {
		return s.settings.setActiveSound(ctx, entities.DefaultSound)
	}
	return nil
}

// SetActive selects the sound played by alarms. id 0 selects the default sound.
func (s *SoundService) SetActive(ctx context.Context, id int64) error {
	if id == 0 {
		return s.settings.setActiveSound(ctx, entities.DefaultSound)
	}

	sound, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.settings.setActiveSound(ctx, sound.Path)
}

// ActivePath returns the active sound, falling back to the default sound
// when the configured file is gone.
func (s *SoundService) ActivePath(ctx context.Context) (string, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return entities.DefaultSound, err
	}

	if settings.ActiveSound == entities.DefaultSound {
		return entities.DefaultSound, nil
	}
	if _, err := os.Stat(settings.ActiveSound); err != nil {
		s.logger.Warn("active sound missing, using default", zap.String("path", settings.ActiveSound))
		return entities.DefaultSound, nil
	}
	return settings.ActiveSound, nil
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create sound file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write sound file: %w", err)
	}
	return f.Close()
}
