package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aliskhannn/langalarm/internal/domain/entities"
	"github.com/aliskhannn/langalarm/internal/repository"
)

var ErrUnknownSetting = errors.New("unknown setting")

// Setting keys accepted by SetValue.
const (
	SettingRequiredCorrect = "required_correct"
	SettingBufferSize      = "buffer_size"
	SettingMaxTrials       = "max_trials"
)

type SettingsService struct {
	repository SettingsRepository
}

func NewSettingsService(repository SettingsRepository) *SettingsService {
	return &SettingsService{repository: repository}
}

// Get returns the stored settings, or the defaults when none are stored.
// Values below their minimum are coerced up.
func (s *SettingsService) Get(ctx context.Context) (*entities.Settings, error) {
	settings, err := s.repository.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return entities.NewSettings(), nil
		}
		return nil, err
	}

	settings.Normalize()
	return settings, nil
}

// Update normalizes and stores settings.
func (s *SettingsService) Update(ctx context.Context, settings *entities.Settings) (*entities.Settings, error) {
	settings.Normalize()
	settings.UpdatedAt = time.Now()

	if err := s.repository.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	return settings, nil
}

// SetValue changes one numeric setting by key.
func (s *SettingsService) SetValue(ctx context.Context, key, value string) (*entities.Settings, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", ErrInvalidInput, key)
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(key)) {
	case SettingRequiredCorrect:
		settings.RequiredCorrect = n
	case SettingBufferSize:
		settings.BufferSize = n
	case SettingMaxTrials:
		settings.MaxTrials = n
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSetting, key)
	}

	return s.Update(ctx, settings)
}

// setActiveSound stores the identifier of the sound played by alarms.
func (s *SettingsService) setActiveSound(ctx context.Context, sound string) error {
	settings, err := s.Get(ctx)
	if err != nil {
		return err
	}
	settings.ActiveSound = sound
	_, err = s.Update(ctx, settings)
	return err
}
