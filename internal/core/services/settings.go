package services

import (
	"fmt"
	"strconv"

	"github.com/seamwork/drafter/internal/core/domain"
	"github.com/seamwork/drafter/internal/core/ports/driven"
	"github.com/seamwork/drafter/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyHistoryMaxDepth = "history.max_depth"
	keyDefaultUnit     = "drafting.default_unit"
	keyLibraryDir      = "library.dir"
	keyWatchMaxRate    = "watch.max_rate"
	keyOutputColor     = "output.color"
)

// SettingsKeys lists the configuration keys understood by Set.
func SettingsKeys() []string {
	return []string{keyHistoryMaxDepth, keyDefaultUnit, keyLibraryDir, keyWatchMaxRate, keyOutputColor}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings. Missing or unusable values
// fall back to their defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		History: domain.HistorySettings{
			MaxDepth: s.getInt(keyHistoryMaxDepth, defaults.History.MaxDepth),
		},
		Drafting: domain.DraftingSettings{
			DefaultUnit: s.getUnit(defaults.Drafting.DefaultUnit),
		},
		Library: domain.LibrarySettings{
			Dir: s.configStore.GetString(keyLibraryDir),
		},
		Watch: domain.WatchSettings{
			MaxRate: s.getInt(keyWatchMaxRate, defaults.Watch.MaxRate),
		},
		Output: domain.OutputSettings{
			Color: s.getBool(keyOutputColor, defaults.Output.Color),
		},
	}
	if settings.History.MaxDepth < 0 {
		settings.History.MaxDepth = defaults.History.MaxDepth
	}
	if settings.Watch.MaxRate <= 0 {
		settings.Watch.MaxRate = defaults.Watch.MaxRate
	}
	return settings, nil
}

// Save validates and persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(keyHistoryMaxDepth, settings.History.MaxDepth); err != nil {
		return fmt.Errorf("save history max_depth: %w", err)
	}
	if err := s.configStore.Set(keyDefaultUnit, settings.Drafting.DefaultUnit.String()); err != nil {
		return fmt.Errorf("save drafting default_unit: %w", err)
	}
	if err := s.configStore.Set(keyLibraryDir, settings.Library.Dir); err != nil {
		return fmt.Errorf("save library dir: %w", err)
	}
	if err := s.configStore.Set(keyWatchMaxRate, settings.Watch.MaxRate); err != nil {
		return fmt.Errorf("save watch max_rate: %w", err)
	}
	if err := s.configStore.Set(keyOutputColor, settings.Output.Color); err != nil {
		return fmt.Errorf("save output color: %w", err)
	}
	return s.configStore.Save()
}

// Set parses value for key and saves the resulting settings.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	switch key {
	case keyHistoryMaxDepth:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.History.MaxDepth = n
	case keyDefaultUnit:
		u, err := domain.ParseUnit(value)
		if err != nil {
			return err
		}
		settings.Drafting.DefaultUnit = u
	case keyLibraryDir:
		settings.Library.Dir = value
	case keyWatchMaxRate:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		settings.Watch.MaxRate = n
	case keyOutputColor:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		settings.Output.Color = b
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getUnit(defaultVal domain.Unit) domain.Unit {
	val := s.configStore.GetString(keyDefaultUnit)
	if val == "" {
		return defaultVal
	}
	unit, err := domain.ParseUnit(val)
	if err != nil {
		return defaultVal
	}
	return unit
}
