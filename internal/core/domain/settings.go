package domain

import "fmt"

// HistorySettings holds edit history configuration.
type HistorySettings struct {
	// MaxDepth bounds the number of reversible edits kept. 0 means unbounded.
	MaxDepth int
}

// DraftingSettings holds defaults for new draftings.
type DraftingSettings struct {
	// DefaultUnit is the working unit of newly created draftings.
	DefaultUnit Unit
}

// LibrarySettings holds drafting library configuration.
type LibrarySettings struct {
	// Dir is the directory holding the library database.
	// Empty means the default data directory.
	Dir string
}

// WatchSettings holds measurement watcher configuration.
type WatchSettings struct {
	// MaxRate is the maximum number of recomputations per second
	// triggered by measurement file changes.
	MaxRate int
}

// OutputSettings holds terminal output configuration.
type OutputSettings struct {
	// Color enables styled output when writing to a terminal.
	Color bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// History holds edit history settings.
	History HistorySettings

	// Drafting holds new drafting defaults.
	Drafting DraftingSettings

	// Library holds drafting library settings.
	Library LibrarySettings

	// Watch holds measurement watcher settings.
	Watch WatchSettings

	// Output holds terminal output settings.
	Output OutputSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		History:  HistorySettings{MaxDepth: 100},
		Drafting: DraftingSettings{DefaultUnit: UnitCentimeter},
		Watch:    WatchSettings{MaxRate: 2},
		Output:   OutputSettings{Color: true},
	}
}

// Validate checks the settings for values the application cannot use.
func (s AppSettings) Validate() error {
	if s.History.MaxDepth < 0 {
		return fmt.Errorf("%w: history.max_depth must not be negative", ErrInvalidInput)
	}
	if !s.Drafting.DefaultUnit.IsValid() {
		return fmt.Errorf("%w: drafting.default_unit %q", ErrInvalidInput, s.Drafting.DefaultUnit)
	}
	if s.Watch.MaxRate <= 0 {
		return fmt.Errorf("%w: watch.max_rate must be positive", ErrInvalidInput)
	}
	return nil
}
