package persistence

import (
	"errors"

	"grid-sim-go/internal/models"
)

// ErrPresetNotFound 表示仓库中没有该名称的预设
var ErrPresetNotFound = errors.New("preset not found")

// PresetRepository defines the interface for preset persistence.
// It abstracts the underlying storage mechanism (e.g., BadgerDB, in-memory)
// from the rest of the application.
type PresetRepository interface {
	// SavePreset inserts or replaces the preset with the same name.
	SavePreset(preset *models.Preset) error

	// LoadPreset returns ErrPresetNotFound when no preset has the given name.
	LoadPreset(name string) (*models.Preset, error)

	// ListPresets returns all stored presets ordered by name.
	ListPresets() ([]models.Preset, error)

	DeletePreset(name string) error

	// Close gracefully closes the connection to the database.
	Close() error
}
