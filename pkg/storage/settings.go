package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Settings are the user preferences persisted next to the resumes.
type Settings struct {
	DefaultTheme     string `json:"defaultTheme"`
	AutoSave         bool   `json:"autoSave"`
	AutoSaveInterval int    `json:"autoSaveInterval"`
	DefaultTemplate  string `json:"defaultTemplate"`
	ShowHints        bool   `json:"showHints"`
	PreferredZoom    int    `json:"preferredZoom"`
}

// DefaultSettings returns the preferences used when nothing is stored.
func DefaultSettings() Settings {
	return Settings{
		DefaultTheme:     "modern",
		AutoSave:         true,
		AutoSaveInterval: 30000,
		DefaultTemplate:  "modern",
		ShowHints:        true,
		PreferredZoom:    100,
	}
}

// Interval returns AutoSaveInterval as a duration.
func (s Settings) Interval() time.Duration {
	return time.Duration(s.AutoSaveInterval) * time.Millisecond
}

// Settings returns the stored preferences overlaid on DefaultSettings.
func (s *Store) Settings(ctx context.Context) Settings {
	settings := DefaultSettings()
	raw, ok := s.read(ctx, keySettings)
	if !ok {
		return settings
	}
	if err := json.Unmarshal(raw, &settings); err != nil {
		s.logger.Warn("storage: ignoring unreadable settings", zap.Error(err))
		return DefaultSettings()
	}
	return settings
}

// SaveSettings merges patch into the stored preferences. Keys outside
// Settings are kept as stored.
func (s *Store) SaveSettings(ctx context.Context, patch map[string]any) (Settings, error) {
	if !s.kv.Available(ctx) {
		return Settings{}, ErrUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make(map[string]any)
	if raw, ok := s.read(ctx, keySettings); ok {
		if err := json.Unmarshal(raw, &stored); err != nil {
			s.logger.Warn("storage: replacing unreadable settings", zap.Error(err))
			stored = make(map[string]any)
		}
	}
	for key, value := range patch {
		stored[key] = value
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return Settings{}, fmt.Errorf("storage: save settings: %w", err)
	}
	merged := DefaultSettings()
	if err := json.Unmarshal(raw, &merged); err != nil {
		return Settings{}, fmt.Errorf("storage: save settings: %w", err)
	}
	if err := s.kv.Set(ctx, s.key(keySettings), raw); err != nil {
		return Settings{}, fmt.Errorf("storage: save settings: %w", err)
	}
	return merged, nil
}
