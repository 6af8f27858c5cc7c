package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/maxmaindev/citizen-appeals/entity"
)

// SettingsService keeps the city-wide settings in a JSON file and serves
// them from memory.
type SettingsService struct {
	path    string
	mu      sync.RWMutex
	current entity.SystemSettings
}

func defaultSettings() entity.SystemSettings {
	return entity.SystemSettings{
		CityName:            "Kyiv",
		MapCenterLat:        50.4501,
		MapCenterLng:        30.5234,
		MapZoom:             12,
		ConfidenceThreshold: 0.8,
	}
}

// NewSettingsService loads the settings file, writing defaults when it does
// not exist yet.
func NewSettingsService(path string) (*SettingsService, error) {
	s := &SettingsService{path: path, current: defaultSettings()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.persist(); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, &s.current); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return s, nil
}

func (s *SettingsService) Get() entity.SystemSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *SettingsService) Update(next entity.SystemSettings) error {
	if next.ConfidenceThreshold < 0 || next.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be between 0 and 1")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.current
	s.current = next
	if err := s.persist(); err != nil {
		s.current = prev
		return err
	}
	return nil
}

func (s *SettingsService) persist() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
