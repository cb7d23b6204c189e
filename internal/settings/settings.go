package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
)

// DefaultLowStockThreshold applies when the settings file omits a threshold.
const DefaultLowStockThreshold = 5

// ChannelSettings configures one outbound webhook channel.
type ChannelSettings struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	WebhookURL string `yaml:"webhook_url" json:"webhook_url"`
}

// EventToggles switches individual notification kinds on and off.
type EventToggles struct {
	NewOrder      bool `yaml:"new_order" json:"new_order"`
	StatusChanged bool `yaml:"status_changed" json:"status_changed"`
	LowStock      bool `yaml:"low_stock" json:"low_stock"`
	DailySummary  bool `yaml:"daily_summary" json:"daily_summary"`
}

// NotificationSettings is the operator-editable runtime configuration.
type NotificationSettings struct {
	Discord           ChannelSettings `yaml:"discord" json:"discord"`
	Slack             ChannelSettings `yaml:"slack" json:"slack"`
	LowStockThreshold int             `yaml:"low_stock_threshold" json:"low_stock_threshold"`
	Events            EventToggles    `yaml:"events" json:"events"`
}

// Defaults returns the settings used when no file exists yet.
func Defaults() NotificationSettings {
	return NotificationSettings{
		LowStockThreshold: DefaultLowStockThreshold,
		Events: EventToggles{
			NewOrder:      true,
			StatusChanged: true,
			LowStock:      true,
			DailySummary:  true,
		},
	}
}

// Service holds the current settings behind an atomic pointer so request
// handlers read without locking. Writes go through Update/Reload.
type Service struct {
	path    string
	current atomic.Pointer[NotificationSettings]
}

// NewService loads settings from path. A missing file yields defaults.
func NewService(path string) (*Service, error) {
	if path == "" {
		return nil, fmt.Errorf("settings path required")
	}
	s := &Service{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns a copy of the live settings.
func (s *Service) Current() NotificationSettings {
	return *s.current.Load()
}

// LowStockThreshold exposes the alert threshold for order placement.
func (s *Service) LowStockThreshold() int {
	return s.current.Load().LowStockThreshold
}

// Reload re-reads the settings file and swaps the live pointer.
func (s *Service) Reload() error {
	loaded, err := load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(&loaded)
	return nil
}

// Update validates, persists, and swaps in the provided settings.
func (s *Service) Update(next NotificationSettings) error {
	if next.LowStockThreshold < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "low stock threshold cannot be negative")
	}
	if next.LowStockThreshold == 0 {
		next.LowStockThreshold = DefaultLowStockThreshold
	}
	if next.Discord.Enabled && next.Discord.WebhookURL == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "discord webhook url required when discord is enabled")
	}
	if next.Slack.Enabled && next.Slack.WebhookURL == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "slack webhook url required when slack is enabled")
	}

	data, err := yaml.Marshal(next)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal settings")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create settings dir")
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write settings file")
	}

	s.current.Store(&next)
	return nil
}

func load(path string) (NotificationSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return NotificationSettings{}, fmt.Errorf("read settings file: %w", err)
	}

	loaded := Defaults()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return NotificationSettings{}, fmt.Errorf("parse settings file: %w", err)
	}
	if loaded.LowStockThreshold <= 0 {
		loaded.LowStockThreshold = DefaultLowStockThreshold
	}
	return loaded, nil
}
