package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
)

func TestMissingFileYieldsDefaults(t *testing.T) {
	svc, err := NewService(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	current := svc.Current()
	assert.Equal(t, DefaultLowStockThreshold, current.LowStockThreshold)
	assert.True(t, current.Events.NewOrder)
	assert.False(t, current.Discord.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notification_settings.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
discord:
  enabled: true
  webhook_url: https://discord.com/api/webhooks/123/abc
low_stock_threshold: 8
events:
  new_order: true
  status_changed: false
  low_stock: true
  daily_summary: true
`), 0o644))

	svc, err := NewService(path)
	require.NoError(t, err)

	current := svc.Current()
	assert.True(t, current.Discord.Enabled)
	assert.Equal(t, 8, current.LowStockThreshold)
	assert.Equal(t, 8, svc.LowStockThreshold())
	assert.False(t, current.Events.StatusChanged)
}

func TestUpdatePersistsAndSwaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notification_settings.yml")
	svc, err := NewService(path)
	require.NoError(t, err)

	next := Defaults()
	next.LowStockThreshold = 12
	next.Slack = ChannelSettings{Enabled: true, WebhookURL: "https://hooks.slack.com/services/T/B/x"}
	require.NoError(t, svc.Update(next))

	assert.Equal(t, 12, svc.LowStockThreshold())

	reloaded, err := NewService(path)
	require.NoError(t, err)
	assert.Equal(t, 12, reloaded.LowStockThreshold())
	assert.True(t, reloaded.Current().Slack.Enabled)
}

func TestUpdateValidation(t *testing.T) {
	svc, err := NewService(filepath.Join(t.TempDir(), "s.yml"))
	require.NoError(t, err)

	next := Defaults()
	next.Discord.Enabled = true
	err = svc.Update(next)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	next = Defaults()
	next.LowStockThreshold = -3
	err = svc.Update(next)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestReloadPicksUpExternalEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yml")
	svc, err := NewService(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultLowStockThreshold, svc.LowStockThreshold())

	require.NoError(t, os.WriteFile(path, []byte("low_stock_threshold: 20\n"), 0o644))
	require.NoError(t, svc.Reload())
	assert.Equal(t, 20, svc.LowStockThreshold())
}
