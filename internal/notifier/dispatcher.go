package notifier

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/ahmadsiddiqi/qurandist-backend/internal/notifications"
	"github.com/ahmadsiddiqi/qurandist-backend/internal/settings"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/config"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/logger"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/metrics"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/webhook"
)

type outboxSource interface {
	FetchUnpublished(limit int, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, cause error) error
}

type webhookSender interface {
	PostDiscord(ctx context.Context, webhookURL string, msg webhook.Message) error
	PostSlack(ctx context.Context, webhookURL string, msg webhook.Message) error
}

type activityRecorder interface {
	Record(ctx context.Context, input notifications.RecordInput) (*models.NotificationActivity, error)
}

type settingsSource interface {
	Current() settings.NotificationSettings
}

// Dispatcher drains the outbox and fans events out to the configured webhook
// channels, recording each attempt in the activity feed.
type Dispatcher struct {
	logg     *logger.Logger
	outbox   outboxSource
	sender   webhookSender
	activity activityRecorder
	settings settingsSource
	metrics  *metrics.NotifierMetrics
	cfg      config.NotifierConfig
}

type DispatcherParams struct {
	Logger   *logger.Logger
	Outbox   outboxSource
	Sender   webhookSender
	Activity activityRecorder
	Settings settingsSource
	Metrics  *metrics.NotifierMetrics
	Config   config.NotifierConfig
}

func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox source required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("webhook sender required")
	}
	if params.Activity == nil {
		return nil, fmt.Errorf("activity recorder required")
	}
	if params.Settings == nil {
		return nil, fmt.Errorf("settings source required")
	}
	if params.Config.BatchSize <= 0 {
		params.Config.BatchSize = 50
	}
	if params.Config.PollInterval <= 0 {
		params.Config.PollInterval = 500 * time.Millisecond
	}
	if params.Config.MaxAttempts <= 0 {
		params.Config.MaxAttempts = 10
	}
	return &Dispatcher{
		logg:     params.Logger,
		outbox:   params.Outbox,
		sender:   params.Sender,
		activity: params.Activity,
		settings: params.Settings,
		metrics:  params.Metrics,
		cfg:      params.Config,
	}, nil
}

// Run polls the outbox until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := d.DispatchBatch(ctx); err != nil {
				d.logg.Error(ctx, "notifier.batch_failed", err)
			}
		}
	}
}

// DispatchBatch processes one batch of unpublished events and returns how
// many it handled.
func (d *Dispatcher) DispatchBatch(ctx context.Context) (int, error) {
	events, err := d.outbox.FetchUnpublished(d.cfg.BatchSize, d.cfg.MaxAttempts)
	if err != nil {
		return 0, fmt.Errorf("fetching outbox events: %w", err)
	}

	for _, event := range events {
		d.dispatchEvent(ctx, event)
	}
	return len(events), nil
}

func (d *Dispatcher) dispatchEvent(ctx context.Context, event models.OutboxEvent) {
	logCtx := d.logg.WithFields(ctx, map[string]any{
		"event_id":   event.ID.String(),
		"event_type": string(event.EventType),
	})

	resolved, err := notifications.Resolve(event)
	if err != nil {
		// Unresolvable payloads will never succeed, so burn an attempt and
		// record the failure rather than retrying forever.
		d.logg.Error(logCtx, "notifier.resolve_failed", err)
		d.markFailed(logCtx, event, err)
		return
	}

	current := d.settings.Current()
	if !eventEnabled(current.Events, resolved.EventType) {
		d.logg.Info(logCtx, "notifier.event_disabled")
		d.markPublished(logCtx, event)
		return
	}

	channels := enabledChannels(current)
	if len(channels) == 0 {
		d.logg.Info(logCtx, "notifier.no_channels")
		d.markPublished(logCtx, event)
		return
	}

	start := time.Now()
	var deliverErr error
	for _, channel := range channels {
		switch channel.name {
		case "discord":
			deliverErr = multierr.Append(deliverErr, d.sender.PostDiscord(ctx, channel.url, resolved.Message))
		case "slack":
			deliverErr = multierr.Append(deliverErr, d.sender.PostSlack(ctx, channel.url, resolved.Message))
		}
	}

	if d.metrics != nil {
		d.metrics.ObserveDispatch(string(resolved.EventType), time.Since(start))
	}

	sentTo := channelNames(channels)
	if deliverErr != nil {
		if d.metrics != nil {
			d.metrics.IncFailed(string(resolved.EventType))
		}
		d.logg.Error(logCtx, "notifier.delivery_failed", deliverErr)
		d.markFailedWithActivity(logCtx, event, resolved, sentTo, deliverErr)
		return
	}

	if d.metrics != nil {
		d.metrics.IncDispatched(string(resolved.EventType))
	}
	d.markPublished(logCtx, event)
	d.recordActivity(logCtx, resolved, sentTo, enums.NotificationStatusSent)
}

type channelTarget struct {
	name string
	url  string
}

func enabledChannels(current settings.NotificationSettings) []channelTarget {
	var channels []channelTarget
	if current.Discord.Enabled && current.Discord.WebhookURL != "" {
		channels = append(channels, channelTarget{name: "discord", url: current.Discord.WebhookURL})
	}
	if current.Slack.Enabled && current.Slack.WebhookURL != "" {
		channels = append(channels, channelTarget{name: "slack", url: current.Slack.WebhookURL})
	}
	return channels
}

func channelNames(channels []channelTarget) string {
	names := make([]string, 0, len(channels))
	for _, channel := range channels {
		names = append(names, channel.name)
	}
	return strings.Join(names, ",")
}

func eventEnabled(toggles settings.EventToggles, eventType enums.NotificationEventType) bool {
	switch eventType {
	case enums.NotificationEventNewOrder:
		return toggles.NewOrder
	case enums.NotificationEventStatusChanged:
		return toggles.StatusChanged
	case enums.NotificationEventLowStock:
		return toggles.LowStock
	case enums.NotificationEventDailySummary:
		return toggles.DailySummary
	}
	return true
}

func (d *Dispatcher) markPublished(ctx context.Context, event models.OutboxEvent) {
	if err := d.outbox.MarkPublished(event.ID); err != nil {
		d.logg.Error(ctx, "notifier.mark_published_failed", err)
	}
}

func (d *Dispatcher) markFailed(ctx context.Context, event models.OutboxEvent, cause error) {
	if err := d.outbox.MarkFailed(event.ID, cause); err != nil {
		d.logg.Error(ctx, "notifier.mark_failed_failed", err)
	}
}

func (d *Dispatcher) markFailedWithActivity(ctx context.Context, event models.OutboxEvent, resolved *notifications.Resolved, sentTo string, cause error) {
	d.markFailed(ctx, event, cause)
	d.recordActivity(ctx, resolved, sentTo, enums.NotificationStatusFailed)
}

func (d *Dispatcher) recordActivity(ctx context.Context, resolved *notifications.Resolved, sentTo string, status enums.NotificationStatus) {
	if resolved == nil || sentTo == "" {
		return
	}
	_, err := d.activity.Record(ctx, notifications.RecordInput{
		EventType: resolved.EventType,
		Title:     resolved.Message.Title,
		Message:   resolved.Message.Description,
		Metadata:  resolved.Metadata,
		SentTo:    sentTo,
		Status:    status,
	})
	if err != nil {
		d.logg.Error(ctx, "notifier.record_activity_failed", err)
	}
}
