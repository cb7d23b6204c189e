package notifications

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/pagination"
)

// Service records delivery attempts and serves the admin activity feed.
type Service interface {
	Record(ctx context.Context, input RecordInput) (*models.NotificationActivity, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

// RecordInput captures one outbound notification attempt.
type RecordInput struct {
	EventType enums.NotificationEventType
	Title     string
	Message   string
	Metadata  json.RawMessage
	SentTo    string
	Status    enums.NotificationStatus
}

// ListParams configures pagination and filtering for the activity feed.
type ListParams struct {
	Limit     int
	Cursor    string
	EventType string
}

// ListResult wraps returned activity entries and the cursor for the next page.
type ListResult struct {
	Items  []models.NotificationActivity `json:"items"`
	Cursor string                        `json:"cursor"`
}

type service struct {
	repo Repository
}

// NewService wires activity feed dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, input RecordInput) (*models.NotificationActivity, error) {
	if !input.EventType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid event type")
	}
	if input.Title == "" || input.SentTo == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and destination are required")
	}
	status := input.Status
	if status == "" {
		status = enums.NotificationStatusPending
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid notification status")
	}

	activity := &models.NotificationActivity{
		EventType: input.EventType,
		Title:     input.Title,
		Message:   input.Message,
		Metadata:  input.Metadata,
		SentTo:    input.SentTo,
		Status:    status,
	}
	if err := s.repo.Create(ctx, activity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record notification activity")
	}
	return activity, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	query := listActivityParams{Limit: params.Limit}
	if params.EventType != "" {
		eventType, err := enums.ParseNotificationEventType(params.EventType)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event type filter")
		}
		query.EventType = &eventType
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notification activity")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "retention must be positive")
	}
	removed, err := s.repo.DeleteOlderThan(ctx, time.Now().UTC().Add(-retention))
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "purge notification activity")
	}
	return removed, nil
}
