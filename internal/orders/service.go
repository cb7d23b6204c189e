package orders

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/config"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/outbox"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/pagination"
)

var emailShapeRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Service defines the public and admin order operations.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error)
	Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	StatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error)
}

type service struct {
	repo      Repository
	editions  EditionSource
	inventory StockReserver
	tx        txRunner
	outbox    outboxPublisher
	settings  ThresholdProvider
	cfg       config.OrdersConfig
}

// NewService builds the order service with its required dependencies.
func NewService(
	repo Repository,
	editions EditionSource,
	inventory StockReserver,
	tx txRunner,
	ob outboxPublisher,
	settings ThresholdProvider,
	cfg config.OrdersConfig,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if editions == nil {
		return nil, fmt.Errorf("edition source required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("stock reserver required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ob == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings provider required")
	}
	return &service{
		repo:      repo,
		editions:  editions,
		inventory: inventory,
		tx:        tx,
		outbox:    ob,
		settings:  settings,
		cfg:       cfg,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*models.Order, error) {
	normalized, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var edition *models.Edition
		remaining := 0
		if normalized.EditionID != nil {
			edition, err = s.editions.FindForOrder(ctx, tx, *normalized.EditionID)
			if err != nil {
				return err
			}
			remaining, err = s.inventory.Reserve(ctx, tx, edition.ID, *normalized.Quantity)
			if err != nil {
				return err
			}
		}

		translation := normalized.Translation
		if translation == "" {
			if edition != nil {
				translation = edition.Translation
			} else {
				translation = s.cfg.DefaultTranslation
			}
		}

		order = &models.Order{
			FullName:    normalized.FullName,
			Email:       normalized.Email,
			Phone:       fmt.Sprintf("%s %s", normalized.CountryCode, normalized.Phone),
			CountryCode: normalized.CountryCode,
			Address:     normalized.Address,
			City:        normalized.City,
			State:       normalized.State,
			PostalCode:  normalized.PostalCode,
			Quantity:    *normalized.Quantity,
			Note:        normalized.Note,
			EditionID:   normalized.EditionID,
			Translation: translation,
			Status:      enums.OrderStatusPending,
		}
		if err := repo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}

		created := outbox.OrderCreatedData{
			OrderID:     order.ID,
			FullName:    order.FullName,
			Email:       order.Email,
			Phone:       order.Phone,
			City:        order.City,
			State:       order.State,
			Quantity:    order.Quantity,
			Translation: order.Translation,
			EditionID:   order.EditionID,
		}
		if edition != nil {
			created.EditionTitle = edition.Title
		}
		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data:          created,
		}); err != nil {
			return err
		}

		if edition != nil {
			threshold := s.settings.LowStockThreshold()
			if remaining < threshold {
				if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
					EventType:     enums.EventStockLow,
					AggregateType: enums.AggregateEdition,
					AggregateID:   edition.ID,
					Data: outbox.StockLowData{
						EditionID: edition.ID,
						Title:     edition.Title,
						Stock:     remaining,
						Threshold: threshold,
					},
				}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	target, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err = repo.FindByID(ctx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		previous := order.Status
		if previous == target {
			return nil
		}

		if err := repo.UpdateStatus(ctx, order.ID, target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		order.Status = target

		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: outbox.OrderStatusChangedData{
				OrderID:   order.ID,
				FullName:  order.FullName,
				OldStatus: previous.String(),
				NewStatus: target.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page, hasMore := pagination.TrimPage(rows, params.Page.Limit)
	result := &ListResult{Orders: page, HasMore: hasMore}
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

func (s *service) StatusCounts(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}
	return counts, nil
}

func (s *service) normalize(input PlaceOrderInput) (PlaceOrderInput, error) {
	out := input
	out.FullName = strings.TrimSpace(input.FullName)
	out.Email = strings.ToLower(strings.TrimSpace(input.Email))
	out.Phone = strings.TrimSpace(input.Phone)
	out.CountryCode = strings.TrimSpace(input.CountryCode)
	out.Address = strings.TrimSpace(input.Address)
	out.City = strings.TrimSpace(input.City)
	out.State = strings.TrimSpace(input.State)
	out.PostalCode = strings.TrimSpace(input.PostalCode)
	out.Translation = strings.ToLower(strings.TrimSpace(input.Translation))

	if out.Quantity == nil {
		defaultQty := 1
		out.Quantity = &defaultQty
	}
	if out.CountryCode == "" {
		out.CountryCode = s.cfg.DefaultCountryCode
	}

	missing := []string{}
	for field, value := range map[string]string{
		"full_name":   out.FullName,
		"email":       out.Email,
		"phone":       out.Phone,
		"address":     out.Address,
		"city":        out.City,
		"state":       out.State,
		"postal_code": out.PostalCode,
	} {
		if value == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return out, pkgerrors.New(pkgerrors.CodeValidation, "missing required fields").
			WithDetails(map[string]any{"missing": missing})
	}
	if !emailShapeRe.MatchString(out.Email) {
		return out, pkgerrors.New(pkgerrors.CodeValidation, "email is not valid")
	}
	if *out.Quantity < 1 {
		return out, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if out.EditionID != nil && *out.EditionID == uuid.Nil {
		return out, pkgerrors.New(pkgerrors.CodeValidation, "edition id is not valid")
	}
	return out, nil
}
