package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
)

// MaxImagesPerEdition caps attached image URLs.
const MaxImagesPerEdition = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockMutator applies conditional stock writes inside a transaction.
type StockMutator interface {
	Restock(ctx context.Context, tx *gorm.DB, editionID uuid.UUID, qty int) (int, error)
	SetStock(ctx context.Context, tx *gorm.DB, editionID uuid.UUID, stock int) error
}

// Service defines edition catalog operations for the admin back office.
type Service interface {
	Create(ctx context.Context, input CreateEditionInput) (*models.Edition, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEditionInput) (*models.Edition, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Edition, error)
	List(ctx context.Context, params ListParams) ([]models.Edition, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restock(ctx context.Context, id uuid.UUID, qty int) (*models.Edition, error)
	FindForOrder(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Edition, error)
}

type service struct {
	repo      Repository
	inventory StockMutator
	tx        txRunner
}

// NewService builds the catalog service with its required dependencies.
func NewService(repo Repository, inventory StockMutator, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("stock mutator required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, inventory: inventory, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateEditionInput) (*models.Edition, error) {
	title := strings.TrimSpace(input.Title)
	writer := strings.TrimSpace(input.Writer)
	translation := strings.ToLower(strings.TrimSpace(input.Translation))

	switch {
	case title == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	case writer == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "writer is required")
	case translation == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "translation is required")
	case input.Pages <= 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pages must be positive")
	case input.Stock < 0:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	case len(input.ImageURLs) > MaxImagesPerEdition:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d images allowed", MaxImagesPerEdition))
	}

	edition := &models.Edition{
		Title:       title,
		Writer:      writer,
		Translation: translation,
		Pages:       input.Pages,
		Stock:       input.Stock,
		Description: input.Description,
	}
	for i, url := range input.ImageURLs {
		edition.Images = append(edition.Images, models.EditionImage{
			URL:      strings.TrimSpace(url),
			Position: i,
		})
	}

	if err := s.repo.Create(ctx, edition); err != nil {
		if db.IsUniqueViolation(err, "ux_editions_title") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an edition with this title already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create edition")
	}
	return edition, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateEditionInput) (*models.Edition, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "edition id required")
	}
	if len(input.ImageURLs) > MaxImagesPerEdition {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d images allowed", MaxImagesPerEdition))
	}

	updates := map[string]any{}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "title cannot be empty")
		}
		updates["title"] = title
	}
	if input.Writer != nil {
		updates["writer"] = strings.TrimSpace(*input.Writer)
	}
	if input.Translation != nil {
		updates["translation"] = strings.ToLower(strings.TrimSpace(*input.Translation))
	}
	if input.Pages != nil {
		if *input.Pages <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "pages must be positive")
		}
		updates["pages"] = *input.Pages
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	var edition *models.Edition
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.findOr404(ctx, repo, id); err != nil {
			return err
		}
		if len(updates) > 0 {
			if err := repo.Update(ctx, id, updates); err != nil {
				if db.IsUniqueViolation(err, "ux_editions_title") {
					return pkgerrors.New(pkgerrors.CodeConflict, "an edition with this title already exists")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update edition")
			}
		}
		if input.ClearImages || len(input.ImageURLs) > 0 {
			if err := repo.ReplaceImages(ctx, id, input.ImageURLs); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace edition images")
			}
		}

		var err error
		edition, err = s.findOr404(ctx, repo, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return edition, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Edition, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "edition id required")
	}
	return s.findOr404(ctx, s.repo, id)
}

func (s *service) List(ctx context.Context, params ListParams) ([]models.Edition, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list editions")
	}
	return rows, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "edition id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := s.findOr404(ctx, repo, id); err != nil {
			return err
		}
		referencing, err := repo.CountOrdersReferencing(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count referencing orders")
		}
		if referencing > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "edition is referenced by existing orders")
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete edition")
		}
		return nil
	})
}

func (s *service) Restock(ctx context.Context, id uuid.UUID, qty int) (*models.Edition, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "edition id required")
	}

	var edition *models.Edition
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.inventory.Restock(ctx, tx, id, qty); err != nil {
			return err
		}
		var err error
		edition, err = s.findOr404(ctx, s.repo.WithTx(tx), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return edition, nil
}

// FindForOrder loads an edition inside the order placement transaction.
func (s *service) FindForOrder(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Edition, error) {
	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}
	return s.findOr404(ctx, repo, id)
}

func (s *service) findOr404(ctx context.Context, repo Repository, id uuid.UUID) (*models.Edition, error) {
	edition, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "edition not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load edition")
	}
	return edition, nil
}
