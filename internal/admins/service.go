package admins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/config"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/security"
)

const minPasswordLength = 8

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateAdminInput carries a new back-office account.
type CreateAdminInput struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
	Password  string
}

// UpdateAdminInput updates account fields; nil pointers leave values untouched.
type UpdateAdminInput struct {
	FirstName *string
	LastName  *string
	Role      *string
	Password  *string
}

// Service defines admin directory operations. All operations are restricted
// to super_admin callers at the routing layer.
type Service interface {
	Create(ctx context.Context, input CreateAdminInput) (*models.Admin, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateAdminInput) (*models.Admin, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Admin, error)
	List(ctx context.Context) ([]models.Admin, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
	cfg  config.PasswordConfig
}

// NewService builds the admin directory service.
func NewService(repo Repository, tx txRunner, cfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("admins repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, cfg: cfg}, nil
}

func (s *service) Create(ctx context.Context, input CreateAdminInput) (*models.Admin, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)

	switch {
	case email == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	case firstName == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name is required")
	case lastName == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "last name is required")
	case len(input.Password) < minPasswordLength:
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	role, err := enums.ParseAdminRole(input.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid admin role %q", input.Role))
	}

	hash, err := security.HashPassword(input.Password, s.cfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	admin := &models.Admin{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		if db.IsUniqueViolation(err, "ux_admins_email") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an admin with this email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin")
	}
	return admin, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateAdminInput) (*models.Admin, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin id required")
	}

	updates := map[string]any{}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Role != nil {
		role, err := enums.ParseAdminRole(*input.Role)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid admin role %q", *input.Role))
		}
		updates["role"] = role
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("password must be at least %d characters", minPasswordLength))
		}
		hash, err := security.HashPassword(*input.Password, s.cfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		updates["password_hash"] = hash
	}

	var admin *models.Admin
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := s.findOr404(ctx, repo, id)
		if err != nil {
			return err
		}

		// Demoting the last super_admin would lock everyone out.
		if role, ok := updates["role"]; ok &&
			current.Role == enums.AdminRoleSuperAdmin && role != enums.AdminRoleSuperAdmin {
			superAdmins, err := repo.CountByRole(ctx, enums.AdminRoleSuperAdmin.String())
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count super admins")
			}
			if superAdmins <= 1 {
				return pkgerrors.New(pkgerrors.CodeConflict, "cannot demote the last super admin")
			}
		}

		if len(updates) > 0 {
			if err := repo.Update(ctx, id, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update admin")
			}
		}
		admin, err = s.findOr404(ctx, repo, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return admin, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin id required")
	}
	return s.findOr404(ctx, s.repo, id)
}

func (s *service) List(ctx context.Context) ([]models.Admin, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list admins")
	}
	return rows, nil
}

func (s *service) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "admin id required")
	}
	if actorID == id {
		return pkgerrors.New(pkgerrors.CodeConflict, "admins cannot delete their own account")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		admin, err := s.findOr404(ctx, repo, id)
		if err != nil {
			return err
		}
		if admin.Role == enums.AdminRoleSuperAdmin {
			superAdmins, err := repo.CountByRole(ctx, enums.AdminRoleSuperAdmin.String())
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count super admins")
			}
			if superAdmins <= 1 {
				return pkgerrors.New(pkgerrors.CodeConflict, "cannot delete the last super admin")
			}
		}
		if err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete admin")
		}
		return nil
	})
}

func (s *service) findOr404(ctx context.Context, repo Repository, id uuid.UUID) (*models.Admin, error) {
	admin, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "admin not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin")
	}
	return admin, nil
}
