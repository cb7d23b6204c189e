package admins

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ahmadsiddiqi/qurandist-backend/pkg/config"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/enums"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/security"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Admin{}))
	return gdb
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(gdb), gormTxRunner{db: gdb}, testPasswordConfig())
	require.NoError(t, err)
	return svc
}

func createAdmin(t *testing.T, svc Service, email, role string) *models.Admin {
	t.Helper()
	admin, err := svc.Create(context.Background(), CreateAdminInput{
		Email:     email,
		FirstName: "Fatima",
		LastName:  "Noor",
		Role:      role,
		Password:  "a-strong-passphrase",
	})
	require.NoError(t, err)
	return admin
}

func TestCreateAdminHashesPassword(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	admin := createAdmin(t, svc, "Fatima.Noor@Example.org", "manager")
	assert.Equal(t, "fatima.noor@example.org", admin.Email)
	assert.Equal(t, enums.AdminRoleManager, admin.Role)
	assert.NotEqual(t, "a-strong-passphrase", admin.PasswordHash)

	ok, err := security.VerifyPassword("a-strong-passphrase", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateAdminRejectsDuplicateEmail(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	createAdmin(t, svc, "fatima@example.org", "manager")
	_, err := svc.Create(context.Background(), CreateAdminInput{
		Email:     "fatima@example.org",
		FirstName: "Other",
		LastName:  "Person",
		Role:      "manager",
		Password:  "another-passphrase",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestCreateAdminValidation(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	_, err := svc.Create(context.Background(), CreateAdminInput{
		Email:     "x@example.org",
		FirstName: "A",
		LastName:  "B",
		Role:      "owner",
		Password:  "long-enough-pass",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Create(context.Background(), CreateAdminInput{
		Email:     "x@example.org",
		FirstName: "A",
		LastName:  "B",
		Role:      "manager",
		Password:  "short",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateAdminRoleAndPassword(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	createAdmin(t, svc, "root@example.org", "super_admin")
	admin := createAdmin(t, svc, "staff@example.org", "manager")

	role := "super_admin"
	password := "rotated-passphrase"
	updated, err := svc.Update(context.Background(), admin.ID, UpdateAdminInput{
		Role:     &role,
		Password: &password,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.AdminRoleSuperAdmin, updated.Role)

	ok, err := security.VerifyPassword(password, updated.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCannotDemoteLastSuperAdmin(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	admin := createAdmin(t, svc, "root@example.org", "super_admin")

	role := "manager"
	_, err := svc.Update(context.Background(), admin.ID, UpdateAdminInput{Role: &role})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestDeleteAdminGuards(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	root := createAdmin(t, svc, "root@example.org", "super_admin")
	staff := createAdmin(t, svc, "staff@example.org", "manager")

	err := svc.Delete(context.Background(), root.ID, root.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	err = svc.Delete(context.Background(), staff.ID, root.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code(), "last super admin is protected")

	require.NoError(t, svc.Delete(context.Background(), root.ID, staff.ID))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
