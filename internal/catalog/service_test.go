package catalog

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

	"github.com/ahmadsiddiqi/qurandist-backend/internal/inventory"
	"github.com/ahmadsiddiqi/qurandist-backend/pkg/db/models"
	pkgerrors "github.com/ahmadsiddiqi/qurandist-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.Edition{},
		&models.EditionImage{},
		&models.Order{},
	))
	return gdb
}

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func newTestService(t *testing.T, gdb *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(NewRepository(gdb), inventory.NewService(), gormTxRunner{db: gdb})
	require.NoError(t, err)
	return svc
}

func validCreateInput() CreateEditionInput {
	desc := "Word-for-word English rendering"
	return CreateEditionInput{
		Title:       "The Clear Quran",
		Writer:      "Mustafa Khattab",
		Translation: "English",
		Pages:       622,
		Stock:       40,
		Description: &desc,
		ImageURLs:   []string{"https://cdn.example.org/clear-quran-front.jpg"},
	}
}

func TestCreateEdition(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	edition, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, edition.ID)
	assert.Equal(t, "english", edition.Translation)
	require.Len(t, edition.Images, 1)

	fetched, err := svc.Get(context.Background(), edition.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Clear Quran", fetched.Title)
	assert.Equal(t, 40, fetched.Stock)
}

func TestCreateEditionDuplicateTitle(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	_, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validCreateInput())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestCreateEditionValidation(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	input := validCreateInput()
	input.Pages = 0
	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	input = validCreateInput()
	input.ImageURLs = []string{"a", "b", "c", "d", "e", "f"}
	_, err = svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateEditionFieldsAndImages(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	edition, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	newTitle := "The Clear Quran (Revised)"
	pages := 640
	updated, err := svc.Update(context.Background(), edition.ID, UpdateEditionInput{
		Title: &newTitle,
		Pages: &pages,
		ImageURLs: []string{
			"https://cdn.example.org/front.jpg",
			"https://cdn.example.org/back.jpg",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, 640, updated.Pages)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, 0, updated.Images[0].Position)
	assert.Equal(t, 1, updated.Images[1].Position)
}

func TestUpdateEditionNotFound(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	title := "x"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateEditionInput{Title: &title})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestDeleteEditionBlockedWhenReferenced(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	edition, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	order := models.Order{
		ID:          uuid.New(),
		FullName:    "Bilal Ahmed",
		Email:       "bilal@example.org",
		Phone:       "+92 3210000000",
		CountryCode: "+92",
		Address:     "Street 9",
		City:        "Multan",
		State:       "Punjab",
		PostalCode:  "60000",
		Quantity:    1,
		EditionID:   &edition.ID,
		Translation: "english",
	}
	require.NoError(t, gdb.Create(&order).Error)

	err = svc.Delete(context.Background(), edition.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	require.NoError(t, gdb.Delete(&order).Error)
	require.NoError(t, svc.Delete(context.Background(), edition.ID))

	_, err = svc.Get(context.Background(), edition.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRestockRaisesStock(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	edition, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	restocked, err := svc.Restock(context.Background(), edition.ID, 60)
	require.NoError(t, err)
	assert.Equal(t, 100, restocked.Stock)

	_, err = svc.Restock(context.Background(), edition.ID, 0)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListFilters(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestService(t, gdb)

	_, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	urdu := validCreateInput()
	urdu.Title = "Kanzul Iman"
	urdu.Translation = "Urdu"
	urdu.Stock = 0
	_, err = svc.Create(context.Background(), urdu)
	require.NoError(t, err)

	all, err := svc.List(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inStock, err := svc.List(context.Background(), ListParams{InStockOnly: true})
	require.NoError(t, err)
	require.Len(t, inStock, 1)
	assert.Equal(t, "The Clear Quran", inStock[0].Title)

	urduOnly, err := svc.List(context.Background(), ListParams{Translation: "urdu"})
	require.NoError(t, err)
	require.Len(t, urduOnly, 1)
	assert.Equal(t, "Kanzul Iman", urduOnly[0].Title)
}
