package service

import (
	"context"
	"errors"
	"testing"

	"github.com/prperemyshlev/connect-service/internal/apperr"
	"github.com/prperemyshlev/connect-service/internal/catalog"
	"github.com/prperemyshlev/connect-service/internal/domain"
	"github.com/prperemyshlev/connect-service/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStoreService(t *testing.T, db *memDB) *storeService {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)

	return NewStoreService(db.repos(), db, cat, zap.NewNop()).(*storeService)
}

func TestStoreService_Sectors(t *testing.T) {
	sectors := newTestStoreService(t, newMemDB()).Sectors()

	require.NotEmpty(t, sectors)
	for _, s := range sectors {
		assert.NotEmpty(t, s.Key)
		assert.NotEmpty(t, s.Terminology.Local, s.Key)
	}
}

func TestStoreService_DetailCreatesDefaultSettings(t *testing.T) {
	db := newMemDB()
	account := seedAccount(t, db, "maria@test.com", "12345678", "abc12345")
	store := db.stores[account.ID]
	store.Name = "Panadería Lopez"
	store.Address = domain.Address{City: "Lima", ZipCode: "15001"}

	detail, err := newTestStoreService(t, db).Detail(context.Background(), claimsFor(db, account))
	require.NoError(t, err)

	assert.Equal(t, "Panadería Lopez", detail.Name)
	assert.Equal(t, "Lima", detail.Address.City)
	assert.Equal(t, "15001", detail.Address.ZipCode)
	assert.Equal(t, dto.StoreSettings{}, detail.Settings)
	require.Contains(t, db.settings, store.ID)
}

func TestStoreService_DetailUnknownStore(t *testing.T) {
	db := newMemDB()
	account := seedAccount(t, db, "maria@test.com", "12345678", "abc12345")
	claims := claimsFor(db, account)
	claims.Store = "missing"

	_, err := newTestStoreService(t, db).Detail(context.Background(), claims)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestStoreService_Update(t *testing.T) {
	db := newMemDB()
	account := seedAccount(t, db, "maria@test.com", "12345678", "abc12345")
	store := db.stores[account.ID]
	store.Description = "Store created by Maria Lopez"
	db.settings[store.ID] = &domain.StoreSettings{StoreID: store.ID, ShowStock: true}

	err := newTestStoreService(t, db).Update(context.Background(), claimsFor(db, account), &dto.UpdateStoreRequest{
		Name:    ptr(" Bodega Maria "),
		Address: &dto.Address{Street: "Av. Arequipa 123", City: "Lima", Coordinates: dto.Coordinates{Latitude: "-12.05", Longitude: "-77.04"}},
		Contact: &dto.Contact{Phone: "987654321"},
		Settings: &dto.SettingsPatch{
			IsPublic: ptr(true),
		},
	})
	require.NoError(t, err)

	updated := db.stores[account.ID]
	assert.Equal(t, "Bodega Maria", updated.Name)
	assert.Equal(t, "Store created by Maria Lopez", updated.Description)
	assert.Equal(t, "-12.05", updated.Address.Coordinates.Latitude)
	assert.Equal(t, "987654321", updated.Contact.Phone)

	settings := db.settings[store.ID]
	assert.True(t, settings.IsPublic)
	assert.True(t, settings.ShowStock, "absent switches are kept")
}

func TestStoreService_UpdateRollsBack(t *testing.T) {
	db := newMemDB()
	account := seedAccount(t, db, "maria@test.com", "12345678", "abc12345")
	db.failures["settings.update"] = errors.New("connection reset")

	err := newTestStoreService(t, db).Update(context.Background(), claimsFor(db, account), &dto.UpdateStoreRequest{
		Name:     ptr("Bodega Maria"),
		Settings: &dto.SettingsPatch{IsPublic: ptr(true)},
	})
	require.Error(t, err)
	assert.Empty(t, db.stores[account.ID].Name)
}

func TestStoreService_UpdateRequiresKnownActor(t *testing.T) {
	db := newMemDB()
	account := seedAccount(t, db, "maria@test.com", "12345678", "abc12345")
	claims := claimsFor(db, account)
	claims.Account.Type = "staff_account"

	err := newTestStoreService(t, db).Update(context.Background(), claims, &dto.UpdateStoreRequest{Name: ptr("Bodega")})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestStoreService_UpdateSector(t *testing.T) {
	db := newMemDB()
	account := seedAccount(t, db, "maria@test.com", "12345678", "abc12345")
	svc := newTestStoreService(t, db)

	sector, err := svc.UpdateSector(context.Background(), claimsFor(db, account), &dto.UpdateSectorRequest{Sector: "bakery"})
	require.NoError(t, err)
	assert.Equal(t, "bakery", sector.Key)

	store := db.stores[account.ID]
	assert.Equal(t, "bakery", store.Sector)
	assert.Equal(t, svc.catalog.Terminology("bakery"), store.Terminology)
}

func TestStoreService_UpdateSectorUnknown(t *testing.T) {
	db := newMemDB()
	account := seedAccount(t, db, "maria@test.com", "12345678", "abc12345")

	_, err := newTestStoreService(t, db).UpdateSector(context.Background(), claimsFor(db, account), &dto.UpdateSectorRequest{Sector: "spaceport"})
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(err))
	assert.Equal(t, domain.DefaultSector, db.stores[account.ID].Sector)
}
