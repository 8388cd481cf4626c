package promos_test

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

	"github.com/shorebytelabs/nailsbyabri-sub003/internal/promos"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PromoCode{}, &models.PromoRedemption{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedPromo(t *testing.T, db *gorm.DB, code string) models.PromoCode {
	t.Helper()
	promo := models.PromoCode{
		ID:     uuid.New(),
		Code:   code,
		Type:   enums.PromoTypePercentage,
		Value:  10,
		Active: true,
	}
	require.NoError(t, db.Create(&promo).Error)
	return promo
}

func TestRepositoryFindByCode(t *testing.T) {
	db := testDB(t)
	repo := promos.NewRepository(db)
	seedPromo(t, db, "WELCOME10")

	got, err := repo.FindByCode(context.Background(), "  welcome10 ")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "WELCOME10", got.Code)

	missing, err := repo.FindByCode(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)

	blank, err := repo.FindByCode(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, blank)
}

func TestRepositoryRecordRedemption(t *testing.T) {
	db := testDB(t)
	repo := promos.NewRepository(db)
	promo := seedPromo(t, db, "TENOFF")
	userID := uuid.New()

	require.NoError(t, repo.RecordRedemption(context.Background(), promo.ID, userID, uuid.New()))
	require.NoError(t, repo.RecordRedemption(context.Background(), promo.ID, userID, uuid.New()))

	var reloaded models.PromoCode
	require.NoError(t, db.First(&reloaded, "id = ?", promo.ID).Error)
	assert.Equal(t, 2, reloaded.UsesCount)

	count, err := repo.CountUserRedemptions(context.Background(), promo.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	other, err := repo.CountUserRedemptions(context.Background(), promo.ID, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, other)
}

func TestRepositoryRedemptionUniquePerOrder(t *testing.T) {
	db := testDB(t)
	repo := promos.NewRepository(db)
	promo := seedPromo(t, db, "ONCE")
	orderID := uuid.New()

	require.NoError(t, repo.RecordRedemption(context.Background(), promo.ID, uuid.New(), orderID))
	err := repo.RecordRedemption(context.Background(), promo.ID, uuid.New(), orderID)
	assert.Error(t, err, "second redemption for the same order must fail")
}

func TestRepositoryCreateUpperCasesCode(t *testing.T) {
	db := testDB(t)
	repo := promos.NewRepository(db)

	created, err := repo.Create(context.Background(), &models.PromoCode{
		Code:  " spring24 ",
		Type:  enums.PromoTypeFixedAmount,
		Value: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, "SPRING24", created.Code)
	assert.NotEqual(t, uuid.Nil, created.ID)
}
