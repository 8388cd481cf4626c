package promos

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
)

// Repository exposes persistence operations for promo codes and their
// redemptions.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a promo repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository running inside the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByCode looks a code up case-insensitively; codes are stored
// upper-cased. Returns (nil, nil) when no such code exists.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, nil
	}
	var row models.PromoCode
	err := r.db.WithContext(ctx).Where("code = ?", normalized).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// CountUserRedemptions returns how many times a user has redeemed a code.
func (r *Repository) CountUserRedemptions(ctx context.Context, promoID, userID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PromoRedemption{}).
		Where("promo_code_id = ? AND user_id = ?", promoID, userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// RecordRedemption writes the redemption row and bumps the code's use
// counter. The unique index on order_id makes a second redemption for the
// same order fail rather than double-count.
func (r *Repository) RecordRedemption(ctx context.Context, promoID, userID, orderID uuid.UUID) error {
	redemption := models.PromoRedemption{
		ID:          uuid.New(),
		PromoCodeID: promoID,
		UserID:      userID,
		OrderID:     orderID,
	}
	if err := r.db.WithContext(ctx).Create(&redemption).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("id = ?", promoID).
		Update("uses_count", gorm.Expr("uses_count + 1")).Error
}

// Create inserts a new promo code, upper-casing it first.
func (r *Repository) Create(ctx context.Context, promo *models.PromoCode) (*models.PromoCode, error) {
	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}
	promo.Code = strings.ToUpper(strings.TrimSpace(promo.Code))
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// Update saves the provided promo code.
func (r *Repository) Update(ctx context.Context, promo *models.PromoCode) (*models.PromoCode, error) {
	if err := r.db.WithContext(ctx).Save(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// List returns all promo codes, newest first.
func (r *Repository) List(ctx context.Context) ([]models.PromoCode, error) {
	var rows []models.PromoCode
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SetActive toggles a promo code without deleting redemption history.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.PromoCode{}).
		Where("id = ?", id).
		Update("active", active).Error
}
