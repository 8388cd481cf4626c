package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/db/models"
	"github.com/shorebytelabs/nailsbyabri-sub003/pkg/enums"
)

// Repository exposes persistence operations for orders and their nail sets.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an order repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository running inside the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts an order with its sets and uploads.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	assignChildIDs(order)
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// Update saves order columns without touching associations; use
// ReplaceNailSets for line-item changes.
func (r *Repository) Update(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(order).Error
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ReplaceNailSets swaps an order's full line-item list. Old sets and their
// uploads are deleted; the new list is inserted as given.
func (r *Repository) ReplaceNailSets(ctx context.Context, orderID uuid.UUID, sets []models.NailSet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var oldSetIDs []uuid.UUID
		if err := tx.Model(&models.NailSet{}).
			Where("order_id = ?", orderID).
			Pluck("id", &oldSetIDs).Error; err != nil {
			return err
		}
		if len(oldSetIDs) > 0 {
			if err := tx.Where("nail_set_id IN ?", oldSetIDs).
				Delete(&models.DesignUpload{}).Error; err != nil {
				return err
			}
			if err := tx.Where("order_id = ?", orderID).
				Delete(&models.NailSet{}).Error; err != nil {
				return err
			}
		}
		for i := range sets {
			sets[i].OrderID = orderID
			sets[i].Position = i
			if sets[i].ID == uuid.Nil {
				sets[i].ID = uuid.New()
			}
			for j := range sets[i].Uploads {
				sets[i].Uploads[j].NailSetID = sets[i].ID
				if sets[i].Uploads[j].ID == uuid.Nil {
					sets[i].Uploads[j].ID = uuid.New()
				}
			}
		}
		if len(sets) == 0 {
			return nil
		}
		return tx.Create(&sets).Error
	})
}

// FindByID loads an order with its sets and uploads.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("NailSets", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("NailSets.Uploads").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDAndUser loads an order only when it belongs to the user.
func (r *Repository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("NailSets", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("NailSets.Uploads").
		First(&order, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByPaymentIntentID resolves the order a payment event refers to.
func (r *Repository) FindByPaymentIntentID(ctx context.Context, intentID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("NailSets").
		First(&order, "payment_intent_id = ?", intentID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns a user's orders, newest first, sets preloaded.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Preload("NailSets", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAll returns orders for the admin surface, optionally filtered by
// status, newest first.
func (r *Repository) ListAll(ctx context.Context, status *enums.OrderStatus) ([]models.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("NailSets", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func assignChildIDs(order *models.Order) {
	for i := range order.NailSets {
		set := &order.NailSets[i]
		set.OrderID = order.ID
		set.Position = i
		if set.ID == uuid.Nil {
			set.ID = uuid.New()
		}
		for j := range set.Uploads {
			set.Uploads[j].NailSetID = set.ID
			if set.Uploads[j].ID == uuid.Nil {
				set.Uploads[j].ID = uuid.New()
			}
		}
	}
}
