package repo

import (
	"context"

	"github.com/Skotchmaster/online_shopping/internal/models"
	"gorm.io/gorm"
)

type OrderRepo struct {
	DB *gorm.DB
}

func (r *OrderRepo) FindAll(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.DB.WithContext(ctx).Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepo) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *OrderRepo) FindByUserID(ctx context.Context, userID uint) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *OrderRepo) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Save inserts the order when it has no id yet, otherwise overwrites the row.
func (r *OrderRepo) Save(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}
