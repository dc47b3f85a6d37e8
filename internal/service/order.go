package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/online_shopping/internal/models"
	"github.com/Skotchmaster/online_shopping/internal/repo"
	"github.com/Skotchmaster/online_shopping/internal/transport"
)

// UserDirectory answers whether a user exists.
type UserDirectory interface {
	ExistsByID(ctx context.Context, id uint) (bool, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// OrderStore persists orders. Lookups of a missing id return repo.ErrNotFound.
type OrderStore interface {
	FindAll(ctx context.Context) ([]models.Order, error)
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	FindByUserID(ctx context.Context, userID uint) ([]models.Order, error)
	Save(ctx context.Context, order *models.Order) (*models.Order, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}

type OrderService struct {
	Orders OrderStore
	Users  UserDirectory
	Now    func() time.Time
}

// acceptedAt rounds the clock up to the microsecond so the stored date survives
// postgres timestamp precision and is never earlier than the call.
func (s *OrderService) acceptedAt() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	t := now().UTC()
	r := t.Truncate(time.Microsecond)
	if r.Before(t) {
		r = r.Add(time.Microsecond)
	}
	return r
}

func (s *OrderService) CreateOrder(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	if !req.TotalAmount.Valid {
		return nil, fmt.Errorf("%w: totalAmount required", ErrValidation)
	}
	amount := req.TotalAmount.Decimal
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: totalAmount must be >= 0", ErrValidation)
	}
	if !amount.Equal(amount.Round(2)) {
		return nil, fmt.Errorf("%w: totalAmount has more than 2 decimal places", ErrValidation)
	}

	user, err := s.Users.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d not found", ErrValidation, req.UserID)
		}
		return nil, err
	}

	order := &models.Order{
		UserID:          user.ID,
		OrderDate:       s.acceptedAt(),
		Status:          models.OrderStatusPending,
		TotalAmount:     amount,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
	}
	return s.Orders.Save(ctx, order)
}

// UpdateStatus overwrites the status with any string, including one outside the
// documented set. Every other field is left as stored.
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Status = status
	return s.Orders.Save(ctx, order)
}

func (s *OrderService) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.Orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, err
	}
	return order, nil
}

func (s *OrderService) GetAll(ctx context.Context) ([]models.Order, error) {
	return s.Orders.FindAll(ctx)
}

func (s *OrderService) GetByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	ok, err := s.Users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return s.Orders.FindByUserID(ctx, userID)
}
