package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Documented order statuses. Status updates are not checked against this list.
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCanceled   = "CANCELED"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"    json:"id"`
	Username     string `gorm:"uniqueIndex;not null"        json:"username"`
	PasswordHash string `gorm:"column:password;not null"    json:"-"`
	Email        string `gorm:"uniqueIndex;not null"        json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
}

type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	Name          string          `gorm:"not null"                    json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"price"`
	Category      string          `gorm:"index"                       json:"category"`
	ImageURL      string          `json:"imageUrl"`
	StockQuantity int             `gorm:"not null;default:0"          json:"stockQuantity"`
}

// Order belongs to exactly one user. Only Status changes after creation.
type Order struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID          uint            `gorm:"index;not null"              json:"userId"`
	OrderDate       time.Time       `gorm:"not null"                    json:"orderDate"`
	Status          string          `gorm:"not null"                    json:"status"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(19,2);not null" json:"totalAmount"`
	ShippingAddress string          `json:"shippingAddress"`
	BillingAddress  string          `json:"billingAddress"`
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{&User{}, &Product{}, &Order{}}
}
