package transport

import "github.com/shopspring/decimal"

type CreateOrderRequest struct {
	UserID          uint                `json:"userId"`
	TotalAmount     decimal.NullDecimal `json:"totalAmount"`
	ShippingAddress string              `json:"shippingAddress"`
	BillingAddress  string              `json:"billingAddress"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

type UpdateUserRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	Message     string `json:"message"`
	AccessToken string `json:"accessToken"`
}

type ProductRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	ImageURL      string          `json:"imageUrl"`
	StockQuantity int             `json:"stockQuantity"`
}
