package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/online_shopping/internal/repo"
	"github.com/Skotchmaster/online_shopping/internal/testutil"
	"github.com/Skotchmaster/online_shopping/internal/transport"
	"github.com/Skotchmaster/online_shopping/pkg/tokens"
)

func newUserFixture(t *testing.T) (*UserService, *OrderService) {
	t.Helper()
	db := testutil.NewDB(t)
	users := &repo.UserRepo{DB: db}
	orders := &repo.OrderRepo{DB: db}
	return &UserService{
			Repo:      users,
			Orders:    orders,
			JWTSecret: []byte("test-jwt-secret"),
			AccessTTL: 15 * time.Minute,
		},
		&OrderService{Orders: orders, Users: users}
}

func registerReq(username string) transport.RegisterRequest {
	return transport.RegisterRequest{
		Username:  username,
		Password:  "Secret123",
		Email:     username + "@example.com",
		FirstName: "First",
		LastName:  "Last",
	}
}

func TestUserService_Register(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "Secret123", user.PasswordHash)

	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestUserService_Register_Validation(t *testing.T) {
	svc, _ := newUserFixture(t)

	tests := []struct {
		name   string
		mutate func(*transport.RegisterRequest)
	}{
		{name: "empty username", mutate: func(r *transport.RegisterRequest) { r.Username = "  " }},
		{name: "empty email", mutate: func(r *transport.RegisterRequest) { r.Email = "" }},
		{name: "empty password", mutate: func(r *transport.RegisterRequest) { r.Password = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := registerReq("bob")
			tt.mutate(&req)
			_, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUserService_Register_Conflict(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("alice"))
	assert.ErrorIs(t, err, ErrConflict)

	sameEmail := registerReq("alice2")
	sameEmail.Email = "alice@example.com"
	_, err = svc.Register(ctx, sameEmail)
	assert.ErrorIs(t, err, ErrConflict)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserService_Update(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, user.ID, transport.UpdateUserRequest{
		FirstName: "Alice",
		LastName:  "Liddell",
		Address:   "Wonderland 1",
		Phone:     "555",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "alice", updated.Username)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)

	_, err = svc.Update(ctx, 999, transport.UpdateUserRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_Delete(t *testing.T) {
	svc, orders := newUserFixture(t)
	ctx := context.Background()

	alice, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)
	bob, err := svc.Register(ctx, registerReq("bob"))
	require.NoError(t, err)

	_, err = orders.CreateOrder(ctx, transport.CreateOrderRequest{UserID: alice.ID, TotalAmount: amount("1.00")})
	require.NoError(t, err)

	err = svc.Delete(ctx, alice.ID)
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.Get(ctx, alice.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, bob.ID))
	_, err = svc.Get(ctx, bob.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, bob.ID), ErrNotFound)
}

func TestUserService_Login(t *testing.T) {
	svc, _ := newUserFixture(t)
	ctx := context.Background()
	user, err := svc.Register(ctx, registerReq("alice"))
	require.NoError(t, err)

	res, err := svc.Login(ctx, "alice", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.ID)
	assert.Equal(t, "alice", res.Username)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "1", claims.Subject)

	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)
}
