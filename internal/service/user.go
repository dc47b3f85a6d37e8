package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/online_shopping/internal/models"
	"github.com/Skotchmaster/online_shopping/internal/repo"
	"github.com/Skotchmaster/online_shopping/internal/transport"
	pkg_hash "github.com/Skotchmaster/online_shopping/pkg/hash"
	"github.com/Skotchmaster/online_shopping/pkg/logging"
	"github.com/Skotchmaster/online_shopping/pkg/tokens"
)

type UserStore interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, id uint) error
}

type OrderCounter interface {
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}

type UserService struct {
	Repo      UserStore
	Orders    OrderCounter
	JWTSecret []byte
	AccessTTL time.Duration
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.Repo.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, err
	}
	return user, nil
}

func taken(ctx context.Context, find func(context.Context, string) (*models.User, error), value string) (bool, error) {
	_, err := find(ctx, value)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repo.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *UserService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.register", "username", req.Username)

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" {
		return nil, fmt.Errorf("%w: username required", ErrValidation)
	}
	if req.Email == "" {
		return nil, fmt.Errorf("%w: email required", ErrValidation)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("%w: password required", ErrValidation)
	}

	if ok, err := taken(ctx, s.Repo.FindByUsername, req.Username); err != nil {
		return nil, err
	} else if ok {
		l.Warn("register_error", "status", 409, "reason", "username taken")
		return nil, fmt.Errorf("%w: username already taken", ErrConflict)
	}
	if ok, err := taken(ctx, s.Repo.FindByEmail, req.Email); err != nil {
		return nil, err
	} else if ok {
		l.Warn("register_error", "status", 409, "reason", "email taken")
		return nil, fmt.Errorf("%w: email already taken", ErrConflict)
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user, err := s.Repo.Create(ctx, &models.User{
		Username:     req.Username,
		PasswordHash: pwHash,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Address:      req.Address,
		Phone:        req.Phone,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username or email already taken", ErrConflict)
		}
		return nil, err
	}
	return user, nil
}

// Update replaces the profile fields. Username, email and password are not editable here.
func (s *UserService) Update(ctx context.Context, id uint, req transport.UpdateUserRequest) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Address = req.Address
	user.Phone = req.Phone
	return s.Repo.Update(ctx, user)
}

// Delete refuses to remove a user that orders still point at.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	n, err := s.Orders.CountByUserID(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: user %d has %d orders", ErrConflict, id, n)
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return err
	}
	return nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*transport.LoginResponse, error) {
	l := logging.FromContext(ctx).With("svc", "user.login", "username", username)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password required", ErrValidation)
	}

	user, err := s.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown username")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrInvalidCredentials
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	accessToken, err := tokens.NewAccessToken(user.ID, user.Username, s.JWTSecret, time.Now().Add(ttl))
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	return &transport.LoginResponse{
		ID:          user.ID,
		Username:    user.Username,
		Message:     "Login successful",
		AccessToken: accessToken,
	}, nil
}
