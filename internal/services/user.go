package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/platform/apierr"
	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/repos"
	"github.com/calmly/calmly-backend/internal/requestdata"
	"github.com/calmly/calmly-backend/internal/types"
)

type UserUpdateInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserService interface {
	List(ctx context.Context) ([]*types.User, error)
	Get(ctx context.Context, userID uuid.UUID) (*types.User, error)
	Update(ctx context.Context, userID uuid.UUID, input UserUpdateInput) (*types.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{db: db, log: log.With("service", "UserService"), userRepo: userRepo}
}

func (us *userService) List(ctx context.Context) ([]*types.User, error) {
	return us.userRepo.List(ctx, nil)
}

func (us *userService) Get(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	user, err := us.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return nil, apierr.New(http.StatusNotFound, "user_not_found", errors.New("user not found"))
	}
	return user, nil
}

func (us *userService) Update(ctx context.Context, userID uuid.UUID, input UserUpdateInput) (*types.User, error) {
	if err := requireSelf(ctx, userID); err != nil {
		return nil, err
	}
	user, err := us.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(input.Password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user.Name = strings.TrimSpace(input.Name)
	user.Email = strings.ToLower(strings.TrimSpace(input.Email))
	user.Password = string(hashed)

	if err := us.userRepo.Update(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (us *userService) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := requireSelf(ctx, userID); err != nil {
		return err
	}
	deleted, err := us.userRepo.Delete(ctx, nil, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return apierr.New(http.StatusNotFound, "user_not_found", errors.New("user not found"))
	}
	return nil
}

// requireSelf rejects any request whose verified identity disagrees with
// the targeted user id.
func requireSelf(ctx context.Context, userID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID != userID {
		return apierr.New(http.StatusForbidden, "forbidden", errors.New("you can only access your own data"))
	}
	return nil
}
