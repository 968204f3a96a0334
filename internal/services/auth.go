package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/calmly/calmly-backend/internal/platform/apierr"
	"github.com/calmly/calmly-backend/internal/platform/logger"
	"github.com/calmly/calmly-backend/internal/repos"
	"github.com/calmly/calmly-backend/internal/requestdata"
	"github.com/calmly/calmly-backend/internal/types"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*types.User, error)
	Login(ctx context.Context, input LoginInput) (accessToken, refreshToken string, user *types.User, err error)
	Logout(ctx context.Context) error
	ParseToken(tokenString string) (uuid.UUID, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) Register(ctx context.Context, input RegisterInput) (*types.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	password := strings.TrimSpace(input.Password)

	if name == "" || email == "" || password == "" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_input", errors.New("name, email and password are required"))
	}

	exists, err := as.userRepo.EmailExists(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apierr.New(http.StatusConflict, "email_in_use", errors.New("email is already in use"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: string(hashed),
	}
	if err := as.userRepo.Create(ctx, nil, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	as.log.Info("User registered", "user_id", user.ID.String())
	return user, nil
}

func (as *authService) Login(ctx context.Context, input LoginInput) (string, string, *types.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	password := strings.TrimSpace(input.Password)

	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return "", "", nil, fmt.Errorf("load user: %w", err)
	}
	if user == nil {
		return "", "", nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("invalid email or password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", nil, apierr.New(http.StatusUnauthorized, "invalid_credentials", errors.New("invalid email or password"))
	}

	accessToken, err := as.generateAccessToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken := uuid.New().String()

	if err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userTokenRepo.DeleteByUserID(ctx, tx, user.ID); err != nil {
			return fmt.Errorf("clear existing tokens: %w", err)
		}
		token := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if err := as.userTokenRepo.Create(ctx, tx, token); err != nil {
			return fmt.Errorf("store token: %w", err)
		}
		return nil
	}); err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, user, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("no authenticated user"))
	}
	return as.userTokenRepo.DeleteByUserID(ctx, nil, rd.UserID)
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": now.Unix(),
		"exp": now.Add(as.accessTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) ParseToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errors.New("invalid or expired token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("token subject missing")
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.New("token subject is not a valid user id")
	}
	return userID, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
