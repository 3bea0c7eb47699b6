package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"scheduling-api/core/config"
	"scheduling-api/core/errors"
	"scheduling-api/core/logger"
	"scheduling-api/core/utils"
	"scheduling-api/modules/auth/dto"
	"scheduling-api/modules/auth/entity"
	"scheduling-api/modules/auth/repository"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError)
}

type AuthService struct {
	repo repository.UserRepositoryInterface
	auth config.AuthConfig
}

func NewAuthService(repo repository.UserRepositoryInterface, auth config.AuthConfig) *AuthService {
	return &AuthService{repo: repo, auth: auth}
}

func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	ttl := time.Duration(s.auth.TokenTTLHours) * time.Hour
	return utils.GenerateToken(userID, s.auth.JWTSecret, ttl)
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	logger.Info("AuthService:Register:Start", "email", req.Email)

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up user", nil)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already registered", nil)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", nil)
	}

	user, err := s.repo.Create(ctx, &entity.User{
		Email:    req.Email,
		Username: req.Username,
		Password: hashed,
	})
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", nil)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", nil)
	}

	logger.Info("AuthService:Register:Done", "user_id", user.ID)
	return &dto.AuthResponse{User: user, AccessToken: token}, nil
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to look up user", nil)
	}
	if user == nil || !utils.ComparePassword(user.Password, req.Password) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", nil)
	}

	logger.Info("AuthService:Login", "user_id", user.ID)
	return &dto.AuthResponse{User: user, AccessToken: token}, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, *errors.AppError) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load user", nil)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return user, nil
}
