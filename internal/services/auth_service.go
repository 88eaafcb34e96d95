package services

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"loadlink_backend/internal/auth"
	"loadlink_backend/internal/config"
	"loadlink_backend/internal/logger"
	"loadlink_backend/internal/models"
	"loadlink_backend/internal/pkg/email"
	"loadlink_backend/internal/repositories"
	"loadlink_backend/internal/services/dto"
	"loadlink_backend/pkg/apperrors"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.LoginResponse, error)
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(refreshToken string) (*dto.LoginResponse, error)
	Logout(refreshToken string) error
	GetProfile(userID string) (*dto.UserResponse, error)
}

type AuthServiceImpl struct {
	userRepo     repositories.UserRepository
	sender       email.Sender
	emailEnabled bool
}

func NewAuthService(userRepo repositories.UserRepository, sender email.Sender, emailEnabled bool) AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		sender:       sender,
		emailEnabled: emailEnabled,
	}
}

func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.LoginResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		CompanyName:  req.CompanyName,
		Role:         req.Role,
		Status:       models.UserStatusActive,
		IsVerified:   true,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	if s.emailEnabled {
		go func() {
			if err := s.sender.SendWelcome(user.Email, user.Name, string(user.Role)); err != nil {
				logger.Error("Failed to send welcome email", "user_id", user.ID, "error", err)
			}
		}()
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status == models.UserStatusSuspended || user.Status == models.UserStatusBanned {
		return nil, apperrors.ErrUserSuspended
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Refresh(refreshToken string) (*dto.LoginResponse, error) {
	stored, err := s.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if user.Status == models.UserStatusSuspended || user.Status == models.UserStatusBanned {
		return nil, apperrors.ErrUserSuspended
	}

	// Rotate: the old token dies with the refresh.
	if err := s.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Logout(refreshToken string) error {
	if err := s.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) GetProfile(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *AuthServiceImpl) issueTokens(user *models.User) (*dto.LoginResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := generateRandomToken()
	if err := s.userRepo.CreateRefreshToken(&models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, apperrors.InternalError(err)
	}

	ttl := time.Duration(config.GetConfig().JWT.TTL) * time.Minute

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(ttl),
		User:         dto.NewUserResponse(user),
	}, nil
}

func generateRandomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing is unrecoverable for token issuance
		panic(err)
	}
	return hex.EncodeToString(b)
}
