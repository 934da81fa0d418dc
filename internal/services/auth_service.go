package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/learnspace/back/internal/models"
	"github.com/learnspace/back/internal/repositories"
	"github.com/learnspace/back/internal/utils"
)

// AuthService handles credentials and the per-session view state. A
// session tracks which space and view are active and which customization
// profile generations should use; all of that exists only while the
// session does.
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	ValidateToken(ctx context.Context, token string) (*models.Session, error)
	Logout(ctx context.Context, token string) error

	SelectSpace(ctx context.Context, token, spaceID, view string) error
	ClearSelection(ctx context.Context, token string) error
	SetCustomization(ctx context.Context, token string, customization models.Customization) error
}

type authService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
}

func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

func (s *authService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return &models.LoginResponse{
			Success: false,
			Error:   "Invalid username or password",
		}, nil
	}

	if !utils.VerifyPassword(req.Password, user.PasswordHash) {
		return &models.LoginResponse{
			Success: false,
			Error:   "Invalid username or password",
		}, nil
	}

	token, err := s.generateToken()
	if err != nil {
		return &models.LoginResponse{
			Success: false,
			Error:   "Failed to generate session token",
		}, nil
	}

	session := &models.Session{
		Token:         token,
		Username:      user.Username,
		Customization: models.DefaultCustomization(),
		ExpiresAt:     time.Now().Add(24 * time.Hour),
		CreatedAt:     time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return &models.LoginResponse{
			Success: false,
			Error:   "Failed to create session",
		}, nil
	}

	return &models.LoginResponse{
		Success:  true,
		Token:    token,
		Username: user.Username,
	}, nil
}

func (s *authService) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	if req.Password != req.ConfirmPassword {
		return &models.RegisterResponse{
			Success: false,
			Error:   "Passwords do not match",
		}, nil
	}

	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return &models.RegisterResponse{
			Success: false,
			Error:   "Username already exists",
		}, nil
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return &models.RegisterResponse{
			Success: false,
			Error:   "Failed to create account",
		}, nil
	}

	return &models.RegisterResponse{
		Success: true,
		Message: "Registration successful! You can now log in.",
	}, nil
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*models.Session, error) {
	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, errors.New("invalid token")
	}

	if time.Now().After(session.ExpiresAt) {
		s.sessionRepo.Delete(ctx, token)
		return nil, errors.New("token expired")
	}

	return session, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	return s.sessionRepo.Delete(ctx, token)
}

func (s *authService) SelectSpace(ctx context.Context, token, spaceID, view string) error {
	session, err := s.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	session.CurrentSpaceID = spaceID
	session.CurrentView = view
	return s.sessionRepo.Update(ctx, session)
}

// ClearSelection drops the active space/view, e.g. after the selected
// space was deleted or turned up missing.
func (s *authService) ClearSelection(ctx context.Context, token string) error {
	session, err := s.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	session.CurrentSpaceID = ""
	session.CurrentView = ""
	return s.sessionRepo.Update(ctx, session)
}

func (s *authService) SetCustomization(ctx context.Context, token string, customization models.Customization) error {
	if err := customization.Validate(); err != nil {
		return err
	}

	session, err := s.ValidateToken(ctx, token)
	if err != nil {
		return err
	}

	session.Customization = customization
	return s.sessionRepo.Update(ctx, session)
}

// generateToken generates a random token
func (s *authService) generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
