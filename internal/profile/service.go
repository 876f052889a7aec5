package profile

import (
	"context"
	"errors"
	"strings"

	"gymconnect/internal/auth"
	"gymconnect/internal/logger"

	"github.com/google/uuid"
)

var (
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error)
	GetByID(ctx context.Context, profileID string) (*Profile, error)
}

type service struct {
	repo          Repository
	accessSecret  string
	refreshSecret string
}

func NewService(repo Repository, accessSecret, refreshSecret string) Service {
	return &service{
		repo:          repo,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
	}
}

// Register creates a profile and signs it in. Role defaults to user.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	role := auth.RoleUser
	if req.Role != "" {
		r, err := auth.ParseRole(req.Role)
		if err != nil {
			return nil, err
		}
		role = r
	}

	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	p := &Profile{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	logger.Info("profile registered", "profile_id", p.ID, "role", string(p.Role))
	return s.issue(p)
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	p, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error("login lookup failed", "error", err)
		}
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPassword(p.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(p)
}

// Refresh trades a refresh token for a new access token. The profile is
// reloaded so a deleted account cannot keep refreshing.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	_, claims, err := auth.RefreshAccessToken(refreshToken, s.refreshSecret, s.accessSecret)
	if err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, claims.ProfileID)
	if err != nil {
		return nil, err
	}

	accessToken, err := auth.GenerateAccessToken(p.ID, p.Email, p.Role, s.accessSecret)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{AccessToken: accessToken, Profile: p}, nil
}

func (s *service) GetByID(ctx context.Context, profileID string) (*Profile, error) {
	return s.repo.FindByID(ctx, profileID)
}

func (s *service) issue(p *Profile) (*AuthResponse, error) {
	accessToken, refreshToken, err := auth.GenerateTokens(p.ID, p.Email, p.Role, s.accessSecret, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Profile:      p,
	}, nil
}
