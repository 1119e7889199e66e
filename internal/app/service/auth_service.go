package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lenspost/internal/common"
	"lenspost/internal/common/security"
	"lenspost/internal/domain/model"
	"lenspost/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
	issuer   *security.TokenIssuer
}

func NewAuthService(userRepo repository.UserRepository, issuer *security.TokenIssuer) *AuthService {
	return &AuthService{userRepo: userRepo, issuer: issuer}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	fields := map[string]string{}
	if strings.TrimSpace(req.Username) == "" {
		fields["username"] = "is required"
	}
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "is required"
	}
	if len(req.Password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, &common.ValidationError{Fields: fields}
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           model.RoleMember, // Default role
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on a duplicate email.
		return nil, err
	}

	return s.respondWithToken(user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, &common.ValidationError{Fields: map[string]string{"credentials": "email and password are required"}}
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Same message as a bad password so accounts can't be enumerated.
			return nil, badCredentials()
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, badCredentials()
	}

	return s.respondWithToken(user)
}

func (s *AuthService) respondWithToken(user *model.User) (*AuthResponse, error) {
	token, err := s.issuer.Issue(security.Identity{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
		ProfilePhoto: user.ProfilePhoto,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{User: user, Token: token}, nil
}

func badCredentials() error {
	return common.Errorf("invalid email or password: %w", common.ErrUnauthorized)
}
