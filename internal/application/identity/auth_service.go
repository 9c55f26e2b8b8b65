package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/finsuite/backend/internal/domain/identity"
	"github.com/finsuite/backend/internal/domain/shared"
	"github.com/finsuite/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles registration and authentication
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		logger:     logger,
	}
}

// SignUp registers a user and signs them in
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*AuthResponse, error) {
	email := identity.NormalizeEmail(req.Email)

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, fmt.Sprintf("User with email %s already exists", email))
	}

	user, err := identity.NewUser(email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", zap.Int64("user_id", user.ID))

	return s.issue(user)
}

// SignIn authenticates a user by email and password
func (s *AuthService) SignIn(ctx context.Context, req SignInRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Sign-in for unknown email")
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("Invalid password attempt", zap.Int64("user_id", user.ID))
		return nil, shared.ErrInvalidCredentials
	}

	s.logger.Info("User signed in", zap.Int64("user_id", user.ID))

	return s.issue(user)
}

// Me returns the user a token was issued to
func (s *AuthService) Me(ctx context.Context, email string) (*UserResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.CodeNotFound, "User not found")
		}
		return nil, err
	}
	response := toUserResponse(user)
	return &response, nil
}

// SignOut revokes a token until it would have expired anyway
func (s *AuthService) SignOut(ctx context.Context, claims *auth.Claims) error {
	if claims.ID == "" {
		return shared.ErrUnauthorized
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Info("User signed out", zap.String("subject", claims.Subject))
	return nil
}

func (s *AuthService) issue(user *identity.User) (*AuthResponse, error) {
	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &AuthResponse{
		Token:     token.AccessToken,
		TokenType: token.TokenType,
		ExpiresAt: token.ExpiresAt,
		User:      toUserResponse(user),
	}, nil
}
