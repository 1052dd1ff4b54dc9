package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/emskillz/instructpoint/internal/app/models"
	"github.com/emskillz/instructpoint/internal/app/models/dto"
	"github.com/emskillz/instructpoint/internal/app/repositories"
	"github.com/emskillz/instructpoint/internal/pkg/apperrors"
	"github.com/emskillz/instructpoint/internal/pkg/auth"
)

// AuthService handles authentication and account registration
type AuthService struct {
	userRepo       *repositories.UserRepository
	tokenRepo      *repositories.TokenRepository
	instructorRepo *repositories.InstructorRepository
	jwtService     *auth.JWTService
	logger         zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	instructorRepo *repositories.InstructorRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		tokenRepo:      tokenRepo,
		instructorRepo: instructorRepo,
		jwtService:     jwtService,
		logger:         logger,
	}
}

// Register creates a new unapproved instructor account. The account stays
// locked out of login until an administrator approves it.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email cannot be empty", apperrors.ErrValidationFailed)
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking email availability: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		ID:         uuid.New().String(),
		Email:      email,
		Password:   hashed,
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		RoleType:   models.RoleInstructor,
		IsApproved: false,
		IsActive:   true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	instructor := &models.Instructor{
		ID:           user.ID,
		Name:         user.FullName(),
		InstructorID: strings.TrimSpace(req.InstructorID),
		Status:       models.StatusPending,
		Role:         models.RoleInstructor,
		EmailAddress: email,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
	}
	if err := s.instructorRepo.Create(ctx, instructor); err != nil {
		// Roll back the orphaned account so the email can be reused
		if delErr := s.userRepo.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("userID", user.ID).Msg("Failed to clean up account after instructor create failure")
		}
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID).Str("email", email).Msg("Registered new instructor account pending approval")
	return user, nil
}

// Login authenticates a user and issues a token pair. Disabled and
// not-yet-approved accounts are rejected.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *dto.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}
	if !user.IsApproved {
		return nil, nil, apperrors.ErrAccountNotApproved
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Str("userID", user.ID).Msg("Failed to update last login time")
	}

	return user, tokens, nil
}

// RefreshToken exchanges a valid refresh token for a fresh token pair. The
// used token is revoked so each refresh token works exactly once.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*models.User, *dto.TokenResponse, error) {
	userID, err := s.tokenRepo.GetTokenUserID(ctx, refreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}

	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		s.logger.Warn().Err(err).Str("userID", userID).Msg("Failed to revoke used refresh token")
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Logout revokes every refresh token issued to the user
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	return s.tokenRepo.RevokeAllUserTokens(ctx, userID)
}

// GetProfile returns the account details for the user
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile updates the user's name and phone details. The instructor
// record's display name is kept in sync.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.User, error) {
	if err := s.userRepo.UpdateProfile(ctx, userID, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName)); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	instructor, err := s.instructorRepo.GetByID(ctx, userID)
	if err == nil {
		instructor.Name = user.FullName()
		if req.PhoneNumber != "" {
			instructor.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
		}
		if err := s.instructorRepo.Update(ctx, instructor); err != nil {
			s.logger.Warn().Err(err).Str("userID", userID).Msg("Failed to sync instructor record after profile update")
		}
	}

	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("error generating tokens: %w", err)
	}

	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, s.jwtService.GetRefreshTokenExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		TokenType:             "Bearer",
		ExpiresIn:             int64(expiresIn),
		RefreshToken:          refreshToken,
		RefreshTokenExpiresIn: int64(refreshExpiresIn),
	}, nil
}
