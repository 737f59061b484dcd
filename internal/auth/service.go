package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/pradiptar/leave-management/internal/user"
)

// UserDirectory is the slice of the user directory the auth service needs.
type UserDirectory interface {
	Create(ctx context.Context, params user.CreateUserParams) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
	Delete(ctx context.Context, id string) error
}

type ServiceAPI interface {
	Signup(ctx context.Context, dto SignupDTO) (*SessionResult, error)
	Login(ctx context.Context, dto LoginDTO) (*SessionResult, error)
	CurrentUser(ctx context.Context, tokenString string) (*user.User, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
}

// Service composes the user directory with the session issuer.
type Service struct {
	directory UserDirectory
	tokenGen  TokenGenerator
	logger    *slog.Logger
}

func NewService(directory UserDirectory, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		directory: directory,
		tokenGen:  tokenGen,
		logger:    logger,
	}
}

// Signup registers a user and mints a session token for it. If minting fails
// after the user record was inserted, the record is rolled back so no
// inaccessible account is left behind.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*SessionResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.directory.Create(ctx, user.CreateUserParams{
		Name:       dto.Name,
		Email:      dto.Email,
		Department: dto.Department,
		Password:   dto.Password,
		Role:       user.Role(dto.Role),
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokenGen.Generate(u)
	if err != nil {
		s.logger.Error("token minting failed after signup, rolling back user", "error", err, "user_id", u.ID)
		if delErr := s.directory.Delete(ctx, u.ID); delErr != nil {
			s.logger.Error("signup rollback failed", "error", delErr, "user_id", u.ID)
		}
		return nil, err
	}

	return &SessionResult{AccessToken: token, TokenType: "bearer", User: u}, nil
}

// Login authenticates credentials and mints a session token. The error is the
// same whether the email is unknown or the password is wrong.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*SessionResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.directory.Authenticate(ctx, dto.Email, dto.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	token, err := s.tokenGen.Generate(u)
	if err != nil {
		s.logger.Error("token minting failed on login", "error", err, "user_id", u.ID)
		return nil, err
	}

	return &SessionResult{AccessToken: token, TokenType: "bearer", User: u}, nil
}

// CurrentUser resolves a session token to the current user record. The claims
// only supply the user id; name, department and role are re-read from storage.
func (s *Service) CurrentUser(ctx context.Context, tokenString string) (*user.User, error) {
	claims, err := s.tokenGen.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	u, err := s.directory.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGen.ValidateToken(tokenString)
}
