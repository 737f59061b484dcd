package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// dummyPasswordHash is compared against when no account matches the email so
// that authentication cost is the same for unknown users and wrong passwords.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Service is the user directory: it owns user records, enforces email
// uniqueness and hands out role-scoped identifiers.
type Service struct {
	repo      Repository
	sequencer Sequencer
	hasher    PasswordHasher
	logger    *slog.Logger
}

func NewService(repo Repository, sequencer Sequencer, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		sequencer: sequencer,
		hasher:    hasher,
		logger:    logger,
	}
}

// Create registers a new user. The sequence value consumed here is never
// reclaimed if a later step fails; gaps are acceptable.
func (s *Service) Create(ctx context.Context, params CreateUserParams) (*User, error) {
	if !params.Role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := s.repo.GetByEmail(ctx, params.Email); err == nil {
		s.logger.Warn("signup rejected: email already registered", "email", params.Email)
		return nil, ErrDuplicateEmail
	}

	seq, err := s.sequencer.Next(ctx, params.Role.CounterName())
	if err != nil {
		s.logger.Error("failed to issue role-scoped identifier", "error", err, "counter", params.Role.CounterName())
		return nil, err
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, err
	}

	u := &User{
		ID:           uuid.NewString(),
		RoleID:       FormatRoleID(params.Role, seq),
		Name:         params.Name,
		Email:        params.Email,
		Department:   params.Department,
		PasswordHash: hash,
		Role:         params.Role,
	}

	// The unique index catches the race where two signups with the same
	// email pass the pre-check above.
	if err := s.repo.Create(ctx, u); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", params.Email)
		return nil, err
	}

	s.logger.Info("user created", "user_id", u.ID, "role_id", u.RoleID, "role", u.Role)
	return u, nil
}

// Authenticate verifies credentials. Unknown email and wrong password return
// the same error, and both take one bcrypt comparison. Storage failures are
// not reclassified; they propagate as-is.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			_ = s.hasher.Verify(dummyPasswordHash, password)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("failed to look up user for authentication", "error", err)
		return nil, err
	}

	if err := s.hasher.Verify(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// GetByID re-reads the authoritative record; session claims are never trusted
// for name or department.
func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context) ([]*User, error) {
	return s.repo.ListByRole(ctx, RoleEmployee)
}

// Delete is the compensating rollback for a signup whose post-insert steps
// failed. The consumed sequence value stays consumed.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to roll back user", "error", err, "user_id", id)
		return err
	}
	s.logger.Info("user rolled back", "user_id", id)
	return nil
}
