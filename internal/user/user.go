package user

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Role is fixed at signup. There is no role migration.
type Role string

const (
	RoleEmployee Role = "Employee"
	RoleManager  Role = "Manager"
)

func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleManager
}

// CounterName is the durable counter backing role-scoped identifiers.
func (r Role) CounterName() string {
	if r == RoleManager {
		return "manager_number"
	}
	return "employee_number"
}

// FormatRoleID renders the raw sequence value for display, e.g. EMP001 / MAN001.
// The sequencer itself only deals in integers.
func FormatRoleID(r Role, seq int64) string {
	prefix := "EMP"
	if r == RoleManager {
		prefix = "MAN"
	}
	return fmt.Sprintf("%s%03d", prefix, seq)
}

type User struct {
	ID           string    `json:"user_id" gorm:"column:id;primaryKey"`
	RoleID       string    `json:"role_id" gorm:"column:role_id;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Department   string    `json:"department"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	Role         Role      `json:"role" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at"`
}

func (User) TableName() string {
	return "users"
}

var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
)

// Repository is the persistence contract for the directory. Email uniqueness
// is enforced by the storage layer so concurrent signups cannot both succeed.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]*User, error)
	Delete(ctx context.Context, id string) error
}

// Sequencer issues unique, strictly increasing values per counter name.
type Sequencer interface {
	Next(ctx context.Context, name string) (int64, error)
}

// PasswordHasher is the credential store contract. Implementations must never
// retain or log the plaintext.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

type userCtxKey string

const ContextUserKey userCtxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}
