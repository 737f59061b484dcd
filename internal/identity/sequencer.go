package identity

import (
	"context"

	"github.com/pradiptar/leave-management/internal"
	"gorm.io/gorm"
)

// Sequencer issues strictly increasing values from named durable counters.
// The increment is a single upsert so concurrent callers, including callers
// in other instances of the service, can never observe the same value.
type Sequencer struct {
	db *gorm.DB
}

func NewSequencer(db *gorm.DB) *Sequencer {
	return &Sequencer{db: db}
}

// Next increments the named counter and returns the new value, creating the
// counter at 1 if it does not exist. Values are never reused or decremented.
func (s *Sequencer) Next(ctx context.Context, name string) (int64, error) {
	var seq int64
	err := s.db.WithContext(ctx).Raw(
		`INSERT INTO counters (name, seq) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET seq = seq + 1
		 RETURNING seq`, name,
	).Scan(&seq).Error
	if err != nil {
		return 0, internal.NewStorageError(err)
	}
	return seq, nil
}
