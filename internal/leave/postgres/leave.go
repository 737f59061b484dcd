package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/pradiptar/leave-management/internal"
	"github.com/pradiptar/leave-management/internal/leave"
	"gorm.io/gorm"
)

const historyTable = "leave_history"

// LeaveRepository implements leave.Repository using GORM, with the active set
// in leave_applications and decided records in leave_history.
type LeaveRepository struct {
	db *gorm.DB
}

func NewLeaveRepository(db *gorm.DB) leave.Repository {
	return &LeaveRepository{db: db}
}

func (r *LeaveRepository) Create(ctx context.Context, lv *leave.LeaveApplication) error {
	now := time.Now().UTC()
	lv.CreatedAt = now
	lv.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(lv).Error; err != nil {
		return internal.NewStorageError(err)
	}
	return nil
}

func (r *LeaveRepository) ListActiveByEmployee(ctx context.Context, employeeID string) ([]*leave.LeaveApplication, error) {
	var leaves []*leave.LeaveApplication
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("submitted_at DESC").
		Find(&leaves).Error
	if err != nil {
		return nil, internal.NewStorageError(err)
	}
	return leaves, nil
}

func (r *LeaveRepository) ListHistoryByEmployee(ctx context.Context, employeeID string) ([]*leave.LeaveApplication, error) {
	var leaves []*leave.LeaveApplication
	err := r.db.WithContext(ctx).
		Table(historyTable).
		Where("employee_id = ?", employeeID).
		Order("submitted_at DESC").
		Find(&leaves).Error
	if err != nil {
		return nil, internal.NewStorageError(err)
	}
	return leaves, nil
}

// ListPending returns the active set oldest-first. FIFO for review queues.
func (r *LeaveRepository) ListPending(ctx context.Context) ([]*leave.LeaveApplication, error) {
	var leaves []*leave.LeaveApplication
	err := r.db.WithContext(ctx).
		Where("status = ?", leave.StatusPending).
		Order("submitted_at ASC").
		Find(&leaves).Error
	if err != nil {
		return nil, internal.NewStorageError(err)
	}
	return leaves, nil
}

// Archive finalizes a pending record and moves it to history in one
// transaction. The delete doubles as the not-found / already-decided check:
// zero rows affected means there is no pending record with that id.
func (r *LeaveRepository) Archive(ctx context.Context, leaveID, status string, decidedAt time.Time) (*leave.LeaveApplication, error) {
	var decided *leave.LeaveApplication

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lv leave.LeaveApplication
		if err := tx.Where("id = ? AND status = ?", leaveID, leave.StatusPending).First(&lv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leave.ErrNotFound
			}
			return err
		}

		res := tx.Where("id = ? AND status = ?", leaveID, leave.StatusPending).Delete(&leave.LeaveApplication{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// lost the race against a concurrent decision
			return leave.ErrNotFound
		}

		lv.Status = status
		lv.DecidedAt = &decidedAt
		lv.UpdatedAt = time.Now().UTC()

		if err := tx.Table(historyTable).Create(&lv).Error; err != nil {
			return err
		}

		decided = &lv
		return nil
	})
	if err != nil {
		if errors.Is(err, leave.ErrNotFound) {
			return nil, leave.ErrNotFound
		}
		return nil, internal.NewStorageError(err)
	}

	return decided, nil
}
