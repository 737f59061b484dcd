package leave_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pradiptar/leave-management/internal/leave"
	"github.com/pradiptar/leave-management/internal/user"
)

func TestLeaveService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Leave Service Suite")
}

// MockRepository implements leave.Repository with the same active/history
// split the real storage has.
type MockRepository struct {
	active     map[string]*leave.LeaveApplication
	history    map[string]*leave.LeaveApplication
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		active:  make(map[string]*leave.LeaveApplication),
		history: make(map[string]*leave.LeaveApplication),
	}
}

func (m *MockRepository) Create(ctx context.Context, lv *leave.LeaveApplication) error {
	if m.shouldFail {
		return m.failError
	}
	m.active[lv.ID] = lv
	return nil
}

func (m *MockRepository) ListActiveByEmployee(ctx context.Context, employeeID string) ([]*leave.LeaveApplication, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*leave.LeaveApplication
	for _, lv := range m.active {
		if lv.EmployeeID == employeeID {
			result = append(result, lv)
		}
	}
	return result, nil
}

func (m *MockRepository) ListHistoryByEmployee(ctx context.Context, employeeID string) ([]*leave.LeaveApplication, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*leave.LeaveApplication
	for _, lv := range m.history {
		if lv.EmployeeID == employeeID {
			result = append(result, lv)
		}
	}
	return result, nil
}

func (m *MockRepository) ListPending(ctx context.Context) ([]*leave.LeaveApplication, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*leave.LeaveApplication
	for _, lv := range m.active {
		result = append(result, lv)
	}
	return result, nil
}

func (m *MockRepository) Archive(ctx context.Context, leaveID, status string, decidedAt time.Time) (*leave.LeaveApplication, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	lv, exists := m.active[leaveID]
	if !exists {
		return nil, leave.ErrNotFound
	}
	delete(m.active, leaveID)
	lv.Status = status
	lv.DecidedAt = &decidedAt
	m.history[leaveID] = lv
	return lv, nil
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

var _ = Describe("Leave Service", func() {
	var (
		mockRepo *MockRepository
		service  *leave.Service
		logger   *slog.Logger
		asha     *user.User
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = leave.NewService(mockRepo, logger)
		asha = &user.User{
			ID:         "user-1",
			RoleID:     "EMP001",
			Name:       "Asha",
			Email:      "asha@example.com",
			Department: "Engineering",
			Role:       user.RoleEmployee,
		}
	})

	submit := func(employee *user.User, dto leave.SubmitLeaveDTO) *leave.LeaveApplication {
		lv, err := service.Submit(context.Background(), employee, dto)
		Expect(err).NotTo(HaveOccurred())
		return lv
	}

	Describe("Submit", func() {
		It("should create a pending application with the employee snapshot", func() {
			lv := submit(asha, leave.SubmitLeaveDTO{
				Title:     "Family event",
				StartDate: "2025-07-01",
				EndDate:   "2025-07-03",
			})

			Expect(lv.Status).To(Equal(leave.StatusPending))
			Expect(lv.EmployeeID).To(Equal("EMP001"))
			Expect(lv.EmployeeName).To(Equal("Asha"))
			Expect(lv.EmployeeEmail).To(Equal("asha@example.com"))
			Expect(lv.EmployeeDepartment).To(Equal("Engineering"))
			Expect(lv.SubmittedAt).NotTo(BeZero())
			Expect(lv.DecidedAt).To(BeNil())
		})

		It("should derive days from the date range", func() {
			lv := submit(asha, leave.SubmitLeaveDTO{
				Title:     "Family event",
				StartDate: "2025-07-01",
				EndDate:   "2025-07-03",
			})
			Expect(lv.Days).To(Equal(3))
		})

		It("should count a single-day range as one day", func() {
			lv := submit(asha, leave.SubmitLeaveDTO{
				Title:     "Checkup",
				StartDate: "2025-07-01",
				EndDate:   "2025-07-01",
			})
			Expect(lv.Days).To(Equal(1))
		})

		It("should ignore a client-supplied day count", func() {
			lv := submit(asha, leave.SubmitLeaveDTO{
				Title:     "Family event",
				StartDate: "2025-07-01",
				EndDate:   "2025-07-03",
				Days:      99,
			})
			Expect(lv.Days).To(Equal(3))
		})

		It("should reject an inverted date range", func() {
			_, err := service.Submit(context.Background(), asha, leave.SubmitLeaveDTO{
				Title:     "Family event",
				StartDate: "2025-07-03",
				EndDate:   "2025-07-01",
			})
			Expect(err).To(HaveOccurred())
			Expect(mockRepo.active).To(BeEmpty())
		})

		It("should reject a malformed date", func() {
			_, err := service.Submit(context.Background(), asha, leave.SubmitLeaveDTO{
				Title:     "Family event",
				StartDate: "01-07-2025",
				EndDate:   "2025-07-03",
			})
			Expect(err).To(HaveOccurred())
		})

		It("should reject a missing title", func() {
			_, err := service.Submit(context.Background(), asha, leave.SubmitLeaveDTO{
				StartDate: "2025-07-01",
				EndDate:   "2025-07-03",
			})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListForEmployee", func() {
		It("should merge active and decided applications, newest first", func() {
			now := time.Now().UTC()

			first := submit(asha, leave.SubmitLeaveDTO{
				Title:     "Older",
				StartDate: "2025-06-01",
				EndDate:   "2025-06-02",
			})
			first.SubmittedAt = now.Add(-2 * time.Hour)

			second := submit(asha, leave.SubmitLeaveDTO{
				Title:     "Newer",
				StartDate: "2025-07-01",
				EndDate:   "2025-07-02",
			})
			second.SubmittedAt = now.Add(-time.Hour)

			_, err := service.Decide(context.Background(), first.ID, leave.StatusApproved)
			Expect(err).NotTo(HaveOccurred())

			leaves, err := service.ListForEmployee(context.Background(), "EMP001")
			Expect(err).NotTo(HaveOccurred())
			Expect(leaves).To(HaveLen(2))
			Expect(leaves[0].Title).To(Equal("Newer"))
			Expect(leaves[1].Title).To(Equal("Older"))
			Expect(leaves[1].Status).To(Equal(leave.StatusApproved))
		})

		It("should not leak other employees' applications", func() {
			budi := &user.User{RoleID: "EMP002", Name: "Budi", Role: user.RoleEmployee}

			submit(asha, leave.SubmitLeaveDTO{Title: "Asha's", StartDate: "2025-07-01", EndDate: "2025-07-02"})
			submit(budi, leave.SubmitLeaveDTO{Title: "Budi's", StartDate: "2025-07-01", EndDate: "2025-07-02"})

			leaves, err := service.ListForEmployee(context.Background(), "EMP001")
			Expect(err).NotTo(HaveOccurred())
			Expect(leaves).To(HaveLen(1))
			Expect(leaves[0].Title).To(Equal("Asha's"))
		})
	})

	Describe("Decide", func() {
		var lv *leave.LeaveApplication

		BeforeEach(func() {
			lv = submit(asha, leave.SubmitLeaveDTO{
				Title:     "Family event",
				StartDate: "2025-07-01",
				EndDate:   "2025-07-03",
			})
		})

		It("should approve a pending application and stamp the decision time", func() {
			decided, err := service.Decide(context.Background(), lv.ID, leave.StatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(decided.Status).To(Equal(leave.StatusApproved))
			Expect(decided.DecidedAt).NotTo(BeNil())
		})

		It("should reject a pending application", func() {
			decided, err := service.Decide(context.Background(), lv.ID, leave.StatusRejected)
			Expect(err).NotTo(HaveOccurred())
			Expect(decided.Status).To(Equal(leave.StatusRejected))
		})

		It("should refuse a decision that is neither Approved nor Rejected", func() {
			_, err := service.Decide(context.Background(), lv.ID, "Maybe")
			Expect(err).To(MatchError(leave.ErrInvalidDecision))
		})

		It("should fail the second decision on the same application", func() {
			_, err := service.Decide(context.Background(), lv.ID, leave.StatusApproved)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Decide(context.Background(), lv.ID, leave.StatusRejected)
			Expect(err).To(MatchError(leave.ErrNotFound))
		})

		It("should return ErrNotFound for an unknown id", func() {
			_, err := service.Decide(context.Background(), "no-such-leave", leave.StatusApproved)
			Expect(err).To(MatchError(leave.ErrNotFound))
		})
	})

	Describe("approval workflow", func() {
		It("should walk a submission from pending through decision into history", func() {
			lv := submit(asha, leave.SubmitLeaveDTO{
				Title:     "Family event",
				StartDate: "2025-07-01",
				EndDate:   "2025-07-03",
			})

			pending, err := service.ListPending(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(HaveLen(1))

			_, err = service.Decide(context.Background(), lv.ID, leave.StatusApproved)
			Expect(err).NotTo(HaveOccurred())

			pending, err = service.ListPending(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(pending).To(BeEmpty())

			leaves, err := service.ListForEmployee(context.Background(), "EMP001")
			Expect(err).NotTo(HaveOccurred())
			Expect(leaves).To(HaveLen(1))
			Expect(leaves[0].Status).To(Equal(leave.StatusApproved))
		})
	})
})
