package leave_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pradiptar/leave-management/internal/leave"
	leavePostgres "github.com/pradiptar/leave-management/internal/leave/postgres"
	"github.com/pradiptar/leave-management/internal/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testLeaveHistory mirrors the history table for testing; production
// migrations create it directly.
type testLeaveHistory struct {
	ID          string     `gorm:"column:id;primaryKey"`
	EmployeeID  string     `gorm:"column:employee_id;index"`
	Title       string     `gorm:"column:title"`
	Description string     `gorm:"column:description"`
	StartDate   time.Time  `gorm:"column:start_date"`
	EndDate     time.Time  `gorm:"column:end_date"`
	Days        int        `gorm:"column:days"`
	Status      string     `gorm:"column:status"`
	SubmittedAt time.Time  `gorm:"column:submitted_at"`
	DecidedAt   *time.Time `gorm:"column:decided_at"`

	EmployeeName       string    `gorm:"column:employee_name"`
	EmployeeEmail      string    `gorm:"column:employee_email"`
	EmployeeDepartment string    `gorm:"column:employee_department"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (testLeaveHistory) TableName() string {
	return "leave_history"
}

var _ = Describe("Leave Handler Integration", func() {
	var (
		db      *gorm.DB
		service *leave.Service
		handler *leave.Handler
		asha    *user.User
		raj     *user.User
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		err = db.AutoMigrate(&leave.LeaveApplication{}, &testLeaveHistory{})
		Expect(err).NotTo(HaveOccurred())

		service = leave.NewService(leavePostgres.NewLeaveRepository(db), slogger)
		handler = leave.NewHandler(service)

		asha = &user.User{
			ID:         "user-asha",
			RoleID:     "EMP001",
			Name:       "Asha",
			Email:      "asha@example.com",
			Department: "Engineering",
			Role:       user.RoleEmployee,
		}
		raj = &user.User{
			ID:     "user-raj",
			RoleID: "MAN001",
			Name:   "Raj",
			Email:  "raj@example.com",
			Role:   user.RoleManager,
		}
	})

	asUser := func(req *http.Request, u *user.User) *http.Request {
		return req.WithContext(user.ContextWithUser(req.Context(), u))
	}

	withLeaveID := func(req *http.Request, id string) *http.Request {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	submitLeave := func(u *user.User) string {
		body, err := json.Marshal(leave.SubmitLeaveDTO{
			Title:     "Family event",
			StartDate: "2025-07-01",
			EndDate:   "2025-07-03",
		})
		Expect(err).NotTo(HaveOccurred())

		req := asUser(httptest.NewRequest(http.MethodPost, "/leaves", bytes.NewReader(body)), u)
		w := httptest.NewRecorder()

		handler.SubmitLeave(w, req)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var response struct {
			Message string          `json:"message"`
			Leave   leave.LeaveView `json:"leave"`
		}
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		return response.Leave.LeaveID
	}

	Describe("SubmitLeave", func() {
		It("should create a pending application with derived days", func() {
			body, err := json.Marshal(leave.SubmitLeaveDTO{
				Title:     "Family event",
				StartDate: "2025-07-01",
				EndDate:   "2025-07-03",
				Days:      42,
			})
			Expect(err).NotTo(HaveOccurred())

			req := asUser(httptest.NewRequest(http.MethodPost, "/leaves", bytes.NewReader(body)), asha)
			w := httptest.NewRecorder()

			handler.SubmitLeave(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

			var response struct {
				Message string          `json:"message"`
				Leave   leave.LeaveView `json:"leave"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Message).To(Equal("Leave submitted"))
			Expect(response.Leave.Status).To(Equal(leave.StatusPending))
			Expect(response.Leave.Days).To(Equal(3))
			Expect(response.Leave.EmployeeID).To(Equal("EMP001"))
		})

		It("should reject an inverted date range", func() {
			body, err := json.Marshal(leave.SubmitLeaveDTO{
				Title:     "Family event",
				StartDate: "2025-07-03",
				EndDate:   "2025-07-01",
			})
			Expect(err).NotTo(HaveOccurred())

			req := asUser(httptest.NewRequest(http.MethodPost, "/leaves", bytes.NewReader(body)), asha)
			w := httptest.NewRecorder()

			handler.SubmitLeave(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a request without an authenticated user", func() {
			req := httptest.NewRequest(http.MethodPost, "/leaves", bytes.NewReader([]byte(`{}`)))
			w := httptest.NewRecorder()

			handler.SubmitLeave(w, req)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("GetMyLeaves", func() {
		It("should return the caller's applications", func() {
			submitLeave(asha)

			req := asUser(httptest.NewRequest(http.MethodGet, "/leaves", nil), asha)
			w := httptest.NewRecorder()

			handler.GetMyLeaves(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response struct {
				Leaves []leave.LeaveView `json:"leaves"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Leaves).To(HaveLen(1))
			Expect(response.Leaves[0].StartDate).To(Equal("2025-07-01"))
			Expect(response.Leaves[0].EndDate).To(Equal("2025-07-03"))
		})
	})

	Describe("ApproveLeave", func() {
		It("should approve a pending application and move it to history", func() {
			leaveID := submitLeave(asha)

			req := asUser(httptest.NewRequest(http.MethodPatch, "/leaves/"+leaveID+"/approve", nil), raj)
			req = withLeaveID(req, leaveID)
			w := httptest.NewRecorder()

			handler.ApproveLeave(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var response struct {
				Leave leave.LeaveView `json:"leave"`
			}
			Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
			Expect(response.Leave.Status).To(Equal(leave.StatusApproved))
			Expect(response.Leave.DecidedAt).NotTo(BeNil())

			// no longer pending
			pendingReq := asUser(httptest.NewRequest(http.MethodGet, "/leaves/pending", nil), raj)
			pendingW := httptest.NewRecorder()
			handler.GetPendingLeaves(pendingW, pendingReq)

			var pending struct {
				Leaves []leave.LeaveView `json:"leaves"`
			}
			Expect(json.NewDecoder(pendingW.Body).Decode(&pending)).To(Succeed())
			Expect(pending.Leaves).To(BeEmpty())
		})

		It("should return 404 for the second decision on the same application", func() {
			leaveID := submitLeave(asha)

			first := httptest.NewRecorder()
			handler.ApproveLeave(first, withLeaveID(asUser(httptest.NewRequest(http.MethodPatch, "/leaves/"+leaveID+"/approve", nil), raj), leaveID))
			Expect(first.Code).To(Equal(http.StatusOK))

			second := httptest.NewRecorder()
			handler.RejectLeave(second, withLeaveID(asUser(httptest.NewRequest(http.MethodPatch, "/leaves/"+leaveID+"/reject", nil), raj), leaveID))
			Expect(second.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 404 for an unknown id", func() {
			req := asUser(httptest.NewRequest(http.MethodPatch, "/leaves/nope/approve", nil), raj)
			req = withLeaveID(req, "nope")
			w := httptest.NewRecorder()

			handler.ApproveLeave(w, req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
