package identity_test

import (
	"context"
	"sync"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pradiptar/leave-management/internal/identity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSequencer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Identity Sequencer Suite")
}

var _ = Describe("Sequencer", func() {
	var (
		db        *gorm.DB
		sequencer *identity.Sequencer
	)

	BeforeEach(func() {
		var err error
		// Use SQLite in-memory database for testing
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		// A second connection would see a different in-memory database.
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)

		err = db.Exec(`CREATE TABLE counters (name TEXT PRIMARY KEY, seq BIGINT NOT NULL)`).Error
		Expect(err).NotTo(HaveOccurred())

		sequencer = identity.NewSequencer(db)
	})

	It("should start a new counter at 1", func() {
		seq, err := sequencer.Next(context.Background(), "employee_number")
		Expect(err).NotTo(HaveOccurred())
		Expect(seq).To(Equal(int64(1)))
	})

	It("should increase strictly on every call", func() {
		var values []int64
		for i := 0; i < 5; i++ {
			seq, err := sequencer.Next(context.Background(), "employee_number")
			Expect(err).NotTo(HaveOccurred())
			values = append(values, seq)
		}
		Expect(values).To(Equal([]int64{1, 2, 3, 4, 5}))
	})

	It("should keep named counters independent", func() {
		for i := 0; i < 3; i++ {
			_, err := sequencer.Next(context.Background(), "employee_number")
			Expect(err).NotTo(HaveOccurred())
		}

		seq, err := sequencer.Next(context.Background(), "manager_number")
		Expect(err).NotTo(HaveOccurred())
		Expect(seq).To(Equal(int64(1)))
	})

	It("should never hand the same value to concurrent callers", func() {
		const callers = 20

		var (
			mu     sync.Mutex
			wg     sync.WaitGroup
			values = make(map[int64]bool)
		)

		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()

				seq, err := sequencer.Next(context.Background(), "employee_number")
				Expect(err).NotTo(HaveOccurred())

				mu.Lock()
				values[seq] = true
				mu.Unlock()
			}()
		}
		wg.Wait()

		Expect(values).To(HaveLen(callers))
		for seq := int64(1); seq <= callers; seq++ {
			Expect(values).To(HaveKey(seq))
		}
	})

	It("should survive counter reuse after many increments", func() {
		var last int64
		for i := 0; i < 250; i++ {
			seq, err := sequencer.Next(context.Background(), "employee_number")
			Expect(err).NotTo(HaveOccurred())
			Expect(seq).To(BeNumerically(">", last))
			last = seq
		}
		Expect(last).To(Equal(int64(250)))
	})
})
