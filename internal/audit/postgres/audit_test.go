package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/danuarta/hr-portal/internal/audit"
	auditDatamodel "github.com/danuarta/hr-portal/internal/core/datamodel/audit"
)

func TestAuditRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuditRepository Suite")
}

var _ = Describe("AuditRepository", func() {
	var (
		db   *gorm.DB
		repo audit.Repository
		ctx  context.Context
	)

	insert := func(record *auditDatamodel.Auditlog) {
		Expect(repo.Insert(ctx, record)).To(Succeed())
	}

	strPtr := func(s string) *string { return &s }

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&auditDatamodel.Auditlog{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewAuditRepository(db)
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Insert", func() {
		It("persists a record with its metadata mappings", func() {
			userID := "11111111-1111-1111-1111-111111111111"
			insert(&auditDatamodel.Auditlog{
				UserID:     &userID,
				Action:     "post",
				IPAddress:  "10.0.0.1",
				HTTPMethod: "POST",
				URL:        "http://localhost/api/v1/users",
				Meta:       auditDatamodel.JSONMap{"k": "v"},
				Context:    auditDatamodel.JSONMap{"email": "a@b.test"},
				OccurredAt: time.Now(),
			})

			records, total, err := repo.List(ctx, audit.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(records[0].Meta).To(HaveKeyWithValue("k", "v"))
			Expect(records[0].Context).To(HaveKeyWithValue("email", "a@b.test"))
		})
	})

	Describe("List", func() {
		It("orders by occurrence time descending", func() {
			base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
			for i := 0; i < 3; i++ {
				insert(&auditDatamodel.Auditlog{
					Action:     "post",
					URL:        fmt.Sprintf("http://localhost/r/%d", i),
					OccurredAt: base.Add(time.Duration(i) * time.Hour),
				})
			}

			records, _, err := repo.List(ctx, audit.ListFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(3))
			Expect(records[0].URL).To(HaveSuffix("/r/2"))
			Expect(records[2].URL).To(HaveSuffix("/r/0"))
		})

		It("filters by exact action and acting principal", func() {
			alice := "11111111-1111-1111-1111-111111111111"
			bob := "22222222-2222-2222-2222-222222222222"
			insert(&auditDatamodel.Auditlog{UserID: &alice, Action: "login", OccurredAt: time.Now()})
			insert(&auditDatamodel.Auditlog{UserID: &alice, Action: "post", OccurredAt: time.Now()})
			insert(&auditDatamodel.Auditlog{UserID: &bob, Action: "login", OccurredAt: time.Now()})

			records, total, err := repo.List(ctx, audit.ListFilter{Action: "login", UserID: alice})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
			Expect(*records[0].UserID).To(Equal(alice))
		})

		It("matches the search term against message, url, route name and ip with OR", func() {
			insert(&auditDatamodel.Auditlog{Action: "post", Message: strPtr("Role Deleted"), OccurredAt: time.Now()})
			insert(&auditDatamodel.Auditlog{Action: "post", URL: "http://localhost/api/v1/roles", OccurredAt: time.Now()})
			insert(&auditDatamodel.Auditlog{Action: "post", RouteName: strPtr("roles.destroy"), OccurredAt: time.Now()})
			insert(&auditDatamodel.Auditlog{Action: "post", IPAddress: "10.1.2.3", OccurredAt: time.Now()})
			insert(&auditDatamodel.Auditlog{Action: "post", URL: "http://localhost/api/v1/events", OccurredAt: time.Now()})

			_, total, err := repo.List(ctx, audit.ListFilter{Search: "ROLE"})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(3)))

			_, total, err = repo.List(ctx, audit.ListFilter{Search: "10.1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(1)))
		})

		It("pages fifty records at a time", func() {
			base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < 55; i++ {
				insert(&auditDatamodel.Auditlog{
					Action:     "post",
					OccurredAt: base.Add(time.Duration(i) * time.Minute),
				})
			}

			filter := audit.ListFilter{Page: 1}
			filter.Normalize()
			records, total, err := repo.List(ctx, filter)
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(55)))
			Expect(records).To(HaveLen(audit.PageSize))

			filter = audit.ListFilter{Page: 2}
			filter.Normalize()
			records, _, err = repo.List(ctx, filter)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(5))
		})
	})
})
