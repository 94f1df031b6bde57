package billapi

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fdelavelle/billed/internal/bill"
)

var _ = Describe("BoltDB", func() {
	var (
		db  *BoltDB
		err error
	)

	BeforeEach(func() {
		dbPath := filepath.Join(GinkgoT().TempDir(), "test.db")
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	Describe("SaveBill and GetBill", func() {
		var record *Record

		BeforeEach(func() {
			record = &Record{
				Bill: bill.Bill{
					ID:     "test-id",
					Email:  "employee@test.tld",
					Type:   "Transports",
					Name:   "Vol Paris Londres",
					Amount: 348,
					Date:   "2021-12-25",
					Status: bill.StatusPending,
				},
				FilePath:    "test-id_receipt.png",
				ContentType: "image/png",
				CreatedAt:   time.Date(2021, 12, 25, 10, 0, 0, 0, time.UTC),
				UpdatedAt:   time.Date(2021, 12, 25, 10, 0, 0, 0, time.UTC),
			}
		})

		It("round-trips a record", func() {
			Expect(db.SaveBill(record)).To(Succeed())

			saved, err := db.GetBill("test-id")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved).To(Equal(record))
		})

		It("overwrites an existing record with the same ID", func() {
			Expect(db.SaveBill(record)).To(Succeed())

			record.Name = "Vol Paris Berlin"
			Expect(db.SaveBill(record)).To(Succeed())

			saved, err := db.GetBill("test-id")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved.Name).To(Equal("Vol Paris Berlin"))
		})

		It("returns an error for a missing record", func() {
			_, err := db.GetBill("missing")
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("bill not found"))
		})
	})

	Describe("ListBills", func() {
		When("the database is empty", func() {
			It("returns an empty slice", func() {
				records, err := db.ListBills()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(BeEmpty())
			})
		})

		When("records exist", func() {
			BeforeEach(func() {
				Expect(db.SaveBill(&Record{Bill: bill.Bill{ID: "id1", Name: "a"}})).To(Succeed())
				Expect(db.SaveBill(&Record{Bill: bill.Bill{ID: "id2", Name: "b"}})).To(Succeed())
			})

			It("returns all records", func() {
				records, err := db.ListBills()
				Expect(err).NotTo(HaveOccurred())
				Expect(records).To(HaveLen(2))
			})
		})
	})

	Describe("DeleteBill", func() {
		BeforeEach(func() {
			Expect(db.SaveBill(&Record{Bill: bill.Bill{ID: "test-id"}})).To(Succeed())
		})

		It("removes the record", func() {
			Expect(db.DeleteBill("test-id")).To(Succeed())
			_, err := db.GetBill("test-id")
			Expect(err).To(HaveOccurred())
		})
	})
})
