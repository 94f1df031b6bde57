package bill

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BillsUI", func() {
	When("an error state is set", func() {
		It("renders an error element containing a 404 message", func() {
			page, err := BillsUI(BillsPageData{Error: "Erreur 404"})
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(ContainSubstring(`data-testid="error-message"`))
			Expect(page).To(ContainSubstring("404"))
		})

		It("renders an error element containing a 500 message", func() {
			page, err := BillsUI(BillsPageData{Error: "Erreur 500"})
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(ContainSubstring(`data-testid="error-message"`))
			Expect(page).To(ContainSubstring("500"))
		})

		It("does not render the bills table", func() {
			page, err := BillsUI(BillsPageData{Error: "Erreur 500", Bills: []Bill{{Name: "hidden"}}})
			Expect(err).NotTo(HaveOccurred())
			Expect(page).NotTo(ContainSubstring("hidden"))
		})
	})

	When("the page is loading", func() {
		It("renders the loading message", func() {
			page, err := BillsUI(BillsPageData{Loading: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(ContainSubstring("Loading..."))
		})
	})

	When("bills are present", func() {
		It("renders one row per bill in the given order", func() {
			page, err := BillsUI(BillsPageData{Bills: []Bill{
				{Type: "Transports", Name: "Vol Paris Londres", Date: "4 Avr. 04", Amount: 348, Status: StatusPending, FileURL: "https://localhost/a.png"},
				{Type: "Services en ligne", Name: "test1", Date: "1 Jan. 01", Amount: 100, Status: StatusRefused},
			}})
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(ContainSubstring("Vol Paris Londres"))
			Expect(page).To(ContainSubstring("4 Avr. 04"))
			Expect(page).To(ContainSubstring("348 €"))
			Expect(page).To(ContainSubstring("En attente"))
			Expect(page).To(ContainSubstring("Refusé"))
			Expect(page).To(MatchRegexp(`(?s)Vol Paris Londres.*test1`))
		})

		It("links each row's eye icon to the receipt file", func() {
			page, err := BillsUI(BillsPageData{Bills: []Bill{
				{Name: "a", FileURL: "https://localhost/a.png"},
			}})
			Expect(err).NotTo(HaveOccurred())
			Expect(page).To(ContainSubstring(`data-testid="icon-eye"`))
			Expect(page).To(ContainSubstring(`data-bill-url="https://localhost/a.png"`))
		})
	})
})
