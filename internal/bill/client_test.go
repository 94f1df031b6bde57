package bill

import (
	"context"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("HTTPStore", func() {
	var (
		server *ghttp.Server
		store  *HTTPStore
	)

	BeforeEach(func() {
		server = ghttp.NewServer()
		store = NewHTTPStore(server.URL(), nil)
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Create", func() {
		When("the upload succeeds", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest("POST", "/api/bills"),
					func(w http.ResponseWriter, r *http.Request) {
						Expect(r.Header.Get("Content-Type")).To(ContainSubstring("multipart/form-data"))
						Expect(r.ParseMultipartForm(1 << 20)).To(Succeed())
						Expect(r.FormValue("email")).To(Equal("employee@test.tld"))
						f, header, err := r.FormFile("file")
						Expect(err).NotTo(HaveOccurred())
						defer f.Close()
						Expect(header.Filename).To(Equal("test.png"))
						data, err := io.ReadAll(f)
						Expect(err).NotTo(HaveOccurred())
						Expect(string(data)).To(Equal("fake image data"))
					},
					ghttp.RespondWithJSONEncoded(http.StatusCreated, CreateBillResult{
						FileURL: "https://localhost/test.png",
						Key:     "12345",
					}),
				))
			})

			It("uploads the file and the email as multipart and decodes the result", func() {
				result, err := store.Bills().Create(context.Background(), CreateBillRequest{
					File: UploadedFile{
						Name:     "test.png",
						MIMEType: "image/png",
						Data:     []byte("fake image data"),
					},
					Email:         "employee@test.tld",
					NoContentType: true,
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(result.FileURL).To(Equal("https://localhost/test.png"))
				Expect(result.Key).To(Equal("12345"))
			})
		})

		When("the server rejects the upload", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusInternalServerError, "boom"))
			})

			It("returns the status code as an Erreur message", func() {
				_, err := store.Bills().Create(context.Background(), CreateBillRequest{
					File:  UploadedFile{Name: "test.png", MIMEType: "image/png"},
					Email: "employee@test.tld",
				})
				Expect(err).To(MatchError("Erreur 500"))
			})
		})
	})

	Describe("Update", func() {
		When("the update succeeds", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest("PATCH", "/api/bills/12345"),
					ghttp.VerifyContentType("application/json"),
					ghttp.VerifyBody([]byte(`{"status":"pending"}`)),
					ghttp.RespondWith(http.StatusOK, "{}"),
				))
			})

			It("sends the serialized bill to the selector's record", func() {
				err := store.Bills().Update(context.Background(), UpdateBillRequest{
					Data:     []byte(`{"status":"pending"}`),
					Selector: "12345",
				})
				Expect(err).NotTo(HaveOccurred())
			})
		})

		When("the record does not exist", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusNotFound, "not found"))
			})

			It("returns the status code as an Erreur message", func() {
				err := store.Bills().Update(context.Background(), UpdateBillRequest{
					Data:     []byte(`{}`),
					Selector: "missing",
				})
				Expect(err).To(MatchError("Erreur 404"))
			})
		})
	})

	Describe("List", func() {
		When("the fetch succeeds", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.CombineHandlers(
					ghttp.VerifyRequest("GET", "/api/bills"),
					ghttp.RespondWithJSONEncoded(http.StatusOK, []Bill{
						{ID: "a", Name: "encore", Date: "2004-04-04"},
						{ID: "b", Name: "test1", Date: "2001-01-01"},
					}),
				))
			})

			It("decodes every record", func() {
				bills, err := store.Bills().List(context.Background())
				Expect(err).NotTo(HaveOccurred())
				Expect(bills).To(HaveLen(2))
				Expect(bills[0].Name).To(Equal("encore"))
			})
		})

		When("the server fails", func() {
			BeforeEach(func() {
				server.AppendHandlers(ghttp.RespondWith(http.StatusNotFound, ""))
			})

			It("returns the status code as an Erreur message", func() {
				_, err := store.Bills().List(context.Background())
				Expect(err).To(MatchError("Erreur 404"))
			})
		})
	})

	When("a bearer token is set", func() {
		BeforeEach(func() {
			store.SetToken("test-token")
			server.AppendHandlers(ghttp.CombineHandlers(
				ghttp.VerifyRequest("GET", "/api/bills"),
				ghttp.VerifyHeaderKV("Authorization", "Bearer test-token"),
				ghttp.RespondWithJSONEncoded(http.StatusOK, []Bill{}),
			))
		})

		It("attaches it to requests", func() {
			_, err := store.Bills().List(context.Background())
			Expect(err).NotTo(HaveOccurred())
		})
	})
})
