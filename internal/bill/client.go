package bill

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// HTTPStore implements Store against the bills HTTP API. Errors for non-2xx
// responses carry the status code in the user-visible "Erreur NNN" form the
// views render verbatim.
type HTTPStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPStore builds a store client for the API at baseURL. httpClient may
// be nil, in which case http.DefaultClient is used.
func NewHTTPStore(baseURL string, httpClient *http.Client) *HTTPStore {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPStore{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// SetToken attaches a bearer token to subsequent requests.
func (s *HTTPStore) SetToken(token string) {
	s.token = token
}

// Bills returns the bills collection handle.
func (s *HTTPStore) Bills() BillsClient {
	return &httpBills{store: s}
}

type httpBills struct {
	store *HTTPStore
}

func (c *httpBills) do(req *http.Request) (*http.Response, error) {
	if c.store.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.store.token)
	}
	resp, err := c.store.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("Erreur %d", resp.StatusCode)
	}
	return resp, nil
}

// Create uploads a receipt and its owner's email as a multipart payload.
// When NoContentType is set the content-type header comes from the multipart
// writer rather than being forced by the caller.
func (c *httpBills) Create(ctx context.Context, req CreateBillRequest) (CreateBillResult, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", req.File.Name)
	if err != nil {
		return CreateBillResult{}, fmt.Errorf("building multipart payload: %w", err)
	}
	if _, err := part.Write(req.File.Data); err != nil {
		return CreateBillResult{}, fmt.Errorf("building multipart payload: %w", err)
	}
	if err := writer.WriteField("email", req.Email); err != nil {
		return CreateBillResult{}, fmt.Errorf("building multipart payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return CreateBillResult{}, fmt.Errorf("building multipart payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.store.baseURL+"/api/bills", body)
	if err != nil {
		return CreateBillResult{}, err
	}
	if req.NoContentType {
		httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	} else {
		httpReq.Header.Set("Content-Type", "application/octet-stream")
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return CreateBillResult{}, err
	}
	defer resp.Body.Close()

	var result CreateBillResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return CreateBillResult{}, fmt.Errorf("decoding create response: %w", err)
	}
	return result, nil
}

// Update sends a serialized bill to the record named by the selector.
func (c *httpBills) Update(ctx context.Context, req UpdateBillRequest) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		c.store.baseURL+"/api/bills/"+req.Selector, bytes.NewReader(req.Data))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.do(httpReq)
	if err != nil {
		return err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return nil
}

// List fetches every bill record.
func (c *httpBills) List(ctx context.Context) ([]Bill, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.store.baseURL+"/api/bills", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var bills []Bill
	if err := json.NewDecoder(resp.Body).Decode(&bills); err != nil {
		return nil, fmt.Errorf("decoding list response: %w", err)
	}
	return bills, nil
}
