package bill

import "context"

// Store is the remote-persistence capability injected into the front-end
// components. It is externally owned; nothing here creates or tears it down.
type Store interface {
	Bills() BillsClient
}

// CreateBillRequest carries a receipt upload: the raw file plus the owner's
// email, sent as a multipart payload. NoContentType asks the transport to
// compute the content-type header itself instead of having it forced by the
// caller.
type CreateBillRequest struct {
	File          UploadedFile
	Email         string
	NoContentType bool
}

// CreateBillResult is the store's answer to a receipt upload.
type CreateBillResult struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}

// UpdateBillRequest carries a JSON-serialized bill and the id of the record
// to update.
type UpdateBillRequest struct {
	Data     []byte
	Selector string
}

// BillsClient is the bills collection handle exposed by a Store.
type BillsClient interface {
	Create(ctx context.Context, req CreateBillRequest) (CreateBillResult, error)
	Update(ctx context.Context, req UpdateBillRequest) error
	List(ctx context.Context) ([]Bill, error)
}
