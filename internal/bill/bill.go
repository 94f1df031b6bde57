package bill

// Bill statuses as persisted by the bills API.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRefused  = "refused"
)

// Bill represents an expense record submitted by an employee. FileURL,
// FileName and ID stay empty until the receipt upload has resolved; a bill
// submitted before that resolution is persisted without them.
type Bill struct {
	ID         string `json:"id,omitempty"`
	Email      string `json:"email"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	Amount     int    `json:"amount"`
	Date       string `json:"date"`
	VAT        string `json:"vat"`
	Pct        int    `json:"pct"`
	Commentary string `json:"commentary"`
	FileURL    string `json:"fileUrl"`
	FileName   string `json:"fileName"`
	Status     string `json:"status"`
}

// UploadedFile wraps a file selected in the new-bill form. Only the MIME
// type is inspected; Data is passed through to the store unmodified.
type UploadedFile struct {
	Name     string
	MIMEType string
	Data     []byte
}

// FormValues carries the raw field values of the new-bill form. Numeric
// fields arrive as strings and are parsed on submit.
type FormValues struct {
	Type       string
	Name       string
	Amount     string
	Date       string
	VAT        string
	Pct        string
	Commentary string
}
