package billapi

import (
	"time"

	"github.com/fdelavelle/billed/internal/bill"
)

// Record is a bill as stored by the API: the client-visible bill fields plus
// server-side bookkeeping for the receipt binary.
type Record struct {
	bill.Bill
	FilePath    string    `json:"filePath,omitempty"`
	ContentType string    `json:"contentType,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
