package billapi

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fdelavelle/billed/internal/bill"
)

// IDGenerator generates unique IDs for bill records
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles bill operations for the API
type Service struct {
	db          DB
	storage     Storage
	baseURL     string
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source.
// baseURL is the public base under which receipt file URLs are built; it may
// be empty, yielding relative URLs.
func NewService(db DB, storage Storage, baseURL string) *Service {
	return &Service{
		db:          db,
		storage:     storage,
		baseURL:     strings.TrimRight(baseURL, "/"),
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, storage Storage, baseURL string, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		storage:     storage,
		baseURL:     strings.TrimRight(baseURL, "/"),
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	filenameSpecials = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpaces   = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and
// truncating length
func sanitizeFilename(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	base = filenameSpecials.ReplaceAllString(base, "")
	base = filenameSpaces.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// fileURL builds the URL under which a record's receipt file is served
func (s *Service) fileURL(id string) string {
	return fmt.Sprintf("%s/api/bills/%s/file", s.baseURL, id)
}

// CreateBill stores a receipt file and persists a stub record for it. The
// rest of the bill fields arrive later through UpdateBill; until then the
// record holds only owner, file metadata and the pending status.
func (s *Service) CreateBill(ctx context.Context, email, filename string, data []byte, contentType string) (*Record, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	cleanFilename := sanitizeFilename(filename)

	savedPath, err := s.storage.Save(ctx, fmt.Sprintf("%s_%s", id, cleanFilename), data)
	if err != nil {
		return nil, fmt.Errorf("saving receipt file: %w", err)
	}

	record := &Record{
		Bill: bill.Bill{
			ID:       id,
			Email:    email,
			FileURL:  s.fileURL(id),
			FileName: filename,
			Status:   bill.StatusPending,
		},
		FilePath:    savedPath,
		ContentType: contentType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.SaveBill(record); err != nil {
		// The record never existed, so the orphaned file goes too.
		s.storage.Delete(ctx, savedPath)
		return nil, fmt.Errorf("saving bill to database: %w", err)
	}

	return record, nil
}

// UpdateBill overlays a JSON-serialized bill onto the stored record. Fields
// present in the payload replace the stored values, including empty ones; a
// client that submitted before its upload resolved legitimately clears
// fileUrl/fileName this way.
func (s *Service) UpdateBill(ctx context.Context, id string, data []byte) (*Record, error) {
	record, err := s.db.GetBill(id)
	if err != nil {
		return nil, fmt.Errorf("getting bill for update: %w", err)
	}

	if err := json.Unmarshal(data, &record.Bill); err != nil {
		return nil, fmt.Errorf("decoding bill payload: %w", err)
	}
	record.Bill.ID = id
	record.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveBill(record); err != nil {
		return nil, fmt.Errorf("saving bill to database: %w", err)
	}

	return record, nil
}

// GetBill retrieves a bill record by ID
func (s *Service) GetBill(ctx context.Context, id string) (*Record, error) {
	record, err := s.db.GetBill(id)
	if err != nil {
		return nil, fmt.Errorf("getting bill: %w", err)
	}
	return record, nil
}

// ListBills returns all bill records
func (s *Service) ListBills(ctx context.Context) ([]*Record, error) {
	records, err := s.db.ListBills()
	if err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	return records, nil
}

// GetBillFile retrieves the receipt file data for a bill
func (s *Service) GetBillFile(ctx context.Context, id string) ([]byte, string, error) {
	record, err := s.db.GetBill(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting bill: %w", err)
	}

	data, err := s.storage.Get(ctx, record.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, record.ContentType, nil
}
