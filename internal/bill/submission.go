package bill

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
)

// Exact wording shown to the user when a receipt has a disallowed extension.
// This string is part of the external contract; do not reword it.
const rejectedFileAlert = "Veuillez choisir un fichier ayant une extension jpg, jpeg ou png."

// Alerter surfaces a blocking, user-facing message.
type Alerter interface {
	Alert(message string)
}

// FileInput is the handle to the form's file input. Reset clears the
// selected file so a rejected one is not resubmitted.
type FileInput interface {
	Reset()
}

// Navigator performs an external page transition to the given route.
type Navigator func(route string)

// Submission owns the lifecycle of a single in-progress bill: it receives
// file-selection and form-submit events, enforces the file-type policy,
// talks to the store and hands off to the navigation callback on submit.
type Submission struct {
	store      Store // nil means disconnected; uploads and persists become no-ops
	session    SessionStore
	onNavigate Navigator
	alerter    Alerter
	fileInput  FileInput
	logger     *slog.Logger

	mu       sync.Mutex
	fileURL  string
	fileName string
	billID   string
}

// NewSubmission wires a submission workflow. All collaborators are injected;
// store may be nil for disconnected operation.
func NewSubmission(store Store, session SessionStore, onNavigate Navigator, alerter Alerter, fileInput FileInput, logger *slog.Logger) *Submission {
	if logger == nil {
		logger = slog.Default()
	}
	return &Submission{
		store:      store,
		session:    session,
		onNavigate: onNavigate,
		alerter:    alerter,
		fileInput:  fileInput,
		logger:     logger,
	}
}

// FileURL returns the uploaded receipt's URL, empty until the upload resolves.
func (s *Submission) FileURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileURL
}

// FileName returns the uploaded receipt's original name, empty until the
// upload resolves.
func (s *Submission) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fileName
}

// BillID returns the key assigned by the store on upload, empty until the
// upload resolves.
func (s *Submission) BillID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.billID
}

func acceptedMIMEType(mimeType string) bool {
	switch mimeType {
	case "image/jpeg", "image/jpg", "image/png":
		return true
	}
	return false
}

// OnFileSelected handles a file-input change. Files outside the jpg/jpeg/png
// allow-list trigger the rejection alert, clear the input and go no further.
// Accepted files are uploaded asynchronously; the upload result is recorded
// when it resolves and a failed upload is logged without touching state.
//
// A missing or malformed session user is returned as an error rather than
// handled: the original workflow left this case unguarded.
func (s *Submission) OnFileSelected(ctx context.Context, file UploadedFile) error {
	if !acceptedMIMEType(file.MIMEType) {
		s.alerter.Alert(rejectedFileAlert)
		s.fileInput.Reset()
		return nil
	}

	user, err := CurrentUser(s.session)
	if err != nil {
		return err
	}

	if s.store == nil {
		return nil
	}

	go func() {
		result, err := s.store.Bills().Create(ctx, CreateBillRequest{
			File:          file,
			Email:         user.Email,
			NoContentType: true,
		})
		if err != nil {
			s.logger.Error("creating bill from receipt upload", "error", err)
			return
		}
		s.mu.Lock()
		s.billID = result.Key
		s.fileURL = result.FileURL
		s.fileName = file.Name
		s.mu.Unlock()
	}()
	return nil
}

// OnSubmit handles the form submission: it assembles the bill from the form
// values and whatever upload state exists at this instant, kicks off
// persistence and navigates to the bills route without waiting for the
// persist to settle. Submitting before the upload resolved persists the bill
// without fileUrl/fileName; that race is part of the contract.
func (s *Submission) OnSubmit(ctx context.Context, values FormValues) error {
	user, err := CurrentUser(s.session)
	if err != nil {
		return err
	}

	// Parse failures leave amount at zero; the original persisted NaN here
	// with no validation error, so no error is raised.
	amount, _ := strconv.Atoi(values.Amount)

	pct, err := strconv.Atoi(values.Pct)
	if err != nil || pct == 0 {
		pct = 20
	}

	s.mu.Lock()
	b := Bill{
		Email:      user.Email,
		Type:       values.Type,
		Name:       values.Name,
		Amount:     amount,
		Date:       values.Date,
		VAT:        values.VAT,
		Pct:        pct,
		Commentary: values.Commentary,
		FileURL:    s.fileURL,
		FileName:   s.fileName,
		Status:     StatusPending,
	}
	s.mu.Unlock()

	go s.persist(ctx, b)
	s.onNavigate(RouteBills)
	return nil
}

// persist sends the bill to the store, keyed by the current billId. Both
// this call site's caller and the success path navigate to the bills route;
// the duplicate navigation mirrors the original workflow.
func (s *Submission) persist(ctx context.Context, b Bill) {
	if s.store == nil {
		return
	}

	data, err := json.Marshal(b)
	if err != nil {
		s.logger.Error("encoding bill", "error", err)
		return
	}

	if err := s.store.Bills().Update(ctx, UpdateBillRequest{Data: data, Selector: s.BillID()}); err != nil {
		s.logger.Error("updating bill", "error", err)
		return
	}
	s.onNavigate(RouteBills)
}
