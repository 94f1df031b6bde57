package bill

import (
	"context"
	"log/slog"
	"sort"
)

// Listing reads the bill collection from the store and normalizes it for
// display.
type Listing struct {
	store  Store // nil means no store configured; GetBills yields nothing
	logger *slog.Logger
}

// NewListing wires a listing over the given store handle.
func NewListing(store Store, logger *slog.Logger) *Listing {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listing{store: store, logger: logger}
}

// GetBills fetches all bills and formats each record's date for display.
// A record whose date cannot be parsed is logged together with the offending
// record and passed through with its original date untouched; one corrupt
// record never aborts the listing.
func (l *Listing) GetBills(ctx context.Context) ([]Bill, error) {
	if l.store == nil {
		return []Bill{}, nil
	}

	bills, err := l.store.Bills().List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Bill, 0, len(bills))
	for _, b := range bills {
		formatted, err := FormatDate(b.Date)
		if err != nil {
			l.logger.Error(err.Error(), "for", b)
			out = append(out, b)
			continue
		}
		b.Date = formatted
		out = append(out, b)
	}
	return out, nil
}

// SortBillsByDateDesc orders bills latest-first by plain string comparison
// of the date field. The comparison is only meaningful while all dates share
// one format, so the view applies it before formatting.
func SortBillsByDateDesc(bills []Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		return bills[i].Date > bills[j].Date
	})
}
