package domain

import "errors"

var (
	// ErrFetchFailed marks an upstream inventory or forecast read failure.
	ErrFetchFailed = errors.New("failed to calculate order recommendations")

	// ErrStoreRequired is returned when a computation has no store selected.
	ErrStoreRequired = errors.New("store is required")

	// ErrInvalidDateRange is returned when either bound of the range is missing.
	ErrInvalidDateRange = errors.New("date range requires both from and to")

	// ErrSuperseded is returned to a computation whose result was replaced by a newer request.
	ErrSuperseded = errors.New("computation superseded by a newer request")
)

// Validate checks the request has everything a computation needs.
func (r RecommendationRequest) Validate() error {
	if r.StoreID == "" {
		return ErrStoreRequired
	}
	if r.DateRange.From.IsZero() || r.DateRange.To.IsZero() {
		return ErrInvalidDateRange
	}
	return nil
}
