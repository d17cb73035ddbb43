package market

import (
	"errors"
)

var (
	// ErrMissingField is returned when a pricing response lacks price or change data.
	ErrMissingField = errors.New("missing field")
	// ErrUnavailable is the reason reported by a zero Result.
	ErrUnavailable = errors.New("quote unavailable")
)

// Quote is a last price with its 24h percent change.
type Quote struct {
	Price         float64
	PercentChange float64
}

// Result is either an available Quote or an unavailable marker carrying the
// reason. Unavailability is a normal outcome, not a failure of the caller.
// The zero Result is unavailable.
type Result struct {
	quote Quote
	ok    bool
	err   error
}

// Available wraps a fetched quote.
func Available(q Quote) Result {
	return Result{quote: q, ok: true}
}

// Unavailable marks a quote that could not be obtained.
func Unavailable(reason error) Result {
	return Result{err: reason}
}

// Get returns the quote and whether it is available.
func (r Result) Get() (Quote, bool) {
	return r.quote, r.ok
}

// Err returns the reason the quote is unavailable, or nil.
func (r Result) Err() error {
	if r.ok {
		return nil
	}
	if r.err == nil {
		return ErrUnavailable
	}
	return r.err
}
