package fetch

import "log"

// Result wraps fetched data together with its provenance: either the real
// payload from the remote source, or a fallback payload substituted after a
// failure. The orchestrator never sees a raw error from a fetcher.
type Result[T any] struct {
	Data     T      `json:"data"`
	Fallback bool   `json:"fallback"`
	Reason   string `json:"reason,omitempty"`
}

// Success wraps data fetched from the real source.
func Success[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

// Fallback wraps substitute data with the reason the real fetch failed.
func Fallback[T any](data T, reason string) Result[T] {
	return Result[T]{Data: data, Fallback: true, Reason: reason}
}

// Guard runs fn and absorbs any failure into a fallback result carrying the
// given mock payload. This is the only place a fetcher error is allowed to
// stop: network failures, auth failures, and malformed payloads all degrade
// to mock data with a logged reason.
func Guard[T any](source string, mock T, fn func() (T, error)) Result[T] {
	data, err := fn()
	if err != nil {
		log.Printf("WARN: %s unavailable, using fallback data: %v", source, err)
		return Fallback(mock, err.Error())
	}
	return Success(data)
}
