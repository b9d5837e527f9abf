package game

import "errors"

// Command rejection categories. Handlers wrap these with fmt.Errorf("%w: ...")
// so the transport can map any returned error to a wire code with errors.Is.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")
	ErrNotFound      = errors.New("not found")
	ErrClaimRejected = errors.New("claim rejected")
)

// ErrExhausted is returned by NumberCaller.Next once all 75 numbers are drawn.
var ErrExhausted = errors.New("number pool exhausted")

// RejectCode returns the wire code for a command rejection.
func RejectCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrClaimRejected):
		return "claim_rejected"
	default:
		return "error"
	}
}
