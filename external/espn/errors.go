package espn

import crerr "github.com/cockroachdb/errors"

// Failure classes for upstream fetches. Callers branch on these with
// errors.Is; the wrapped detail explains the specific call that failed.
var (
	// ErrNetwork covers transport failures, timeouts, and non-2xx statuses.
	ErrNetwork = crerr.New("espn network failure")
	// ErrDecode covers response bodies that are not valid JSON.
	ErrDecode = crerr.New("espn decode failure")
	// ErrSchema covers valid JSON that lacks the fields a parser expects,
	// including payloads that yield zero teams or athletes.
	ErrSchema = crerr.New("espn schema failure")
)
