package shared

import "fmt"

var (
	// Resolution errors: user input problems, reported per target.
	ErrInvalidIdentifier = fmt.Errorf("invalid playlist identifier")
	ErrNotFound          = fmt.Errorf("no matching playlist")
	ErrAmbiguousMatch    = fmt.Errorf("ambiguous playlist name")

	// Upstream errors. ErrUnauthorized and ErrRateLimited wrap ErrUpstream
	// so errors.Is(err, ErrUpstream) holds for both subtypes.
	ErrUpstream     = fmt.Errorf("upstream request failed")
	ErrUnauthorized = fmt.Errorf("%w: unauthorized", ErrUpstream)
	ErrRateLimited  = fmt.Errorf("%w: rate limit retries exhausted", ErrUpstream)

	// Non-fatal: base track data retrieved but supplementary detail missing.
	ErrPartialData = fmt.Errorf("partial data")

	// Fatal to the whole run, surfaced before any export begins.
	ErrInvalidSortKey = fmt.Errorf("invalid sort key")
	ErrConfigMissing  = fmt.Errorf("configuration missing or invalid")
	ErrAuthMissing    = fmt.Errorf("no stored credentials")

	// Fatal to one target+format pair only.
	ErrEncoding = fmt.Errorf("value not representable in output format")
)
