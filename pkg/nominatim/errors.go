package nominatim

import (
	"errors"
	"fmt"
)

// Kind classifies a geocoding failure.
type Kind int

const (
	// NotFound - the service answered but returned no candidates.
	NotFound Kind = iota + 1
	// NetworkFailure - timeout, connection error or non-2xx status.
	NetworkFailure
	// ResponseParseFailure - the payload could not be decoded into a coordinate.
	ResponseParseFailure
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "NotFound"
	case NetworkFailure:
		return "NetworkFailure"
	case ResponseParseFailure:
		return "ResponseParseFailure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// GeocodeError is returned by Client.Resolve for every failure.
type GeocodeError struct {
	Kind       Kind
	Address    string
	StatusCode int
	Err        error
}

func (e *GeocodeError) Error() string {
	msg := fmt.Sprintf("geocode %q: %s", e.Address, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GeocodeError) Unwrap() error {
	return e.Err
}

// KindOf extracts the failure kind from err. Errors that are not a
// GeocodeError are reported as NetworkFailure.
func KindOf(err error) Kind {
	var gerr *GeocodeError
	if errors.As(err, &gerr) {
		return gerr.Kind
	}
	return NetworkFailure
}
