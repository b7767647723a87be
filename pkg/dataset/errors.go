package dataset

import "errors"

// Kind classifies a dataset error.
type Kind int

const (
	// KindConfiguration marks invalid configuration found at construction.
	KindConfiguration Kind = iota + 1
	// KindUnsupported marks an operation the dataset type does not offer.
	KindUnsupported
	// KindConnectivity marks an unresolvable dialect or missing driver.
	KindConnectivity
	// KindIO marks any other failure while loading, saving or checking.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindUnsupported:
		return "unsupported"
	case KindConnectivity:
		return "connectivity"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is, one per Kind.
var (
	ErrConfiguration = errors.New("dataset configuration error")
	ErrUnsupported   = errors.New("unsupported dataset operation")
	ErrConnectivity  = errors.New("dataset connectivity error")
	ErrIO            = errors.New("dataset i/o error")
)

// Error is the single error type returned by datasets.
type Error struct {
	Kind    Kind
	Message string
	// Err is the underlying failure, if any.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's Kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindConfiguration:
		return target == ErrConfiguration
	case KindUnsupported:
		return target == ErrUnsupported
	case KindConnectivity:
		return target == ErrConnectivity
	case KindIO:
		return target == ErrIO
	}
	return false
}

func configError(msg string) *Error {
	return wrapConfigError(msg, nil)
}

// wrapConfigError is configError carrying the underlying failure.
func wrapConfigError(msg string, err error) *Error {
	return &Error{Kind: KindConfiguration, Message: msg, Err: err}
}
