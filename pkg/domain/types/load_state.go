package types

// LoadState represents the state of a single chart run
type LoadState string

const (
	LoadStateLoading LoadState = "loading"
	LoadStateSuccess LoadState = "success"
	LoadStateFailed  LoadState = "failed"
)

// String returns the string representation of the state
func (s LoadState) String() string {
	return string(s)
}

// IsValid checks if the state is valid
func (s LoadState) IsValid() bool {
	switch s {
	case LoadStateLoading, LoadStateSuccess, LoadStateFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible
func (s LoadState) IsTerminal() bool {
	return s == LoadStateSuccess || s == LoadStateFailed
}
