package protocol

// Stable error codes reported across the boundary to host bindings.
const (
	// Bad configuration at create time; no handle is produced.
	ErrValidation = "E_VALIDATION"

	// Operation illegal for the instance's current lifecycle state.
	ErrInvalidState = "E_INVALID_STATE"

	// Handle layer.
	ErrUnknownHandle = "E_UNKNOWN_HANDLE"
	ErrHandlesLive   = "E_HANDLES_LIVE"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrValidation:    {},
	ErrInvalidState:  {},
	ErrUnknownHandle: {},
	ErrHandlesLive:   {},
	ErrInternal:      {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
