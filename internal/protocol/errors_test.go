package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	for _, code := range []string{
		ErrValidation, ErrInvalidState, ErrUnknownHandle, ErrHandlesLive, ErrInternal, "",
	} {
		if !IsKnownCode(code) {
			t.Fatalf("code %q should be known", code)
		}
	}
	if IsKnownCode("E_OUT_OF_CHEESE") {
		t.Fatalf("unknown code accepted")
	}
}
