package checkout

import "errors"

var (
	ErrNotReady          = errors.New("cart or form not ready for checkout")
	ErrIllegalTransition = errors.New("illegal transition of checkout status")
	ErrNoRemoteService   = errors.New("no remote lesson service configured")
)
