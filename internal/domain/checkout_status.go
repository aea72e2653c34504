package domain

type CheckoutStatus string

const (
	CheckoutStatusIdle        CheckoutStatus = "IDLE"
	CheckoutStatusConfirming  CheckoutStatus = "CONFIRMING"
	CheckoutStatusSubmitting  CheckoutStatus = "SUBMITTING"
	CheckoutStatusReconciling CheckoutStatus = "RECONCILING_INVENTORY"
	CheckoutStatusCompleted   CheckoutStatus = "COMPLETED"
	CheckoutStatusFailed      CheckoutStatus = "FAILED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusCompleted || s == CheckoutStatusFailed
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}

// transitions lists the legal moves of the checkout machine. Cancel paths
// lead back to Idle; Failed keeps the cart intact so the user may reopen
// the confirmation and retry.
var transitions = map[CheckoutStatus][]CheckoutStatus{
	CheckoutStatusIdle:        {CheckoutStatusConfirming},
	CheckoutStatusConfirming:  {CheckoutStatusSubmitting, CheckoutStatusIdle},
	CheckoutStatusSubmitting:  {CheckoutStatusReconciling, CheckoutStatusFailed},
	CheckoutStatusReconciling: {CheckoutStatusCompleted},
	CheckoutStatusCompleted:   {CheckoutStatusIdle},
	CheckoutStatusFailed:      {CheckoutStatusConfirming, CheckoutStatusIdle},
}

func CanTransitionTo(from, to CheckoutStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
