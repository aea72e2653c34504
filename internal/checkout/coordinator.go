package checkout

import (
	"context"
	"sync"

	"github.com/fjod/go_lessons/internal/cart"
	"github.com/fjod/go_lessons/internal/catalog"
	"github.com/fjod/go_lessons/internal/domain"
	"github.com/google/uuid"
)

// OrderAPI is the slice of the remote service the coordinator needs.
type OrderAPI interface {
	CreateOrder(ctx context.Context, order domain.CheckoutRequest) error
	UpdateLessonSpace(ctx context.Context, lessonID string, space int) error
}

// Outcome distinguishes how a checkout attempt ended. PlacedUnsynced
// means the order was accepted remotely but one or more availability
// updates failed; local state clears anyway and the catalog converges on
// the next reload.
type Outcome string

const (
	OutcomeNone           Outcome = ""
	OutcomePlaced         Outcome = "PLACED"
	OutcomePlacedUnsynced Outcome = "PLACED_UNSYNCED"
	OutcomeFailed         Outcome = "FAILED"
)

const (
	successMessage  = "Order placed successfully"
	failureMessage  = "Sorry, something went wrong. Please try again."
	unsyncedMessage = "Order placed, but lesson availability could not be fully updated"
)

// Coordinator owns the checkout state machine:
//
//	Idle -> Confirming -> Submitting -> ReconcilingInventory -> Completed -> Idle
//	                            \-> Failed
//
// Every move is checked against the transition table in domain.
// Completed is acknowledged back to Idle once the outcome has been
// recorded, so the next purchase can begin without a cancel step.
type Coordinator struct {
	api     OrderAPI // nil when running offline on seed data
	cart    *cart.Manager
	catalog *catalog.Catalog

	mu        sync.Mutex
	status    domain.CheckoutStatus
	sessionID string
	message   string
	outcome   Outcome
}

func NewCoordinator(api OrderAPI, cartManager *cart.Manager, cat *catalog.Catalog) *Coordinator {
	return &Coordinator{
		api:     api,
		cart:    cartManager,
		catalog: cat,
		status:  domain.CheckoutStatusIdle,
	}
}

// Open moves to Confirming without contacting the remote service. It
// refuses unless the cart and form hold up.
func (c *Coordinator) Open(form domain.OrderForm) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.CanTransitionTo(c.status, domain.CheckoutStatusConfirming) {
		return ErrIllegalTransition
	}
	if !c.cart.CanCheckout(form) {
		return ErrNotReady
	}
	c.status = domain.CheckoutStatusConfirming
	c.sessionID = uuid.New().String()
	c.message = ""
	c.outcome = OutcomeNone
	return nil
}

// Cancel returns to Idle with no side effects. Calling it from Idle or
// mid-submission is a no-op.
func (c *Coordinator) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if domain.CanTransitionTo(c.status, domain.CheckoutStatusIdle) {
		c.status = domain.CheckoutStatusIdle
	}
}

// Confirm runs the submission: re-validate, create the order, then
// reconcile remote slot counts. A failed re-validation aborts silently
// and stays in Confirming; the cart and form are untouched so the user
// can fix the form and confirm again.
func (c *Coordinator) Confirm(ctx context.Context, form domain.OrderForm) (Outcome, error) {
	c.mu.Lock()
	if !domain.CanTransitionTo(c.status, domain.CheckoutStatusSubmitting) {
		c.mu.Unlock()
		return OutcomeNone, ErrIllegalTransition
	}
	if !c.cart.CanCheckout(form) {
		c.mu.Unlock()
		return OutcomeNone, nil
	}
	c.status = domain.CheckoutStatusSubmitting
	sessionID := c.sessionID
	c.mu.Unlock()

	// Freeze the entries being bought. An Add that lands while the
	// remote calls run keeps its entry and its reservation; it belongs
	// to the next order.
	booked := c.cart.Entries()
	request := buildRequest(form, booked)

	if err := c.submitOrder(ctx, sessionID, request); err != nil {
		// Cart and form stay intact; the user may retry without
		// re-entering anything.
		c.fail(failureMessage)
		return OutcomeFailed, err
	}

	if err := c.advance(domain.CheckoutStatusReconciling); err != nil {
		return OutcomeNone, err
	}
	syncErr := c.reconcileInventory(ctx, sessionID, booked)

	outcome, message := OutcomePlaced, successMessage
	if syncErr != nil {
		outcome, message = OutcomePlacedUnsynced, unsyncedMessage
	}

	c.mu.Lock()
	if !domain.CanTransitionTo(c.status, domain.CheckoutStatusCompleted) {
		c.mu.Unlock()
		return OutcomeNone, ErrIllegalTransition
	}
	c.status = domain.CheckoutStatusCompleted
	c.outcome = outcome
	c.message = message
	c.mu.Unlock()

	// The frozen entries' slots are booked now; dropping them must not
	// restore the slots, and later entries stay in the cart.
	c.cart.RemoveBooked(booked)
	return outcome, nil
}

// Acknowledge returns a completed checkout to Idle so the next purchase
// can begin. The outcome and message stay readable until a new checkout
// opens. A no-op in any other status.
func (c *Coordinator) Acknowledge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != domain.CheckoutStatusCompleted {
		return
	}
	if domain.CanTransitionTo(c.status, domain.CheckoutStatusIdle) {
		c.status = domain.CheckoutStatusIdle
	}
}

func (c *Coordinator) Status() domain.CheckoutStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Coordinator) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

func (c *Coordinator) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

func (c *Coordinator) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// advance moves the machine along the submission path, keeping the
// transition table in domain the single source of truth.
func (c *Coordinator) advance(to domain.CheckoutStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !domain.CanTransitionTo(c.status, to) {
		return ErrIllegalTransition
	}
	c.status = to
	return nil
}

func (c *Coordinator) fail(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if domain.CanTransitionTo(c.status, domain.CheckoutStatusFailed) {
		c.status = domain.CheckoutStatusFailed
	}
	c.outcome = OutcomeFailed
	c.message = message
}
