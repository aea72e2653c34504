package session

import (
	"context"
	"sync"

	"github.com/fjod/go_lessons/internal/cart"
	"github.com/fjod/go_lessons/internal/catalog"
	"github.com/fjod/go_lessons/internal/checkout"
	"github.com/fjod/go_lessons/internal/domain"
	"github.com/fjod/go_lessons/internal/pipeline"
	"github.com/fjod/go_lessons/internal/search"
)

// View is the section of the widget currently displayed.
type View string

const (
	ViewHome    View = "home"
	ViewLessons View = "lessons"
	ViewCart    View = "cart"
)

// Session is the per-session store: one instance owns the catalog,
// searcher, cart and checkout coordinator plus the transient UI state
// (view, form, sort order). All mutation goes through its methods, so
// the engine is testable without any rendering layer.
type Session struct {
	catalog  *catalog.Catalog
	searcher *search.Searcher
	cart     *cart.Manager
	checkout *checkout.Coordinator

	mu      sync.Mutex
	view    View
	form    domain.OrderForm
	sortKey pipeline.SortKey
	sortDir pipeline.Direction
}

func New(cat *catalog.Catalog, searcher *search.Searcher, cartManager *cart.Manager, coordinator *checkout.Coordinator) *Session {
	return &Session{
		catalog:  cat,
		searcher: searcher,
		cart:     cartManager,
		checkout: coordinator,
		view:     ViewHome,
		sortKey:  pipeline.SortTopic,
		sortDir:  pipeline.Asc,
	}
}

func (s *Session) Go(v View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *Session) Loading() bool {
	return s.catalog.Loading()
}

func (s *Session) SetSort(key pipeline.SortKey, dir pipeline.Direction) {
	s.mu.Lock()
	s.sortKey = key
	s.sortDir = dir
	s.mu.Unlock()
}

func (s *Session) Sort() (pipeline.SortKey, pipeline.Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortKey, s.sortDir
}

// Lessons is the display-ordered list: search results when a query is
// active, the full catalog otherwise, sorted by the current key and
// direction.
func (s *Session) Lessons() []domain.Lesson {
	key, dir := s.Sort()
	if results, active := s.searcher.Results(); active {
		return pipeline.Apply(results, key, dir)
	}
	return pipeline.Apply(s.catalog.List(), key, dir)
}

func (s *Session) SearchQuery(ctx context.Context, term string) uint64 {
	return s.searcher.Query(ctx, term)
}

func (s *Session) SearchResults() ([]domain.Lesson, bool) {
	return s.searcher.Results()
}

func (s *Session) SearchInFlight() int {
	return s.searcher.InFlight()
}

func (s *Session) SearchTerm() string {
	return s.searcher.Term()
}

func (s *Session) AddToCart(lessonID string) (bool, error) {
	return s.cart.Add(lessonID)
}

func (s *Session) RemoveFromCart(index int) error {
	return s.cart.Remove(index)
}

func (s *Session) CartLessons() []domain.Lesson {
	return s.cart.Lessons()
}

func (s *Session) CartSize() int {
	return s.cart.Size()
}

func (s *Session) CartTotal() float64 {
	return s.cart.Total()
}

func (s *Session) SetForm(form domain.OrderForm) {
	s.mu.Lock()
	s.form = form
	s.mu.Unlock()
}

func (s *Session) Form() domain.OrderForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Session) CanCheckout() bool {
	return s.cart.CanCheckout(s.Form())
}

func (s *Session) OpenCheckout() error {
	return s.checkout.Open(s.Form())
}

func (s *Session) CancelCheckout() {
	s.checkout.Cancel()
}

// ConfirmCheckout runs the submission. On any placed outcome the form
// resets, the view returns home and the checkout machine is
// acknowledged back to Idle, ready for the next purchase; the outcome
// and message stay readable. On failure everything stays put so the
// user can retry.
func (s *Session) ConfirmCheckout(ctx context.Context) (checkout.Outcome, error) {
	outcome, err := s.checkout.Confirm(ctx, s.Form())
	if outcome == checkout.OutcomePlaced || outcome == checkout.OutcomePlacedUnsynced {
		s.checkout.Acknowledge()
		s.mu.Lock()
		s.form = domain.OrderForm{}
		s.view = ViewHome
		s.mu.Unlock()
	}
	return outcome, err
}

func (s *Session) CheckoutStatus() domain.CheckoutStatus {
	return s.checkout.Status()
}

func (s *Session) CheckoutOutcome() checkout.Outcome {
	return s.checkout.Outcome()
}

func (s *Session) Message() string {
	return s.checkout.Message()
}
