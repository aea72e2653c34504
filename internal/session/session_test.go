package session

import (
	"context"
	"errors"
	"testing"

	"github.com/fjod/go_lessons/internal/cart"
	"github.com/fjod/go_lessons/internal/catalog"
	"github.com/fjod/go_lessons/internal/checkout"
	"github.com/fjod/go_lessons/internal/domain"
	"github.com/fjod/go_lessons/internal/pipeline"
	"github.com/fjod/go_lessons/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRemote = errors.New("remote order service unavailable")

type stubOrderAPI struct {
	orderErr error
}

func (s stubOrderAPI) CreateOrder(context.Context, domain.CheckoutRequest) error {
	return s.orderErr
}

func (s stubOrderAPI) UpdateLessonSpace(context.Context, string, int) error {
	return nil
}

func setupSession(t *testing.T, api checkout.OrderAPI) *Session {
	t.Helper()
	cat := catalog.New()
	cat.Load(context.Background(), nil)
	cartManager := cart.NewManager(cat)
	searcher := search.NewSearcher(cat, nil, nil)
	coordinator := checkout.NewCoordinator(api, cartManager, cat)
	return New(cat, searcher, cartManager, coordinator)
}

func TestSession_InitialState(t *testing.T) {
	s := setupSession(t, stubOrderAPI{})

	assert.Equal(t, ViewHome, s.View())
	key, dir := s.Sort()
	assert.Equal(t, pipeline.SortTopic, key)
	assert.Equal(t, pipeline.Asc, dir)
	assert.False(t, s.Loading())
	assert.Empty(t, s.Message())
}

func TestLessons_SortsCatalog(t *testing.T) {
	s := setupSession(t, stubOrderAPI{})

	lessons := s.Lessons() // default: topic asc
	require.Len(t, lessons, 10)
	assert.Equal(t, "art", lessons[0].Topic)
	assert.Equal(t, "music", lessons[9].Topic)
}

func TestLessons_ActiveSearchDrivesDisplaySet(t *testing.T) {
	s := setupSession(t, stubOrderAPI{})

	s.SearchQuery(context.Background(), "bio")
	lessons := s.Lessons()
	require.Len(t, lessons, 1)
	assert.Equal(t, "biology", lessons[0].Topic)

	// Clearing the query brings back the full catalog.
	s.SearchQuery(context.Background(), "")
	assert.Len(t, s.Lessons(), 10)
}

func TestConfirmCheckout_Success_ResetsFormAndGoesHome(t *testing.T) {
	s := setupSession(t, stubOrderAPI{})
	s.Go(ViewCart)

	added, err := s.AddToCart("2")
	require.NoError(t, err)
	require.True(t, added)

	s.SetForm(domain.OrderForm{Name: "John Smith", Phone: "5551234"})
	require.True(t, s.CanCheckout())
	require.NoError(t, s.OpenCheckout())

	outcome, err := s.ConfirmCheckout(context.Background())
	require.NoError(t, err)

	assert.Equal(t, checkout.OutcomePlaced, outcome)
	assert.Equal(t, ViewHome, s.View())
	assert.Equal(t, domain.OrderForm{}, s.Form())
	assert.Equal(t, 0, s.CartSize())

	// The machine is acknowledged back to Idle; the result stays
	// readable.
	assert.Equal(t, domain.CheckoutStatusIdle, s.CheckoutStatus())
	assert.Equal(t, checkout.OutcomePlaced, s.CheckoutOutcome())
	assert.NotEmpty(t, s.Message())
}

func TestConfirmCheckout_Success_SecondPurchaseNeedsNoCancel(t *testing.T) {
	s := setupSession(t, stubOrderAPI{})
	form := domain.OrderForm{Name: "John Smith", Phone: "5551234"}

	_, err := s.AddToCart("2")
	require.NoError(t, err)
	s.SetForm(form)
	require.NoError(t, s.OpenCheckout())
	_, err = s.ConfirmCheckout(context.Background())
	require.NoError(t, err)

	// Shop again right away.
	_, err = s.AddToCart("7")
	require.NoError(t, err)
	s.SetForm(form)
	require.NoError(t, s.OpenCheckout())

	outcome, err := s.ConfirmCheckout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, checkout.OutcomePlaced, outcome)
	assert.Equal(t, 0, s.CartSize())
}

func TestConfirmCheckout_Failure_KeepsFormAndView(t *testing.T) {
	s := setupSession(t, stubOrderAPI{orderErr: errRemote})
	s.Go(ViewCart)

	_, err := s.AddToCart("2")
	require.NoError(t, err)
	form := domain.OrderForm{Name: "John Smith", Phone: "5551234"}
	s.SetForm(form)
	require.NoError(t, s.OpenCheckout())

	outcome, err := s.ConfirmCheckout(context.Background())
	require.Error(t, err)

	assert.Equal(t, checkout.OutcomeFailed, outcome)
	assert.Equal(t, ViewCart, s.View())
	assert.Equal(t, form, s.Form())
	assert.Equal(t, 1, s.CartSize())
	assert.NotEmpty(t, s.Message())
}

func TestCartTotal_ThroughSession(t *testing.T) {
	s := setupSession(t, stubOrderAPI{})

	_, _ = s.AddToCart("2") // 900
	_, _ = s.AddToCart("4") // 600

	assert.InDelta(t, 1500, s.CartTotal(), 0.001)
	assert.Len(t, s.CartLessons(), 2)
}
