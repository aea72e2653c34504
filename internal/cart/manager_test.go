package cart

import (
	"context"
	"testing"

	"github.com/fjod/go_lessons/internal/catalog"
	"github.com/fjod/go_lessons/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCart(t *testing.T) (*Manager, *catalog.Catalog) {
	t.Helper()
	c := catalog.New()
	c.Load(context.Background(), nil) // seed dataset, space 5 each
	return NewManager(c), c
}

func TestAdd_ReservesSlot(t *testing.T) {
	m, c := setupCart(t)

	added, err := m.Add("1")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, m.Size())

	l, _ := c.Find("1")
	assert.Equal(t, 4, l.Space)
}

func TestAdd_SoldOut_IsSilentNoOp(t *testing.T) {
	m, c := setupCart(t)

	for i := 0; i < 5; i++ {
		added, err := m.Add("1")
		require.NoError(t, err)
		require.True(t, added)
	}

	added, err := m.Add("1")
	require.NoError(t, err) // sold out is not a fault
	assert.False(t, added)
	assert.Equal(t, 5, m.Size())

	l, _ := c.Find("1")
	assert.Equal(t, 0, l.Space)
}

func TestAdd_UnknownLesson(t *testing.T) {
	m, _ := setupCart(t)

	added, err := m.Add("missing")
	assert.ErrorIs(t, err, catalog.ErrLessonNotFound)
	assert.False(t, added)
	assert.Equal(t, 0, m.Size())
}

func TestRemove_RestoresSlotByID(t *testing.T) {
	m, c := setupCart(t)

	_, err := m.Add("1")
	require.NoError(t, err)
	_, err = m.Add("2")
	require.NoError(t, err)

	require.NoError(t, m.Remove(0))

	assert.Equal(t, 1, m.Size())
	assert.Equal(t, []string{"2"}, m.LessonIDs())

	l, _ := c.Find("1")
	assert.Equal(t, 5, l.Space)
	l, _ = c.Find("2")
	assert.Equal(t, 4, l.Space)
}

func TestRemove_OutOfRange(t *testing.T) {
	m, _ := setupCart(t)

	assert.ErrorIs(t, m.Remove(0), ErrIndexOutOfRange)
	assert.ErrorIs(t, m.Remove(-1), ErrIndexOutOfRange)
}

func TestRemoveThenAdd_RoundTrip(t *testing.T) {
	m, c := setupCart(t)

	_, err := m.Add("4")
	require.NoError(t, err)
	before, _ := c.Find("4")

	require.NoError(t, m.Remove(0))
	added, err := m.Add("4")
	require.NoError(t, err)
	require.True(t, added)

	after, _ := c.Find("4")
	assert.Equal(t, before, after)
	assert.Equal(t, []string{"4"}, m.LessonIDs())
}

func TestSpace_StaysWithinBounds(t *testing.T) {
	m, c := setupCart(t)

	// A churning add/remove sequence never pushes space outside
	// [0, original].
	ops := []struct {
		add    bool
		target any // lesson id for add, index for remove
	}{
		{true, "1"}, {true, "1"}, {true, "1"},
		{false, 1},
		{true, "1"}, {true, "1"}, {true, "1"},
		{false, 0}, {false, 0},
	}
	for _, op := range ops {
		if op.add {
			_, err := m.Add(op.target.(string))
			require.NoError(t, err)
		} else {
			require.NoError(t, m.Remove(op.target.(int)))
		}

		l, err := c.Find("1")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, l.Space, 0)
		assert.LessOrEqual(t, l.Space, 5)
		assert.Equal(t, 5, l.Space+m.Size())
	}
}

func TestTotal_SumsCurrentPrices(t *testing.T) {
	m, _ := setupCart(t)

	_, _ = m.Add("2") // biology, 900
	_, _ = m.Add("7") // dance, 960
	_, _ = m.Add("2") // biology again

	assert.InDelta(t, 2760, m.Total(), 0.001)
}

func TestLessonIDs_PreservesDuplicates(t *testing.T) {
	m, _ := setupCart(t)

	_, _ = m.Add("2")
	_, _ = m.Add("7")
	_, _ = m.Add("2")

	assert.Equal(t, []string{"2", "7", "2"}, m.LessonIDs())
}

func TestClear_DoesNotRestoreSlots(t *testing.T) {
	m, c := setupCart(t)

	_, _ = m.Add("5")
	_, _ = m.Add("5")
	m.Clear()

	assert.Equal(t, 0, m.Size())
	l, _ := c.Find("5")
	assert.Equal(t, 3, l.Space) // booked, not released
}

func TestRemoveBooked_DropsOnlySnapshot(t *testing.T) {
	m, c := setupCart(t)

	_, _ = m.Add("2")
	_, _ = m.Add("7")
	booked := m.Entries()
	_, _ = m.Add("5") // landed after the snapshot

	m.RemoveBooked(booked)

	assert.Equal(t, []string{"5"}, m.LessonIDs())

	// The booked slots stay taken, and so does the survivor's.
	l, _ := c.Find("2")
	assert.Equal(t, 4, l.Space)
	l, _ = c.Find("7")
	assert.Equal(t, 4, l.Space)
	l, _ = c.Find("5")
	assert.Equal(t, 4, l.Space)
}

func TestCanCheckout(t *testing.T) {
	m, _ := setupCart(t)
	validForm := domain.OrderForm{Name: "John Smith", Phone: "5551234"}

	// Empty cart blocks checkout regardless of the form.
	assert.False(t, m.CanCheckout(validForm))

	_, err := m.Add("1")
	require.NoError(t, err)

	assert.True(t, m.CanCheckout(validForm))
	assert.False(t, m.CanCheckout(domain.OrderForm{Name: "John123", Phone: "5551234"}))
	assert.False(t, m.CanCheckout(domain.OrderForm{Name: "John Smith", Phone: "555-1234"}))
}
