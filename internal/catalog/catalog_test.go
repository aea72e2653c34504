package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/fjod/go_lessons/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLister struct {
	lessons []domain.Lesson
	err     error
}

func (m mockLister) ListLessons(context.Context) ([]domain.Lesson, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lessons, nil
}

func TestLoad_NoRemote_UsesSeed(t *testing.T) {
	c := New()
	assert.True(t, c.Loading())

	c.Load(context.Background(), nil)

	assert.False(t, c.Loading())
	assert.Equal(t, 10, c.Len())

	l, err := c.Find("2")
	require.NoError(t, err)
	assert.Equal(t, "biology", l.Topic)
	assert.Equal(t, 5, l.Space)
}

func TestLoad_RemoteSuccess(t *testing.T) {
	c := New()
	c.Load(context.Background(), mockLister{lessons: []domain.Lesson{
		{ID: "x1", Topic: "physics", Location: "Kingsbury", Price: 700, Space: 3, Rating: 4},
	}})

	assert.False(t, c.Loading())
	assert.Equal(t, 1, c.Len())

	l, err := c.Find("x1")
	require.NoError(t, err)
	assert.Equal(t, "physics", l.Topic)
}

func TestLoad_RemoteFailure_FallsBackToSeed(t *testing.T) {
	c := New()
	c.Load(context.Background(), mockLister{err: errors.New("connection refused")})

	// Loading clears on the failure path too.
	assert.False(t, c.Loading())
	assert.Equal(t, 10, c.Len())
}

func TestLoad_DuplicateIDs_KeepsFirst(t *testing.T) {
	c := New()
	c.Load(context.Background(), mockLister{lessons: []domain.Lesson{
		{ID: "1", Topic: "math", Space: 5},
		{ID: "1", Topic: "biology", Space: 2},
	}})

	assert.Equal(t, 1, c.Len())
	l, err := c.Find("1")
	require.NoError(t, err)
	assert.Equal(t, "math", l.Topic)
}

func TestFind_NotFound(t *testing.T) {
	c := New()
	c.Load(context.Background(), nil)

	_, err := c.Find("missing")
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestList_PreservesInsertionOrder(t *testing.T) {
	c := New()
	c.Load(context.Background(), nil)

	lessons := c.List()
	require.Len(t, lessons, 10)
	assert.Equal(t, "math", lessons[0].Topic)
	assert.Equal(t, "chemistry", lessons[9].Topic)
}

func TestReserve_DecrementsUntilSoldOut(t *testing.T) {
	c := New()
	c.Load(context.Background(), mockLister{lessons: []domain.Lesson{
		{ID: "1", Topic: "math", Space: 2},
	}})

	require.NoError(t, c.Reserve("1"))
	require.NoError(t, c.Reserve("1"))

	err := c.Reserve("1")
	assert.ErrorIs(t, err, ErrSoldOut)

	// Space never goes negative.
	l, _ := c.Find("1")
	assert.Equal(t, 0, l.Space)
}

func TestReserve_UnknownLesson(t *testing.T) {
	c := New()
	c.Load(context.Background(), nil)

	assert.ErrorIs(t, c.Reserve("missing"), ErrLessonNotFound)
	assert.ErrorIs(t, c.Release("missing"), ErrLessonNotFound)
}

func TestRelease_RestoresSlot(t *testing.T) {
	c := New()
	c.Load(context.Background(), nil)

	require.NoError(t, c.Reserve("3"))
	require.NoError(t, c.Release("3"))

	l, err := c.Find("3")
	require.NoError(t, err)
	assert.Equal(t, 5, l.Space)
}

func TestFind_ReturnsCopy(t *testing.T) {
	c := New()
	c.Load(context.Background(), nil)

	l, err := c.Find("1")
	require.NoError(t, err)
	l.Space = 0

	again, err := c.Find("1")
	require.NoError(t, err)
	assert.Equal(t, 5, again.Space)
}
