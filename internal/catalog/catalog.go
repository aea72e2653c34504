package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/fjod/go_lessons/internal/domain"
	log "github.com/sirupsen/logrus"
)

var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrSoldOut        = errors.New("no spaces left")
)

// LessonLister fetches the full lesson list from the remote service.
type LessonLister interface {
	ListLessons(ctx context.Context) ([]domain.Lesson, error)
}

// Catalog is the authoritative in-memory lesson store. Lessons are keyed
// by id; insertion order is kept so listings are deterministic before any
// sort is applied. All space mutation goes through Reserve/Release.
type Catalog struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Lesson
	order   []string
	loading bool
}

func New() *Catalog {
	return &Catalog{
		byID:    make(map[string]*domain.Lesson),
		loading: true,
	}
}

// Load populates the catalog from the remote service, falling back to the
// seed dataset on any failure. The loading flag is cleared exactly once on
// every path, including panics in decoding, hence the defer.
func (c *Catalog) Load(ctx context.Context, remote LessonLister) {
	defer c.finishLoading()

	if remote == nil {
		c.populate(domain.SeedLessons())
		return
	}

	lessons, err := remote.ListLessons(ctx)
	if err != nil {
		log.Printf("lesson load failed, using seed data: %v", err)
		c.populate(domain.SeedLessons())
		return
	}
	c.populate(lessons)
}

func (c *Catalog) populate(lessons []domain.Lesson) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.byID = make(map[string]*domain.Lesson, len(lessons))
	c.order = c.order[:0]
	for i := range lessons {
		l := lessons[i]
		if _, exists := c.byID[l.ID]; exists {
			log.Printf("duplicate lesson id %q in payload, keeping first", l.ID)
			continue
		}
		c.byID[l.ID] = &l
		c.order = append(c.order, l.ID)
	}
}

func (c *Catalog) finishLoading() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
}

func (c *Catalog) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Find returns a copy of the lesson with the given id.
func (c *Catalog) Find(id string) (domain.Lesson, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	l, exists := c.byID[id]
	if !exists {
		return domain.Lesson{}, ErrLessonNotFound
	}
	return *l, nil
}

// List returns copies of all lessons in insertion order.
func (c *Catalog) List() []domain.Lesson {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]domain.Lesson, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, *c.byID[id])
	}
	return result
}

// Reserve takes one slot of the lesson. ErrSoldOut when none are left;
// space can never go below zero.
func (c *Catalog) Reserve(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, exists := c.byID[id]
	if !exists {
		return ErrLessonNotFound
	}
	if l.Space <= 0 {
		return ErrSoldOut
	}
	l.Space--
	return nil
}

// Release gives one slot back. The lesson is resolved by id so the
// restore always targets the canonical entry regardless of how the
// display list has been re-sorted or re-filtered since the reserve.
func (c *Catalog) Release(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, exists := c.byID[id]
	if !exists {
		return ErrLessonNotFound
	}
	l.Space++
	return nil
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}
