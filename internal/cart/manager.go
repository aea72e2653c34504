package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/fjod/go_lessons/internal/catalog"
	"github.com/fjod/go_lessons/internal/domain"
	log "github.com/sirupsen/logrus"
)

var ErrIndexOutOfRange = errors.New("cart index out of range")

// Manager owns the ordered list of cart entries and is the only writer
// of lesson space counts. Entries reference lessons by id; every space
// adjustment resolves the id against the catalog.
type Manager struct {
	catalog *catalog.Catalog

	mu      sync.Mutex
	entries []domain.CartEntry
}

func NewManager(cat *catalog.Catalog) *Manager {
	return &Manager{catalog: cat}
}

// Add reserves one slot and appends an entry. A sold-out lesson is a
// routine state, not a fault: Add reports added=false with a nil error
// and changes nothing. An unknown id is an error.
func (m *Manager) Add(lessonID string) (bool, error) {
	err := m.catalog.Reserve(lessonID)
	if errors.Is(err, catalog.ErrSoldOut) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	m.entries = append(m.entries, domain.CartEntry{
		LessonID: lessonID,
		AddedAt:  time.Now(),
	})
	m.mu.Unlock()
	return true, nil
}

// Remove drops the entry at index and restores the slot to the canonical
// lesson, looked up by id.
func (m *Manager) Remove(index int) error {
	m.mu.Lock()
	if index < 0 || index >= len(m.entries) {
		m.mu.Unlock()
		return ErrIndexOutOfRange
	}
	entry := m.entries[index]
	m.entries = append(m.entries[:index], m.entries[index+1:]...)
	m.mu.Unlock()

	if err := m.catalog.Release(entry.LessonID); err != nil {
		// The catalog never deletes lessons mid-session, so this
		// indicates a programming error upstream.
		log.Printf("release slot for lesson %s failed: %v", entry.LessonID, err)
		return err
	}
	return nil
}

// Clear drops all entries without restoring slots.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.entries = nil
	m.mu.Unlock()
}

// RemoveBooked drops exactly the given entries without restoring their
// slots; used after a successful checkout, when those reservations
// become booked. Entries added after the snapshot was taken survive,
// reservation included.
func (m *Manager) RemoveBooked(booked []domain.CartEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range booked {
		for i, e := range m.entries {
			if e.LessonID == b.LessonID && e.AddedAt.Equal(b.AddedAt) {
				m.entries = append(m.entries[:i], m.entries[i+1:]...)
				break
			}
		}
	}
}

func (m *Manager) Entries() []domain.CartEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CartEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *Manager) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Lessons resolves the entries against the catalog, in cart order.
func (m *Manager) Lessons() []domain.Lesson {
	entries := m.Entries()
	out := make([]domain.Lesson, 0, len(entries))
	for _, e := range entries {
		l, err := m.catalog.Find(e.LessonID)
		if err != nil {
			log.Printf("cart entry references unknown lesson %s", e.LessonID)
			continue
		}
		out = append(out, l)
	}
	return out
}

// Total sums the current price of every booked lesson.
func (m *Manager) Total() float64 {
	var total float64
	for _, l := range m.Lessons() {
		total += l.Price
	}
	return total
}

// LessonIDs returns the booked ids in cart order, duplicates preserved:
// each occurrence is a distinct reserved slot.
func (m *Manager) LessonIDs() []string {
	entries := m.Entries()
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.LessonID
	}
	return ids
}

// CanCheckout reports whether checkout may begin: non-empty cart, a
// letters-and-spaces name and a digits-only phone.
func (m *Manager) CanCheckout(form domain.OrderForm) bool {
	return m.Size() > 0 && form.Valid()
}
