package search

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/fjod/go_lessons/internal/cache"
	"github.com/fjod/go_lessons/internal/catalog"
	"github.com/fjod/go_lessons/internal/domain"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// RemoteSearcher delegates matching to the remote lesson service.
type RemoteSearcher interface {
	SearchLessons(ctx context.Context, term string) ([]domain.Lesson, error)
}

// Searcher answers free-text queries. With a remote configured it
// delegates matching to GET /search; without one it scans the local
// catalog with a case-insensitive substring match over topic, location,
// price and space. Queries may overlap in flight: every query gets a
// monotonically increasing sequence number and a response is applied
// only if it belongs to the most recently issued query. Anything older
// is discarded, so results never move backwards under fast typing.
type Searcher struct {
	remote  RemoteSearcher // nil: local scan
	catalog *catalog.Catalog
	cache   cache.SearchCache // nil: no caching
	sfg     singleflight.Group // dedupes identical in-flight terms

	mu         sync.Mutex
	lastIssued uint64
	results    []domain.Lesson
	active     bool
	term       string
	inFlight   int
}

func NewSearcher(cat *catalog.Catalog, remote RemoteSearcher, sc cache.SearchCache) *Searcher {
	return &Searcher{
		remote:  remote,
		catalog: cat,
		cache:   sc,
	}
}

// Query issues a search and returns its sequence number. An empty term
// (after trimming) clears the results synchronously and issues nothing;
// the sequence still advances so responses of superseded queries land
// stale and get dropped.
func (s *Searcher) Query(ctx context.Context, term string) uint64 {
	term = strings.TrimSpace(term)

	s.mu.Lock()
	s.lastIssued++
	seq := s.lastIssued
	s.term = term
	if term == "" {
		s.active = false
		s.results = nil
		s.mu.Unlock()
		return seq
	}
	s.active = true
	s.inFlight++
	s.mu.Unlock()

	if s.remote == nil {
		s.apply(seq, localScan(s.catalog.List(), term))
		return seq
	}

	go func() {
		lessons, err := s.fetch(ctx, term)
		if err != nil {
			// Search degrades to "no matches", never to a user-facing error.
			log.Printf("search %q failed: %v", term, err)
			lessons = nil
		}
		s.apply(seq, lessons)
	}()
	return seq
}

// Results returns the current result set and whether a query is active.
func (s *Searcher) Results() ([]domain.Lesson, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Lesson, len(s.results))
	copy(out, s.results)
	return out, s.active
}

func (s *Searcher) Term() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.term
}

func (s *Searcher) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

func (s *Searcher) apply(seq uint64, lessons []domain.Lesson) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight > 0 {
		s.inFlight--
	}
	if seq != s.lastIssued {
		log.Printf("discarding stale search response (seq %d, latest %d)", seq, s.lastIssued)
		return
	}
	s.results = lessons
}

func (s *Searcher) fetch(ctx context.Context, term string) ([]domain.Lesson, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, term)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("search cache get error: %v", err) // log cache error but continue
		}
	}

	v, err, _ := s.sfg.Do(strings.ToLower(term), func() (interface{}, error) {
		lessons, errSearch := s.remote.SearchLessons(ctx, term)
		if errSearch != nil {
			return nil, errSearch
		}
		if s.cache != nil {
			if errSet := s.cache.Set(ctx, term, lessons); errSet != nil {
				log.Printf("search cache set error: %v", errSet)
			}
		}
		return lessons, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Lesson), nil
}

// localScan mirrors the matching the remote service applies: substring,
// case-insensitive, over topic, location, price and space.
func localScan(lessons []domain.Lesson, term string) []domain.Lesson {
	q := strings.ToLower(term)
	var out []domain.Lesson
	for _, l := range lessons {
		if matches(l, q) {
			out = append(out, l)
		}
	}
	return out
}

func matches(l domain.Lesson, q string) bool {
	return strings.Contains(strings.ToLower(l.Topic), q) ||
		strings.Contains(strings.ToLower(l.Location), q) ||
		strings.Contains(strconv.FormatFloat(l.Price, 'f', -1, 64), q) ||
		strings.Contains(strconv.Itoa(l.Space), q)
}
