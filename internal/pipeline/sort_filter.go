package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fjod/go_lessons/internal/domain"
)

type SortKey string

const (
	SortTopic    SortKey = "topic"
	SortLocation SortKey = "location"
	SortPrice    SortKey = "price"
	SortSpace    SortKey = "space"
	SortRating   SortKey = "rating"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case SortTopic, SortLocation, SortPrice, SortSpace, SortRating:
		return SortKey(s), nil
	case "":
		return SortTopic, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Asc, Desc:
		return Direction(s), nil
	case "":
		return Asc, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", s)
}

// Apply returns the lessons ordered by key and direction. The sort is
// stable so equal-valued rows keep their prior relative order across
// repeated re-sorts. Desc reverses the ascending comparator by swapping
// its arguments; there is no separate descending comparator.
func Apply(lessons []domain.Lesson, key SortKey, dir Direction) []domain.Lesson {
	out := make([]domain.Lesson, len(lessons))
	copy(out, lessons)

	less := lessFor(key)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Desc {
			i, j = j, i
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFor(key SortKey) func(a, b domain.Lesson) bool {
	switch key {
	case SortLocation:
		return func(a, b domain.Lesson) bool {
			return strings.ToLower(a.Location) < strings.ToLower(b.Location)
		}
	case SortPrice:
		return func(a, b domain.Lesson) bool { return a.Price < b.Price }
	case SortSpace:
		return func(a, b domain.Lesson) bool { return a.Space < b.Space }
	case SortRating:
		return func(a, b domain.Lesson) bool { return a.Rating < b.Rating }
	default:
		return func(a, b domain.Lesson) bool {
			return strings.ToLower(a.Topic) < strings.ToLower(b.Topic)
		}
	}
}
