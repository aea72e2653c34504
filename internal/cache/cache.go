package cache

import (
	"context"
	"errors"

	"github.com/fjod/go_lessons/internal/domain"
)

type SearchCache interface {
	Get(ctx context.Context, term string) ([]domain.Lesson, error)
	Set(ctx context.Context, term string, lessons []domain.Lesson) error
	Delete(ctx context.Context, term string) error
}

var ErrCacheMiss = errors.New("cache miss")
