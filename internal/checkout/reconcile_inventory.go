package checkout

import (
	"context"
	"fmt"

	"github.com/fjod/go_lessons/internal/domain"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// reconcileInventory pushes each booked lesson's current (already
// locally decremented) space count to the remote service, one update per
// distinct lesson. Updates are fire-and-join: all are issued before any
// is awaited, there is no required order among them, and every one has
// completed before this returns. The first failure is reported; the
// rest still run to completion.
func (c *Coordinator) reconcileInventory(ctx context.Context, sessionID string, booked []domain.CartEntry) error {
	seen := make(map[string]struct{})
	var lessons []domain.Lesson
	var missingErr error
	for _, entry := range booked {
		if _, dup := seen[entry.LessonID]; dup {
			continue
		}
		seen[entry.LessonID] = struct{}{}
		lesson, err := c.catalog.Find(entry.LessonID)
		if err != nil {
			missingErr = fmt.Errorf("lesson %s missing during reconciliation: %w", entry.LessonID, err)
			log.Printf("checkout %s: %v", sessionID, missingErr)
			continue
		}
		lessons = append(lessons, lesson)
	}

	var g errgroup.Group
	for _, lesson := range lessons {
		g.Go(func() error {
			if err := c.api.UpdateLessonSpace(ctx, lesson.ID, lesson.Space); err != nil {
				log.Printf("checkout %s: space update for lesson %s failed: %v", sessionID, lesson.ID, err)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return missingErr
}
