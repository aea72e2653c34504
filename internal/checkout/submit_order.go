package checkout

import (
	"context"
	"strings"

	"github.com/fjod/go_lessons/internal/domain"
	log "github.com/sirupsen/logrus"
)

// buildRequest freezes the form and the booked entries at submission
// time. LessonIDs keeps duplicates: booking the same lesson twice
// reserves two slots.
func buildRequest(form domain.OrderForm, booked []domain.CartEntry) domain.CheckoutRequest {
	ids := make([]string, len(booked))
	for i, e := range booked {
		ids[i] = e.LessonID
	}
	return domain.CheckoutRequest{
		Name:      strings.TrimSpace(form.Name),
		Phone:     strings.TrimSpace(form.Phone),
		LessonIDs: ids,
		SlotCount: len(ids),
	}
}

func (c *Coordinator) submitOrder(ctx context.Context, sessionID string, request domain.CheckoutRequest) error {
	if c.api == nil {
		return ErrNoRemoteService
	}
	if err := c.api.CreateOrder(ctx, request); err != nil {
		log.Printf("checkout %s: order creation failed: %v", sessionID, err)
		return err
	}
	log.Printf("checkout %s: order created for %d slot(s)", sessionID, request.SlotCount)
	return nil
}
