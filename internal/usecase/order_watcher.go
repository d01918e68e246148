package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"mioto/internal/domain/entities"
	"mioto/internal/usecase/interfaces"
)

// There is no push channel between the parties: each actor observes the
// counterparty's mutations by polling the shared store on a fixed interval.
// OrderWatcher packages that loop as a typed event stream so clients stay
// decoupled from any rendering concern.

type OrderEventType string

const (
	// OrderEventAdded fires the first time an order is observed for the actor.
	OrderEventAdded OrderEventType = "order_added"
	// OrderEventUpdated fires when an already-observed order carries a higher
	// revision than last seen.
	OrderEventUpdated OrderEventType = "order_updated"
	// OrderEventStoreUnavailable fires only after the store has failed several
	// consecutive polls; single failures are retried silently on the next
	// cycle.
	OrderEventStoreUnavailable OrderEventType = "store_unavailable"
)

type OrderEvent struct {
	Type  OrderEventType
	Order entities.ServiceOrder
	Err   error
}

const (
	defaultPollInterval    = 5 * time.Second
	defaultFailureSurfaced = 3
)

type OrderWatcher struct {
	repo     interfaces.IServiceOrderRepository
	actorID  string
	role     entities.ActorRole
	interval time.Duration

	// consecutive failures needed before an unavailability event is surfaced
	failureLimit int

	seen map[string]int64
}

func NewOrderWatcher(repo interfaces.IServiceOrderRepository, actorID string, role entities.ActorRole, interval time.Duration) *OrderWatcher {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &OrderWatcher{
		repo:         repo,
		actorID:      actorID,
		role:         role,
		interval:     interval,
		failureLimit: defaultFailureSurfaced,
		seen:         make(map[string]int64),
	}
}

// Run starts the poll loop and returns the event channel. The channel is
// closed when ctx is cancelled. The first poll runs immediately so callers
// get the initial snapshot as a burst of OrderEventAdded events.
func (w *OrderWatcher) Run(ctx context.Context) <-chan OrderEvent {
	events := make(chan OrderEvent, 16)

	go func() {
		defer close(events)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		failures := 0
		w.poll(ctx, events, &failures)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.poll(ctx, events, &failures)
			}
		}
	}()

	return events
}

func (w *OrderWatcher) poll(ctx context.Context, events chan<- OrderEvent, failures *int) {
	orders, err := w.repo.ListByActor(ctx, w.actorID, w.role)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		*failures++
		log.Printf("[watcher][usecase] poll failed actor_id=%s consecutive=%d err=%v", w.actorID, *failures, err)
		if *failures >= w.failureLimit {
			w.emit(ctx, events, OrderEvent{Type: OrderEventStoreUnavailable, Err: interfaces.ErrStoreUnavailable})
			*failures = 0
		}
		return
	}
	*failures = 0

	for _, o := range orders {
		last, ok := w.seen[o.ID]
		switch {
		case !ok:
			w.seen[o.ID] = o.Revision
			w.emit(ctx, events, OrderEvent{Type: OrderEventAdded, Order: o})
		case o.Revision > last:
			w.seen[o.ID] = o.Revision
			w.emit(ctx, events, OrderEvent{Type: OrderEventUpdated, Order: o})
		}
	}
}

func (w *OrderWatcher) emit(ctx context.Context, events chan<- OrderEvent, e OrderEvent) {
	select {
	case events <- e:
	case <-ctx.Done():
	}
}
