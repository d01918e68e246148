package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"mioto/internal/domain/entities"
	"mioto/internal/usecase/interfaces"
)

// ServiceOrderMemoryRepository is a map-backed store with the same write
// semantics as the DynamoDB implementation (revision check, one-shot review).
// It backs local development without a DynamoDB endpoint and serves as the
// mirror side of the fallback store.

type ServiceOrderMemoryRepository struct {
	mu     sync.RWMutex
	orders map[string]entities.ServiceOrder
}

var _ interfaces.IServiceOrderRepository = (*ServiceOrderMemoryRepository)(nil)

func NewServiceOrderMemoryRepository() *ServiceOrderMemoryRepository {
	return &ServiceOrderMemoryRepository{
		orders: make(map[string]entities.ServiceOrder),
	}
}

func (r *ServiceOrderMemoryRepository) Create(_ context.Context, o entities.ServiceOrder) (entities.ServiceOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[o.ID]; exists {
		return entities.ServiceOrder{}, interfaces.ErrRevisionConflict
	}
	r.orders[o.ID] = o
	return o, nil
}

func (r *ServiceOrderMemoryRepository) GetByID(_ context.Context, id string) (entities.ServiceOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return entities.ServiceOrder{}, nil
	}
	return o, nil
}

func (r *ServiceOrderMemoryRepository) ListByActor(_ context.Context, actorID string, role entities.ActorRole) ([]entities.ServiceOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entities.ServiceOrder, 0)
	for _, o := range r.orders {
		switch role {
		case entities.ActorRoleMotorista:
			if o.DriverID == actorID {
				out = append(out, o)
			}
		case entities.ActorRoleOficina:
			if o.WorkshopID == actorID {
				out = append(out, o)
			}
		}
	}
	// Newest first, matching the descending created_at order of the GSI query.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ServiceOrderMemoryRepository) UpdateStatus(_ context.Context, id string, revision int64, status entities.OrderStatus, patch entities.OrderPatch) (entities.ServiceOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return entities.ServiceOrder{}, nil
	}
	if o.Revision != revision {
		return entities.ServiceOrder{}, interfaces.ErrRevisionConflict
	}

	o = patch.Apply(o)
	o.Status = status
	o.Revision++
	o.UpdatedAt = time.Now().UTC()
	r.orders[id] = o
	return o, nil
}

func (r *ServiceOrderMemoryRepository) AddReview(_ context.Context, id string, revision int64, rating int, review, photo string) (entities.ServiceOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return entities.ServiceOrder{}, nil
	}
	if o.Reviewed() {
		return entities.ServiceOrder{}, interfaces.ErrReviewExists
	}
	if o.Revision != revision {
		return entities.ServiceOrder{}, interfaces.ErrRevisionConflict
	}

	o.Rating = rating
	o.Review = review
	o.CompletionPhotoDriver = photo
	o.Revision++
	o.UpdatedAt = time.Now().UTC()
	r.orders[id] = o
	return o, nil
}

// put inserts or replaces an order without any revision check. The fallback
// store uses it to mirror remote writes.
func (r *ServiceOrderMemoryRepository) put(o entities.ServiceOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = o
}

// putAll mirrors a list result in one lock acquisition.
func (r *ServiceOrderMemoryRepository) putAll(orders []entities.ServiceOrder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range orders {
		r.orders[o.ID] = o
	}
}
