package repository

import (
	"context"
	"errors"
	"log"

	"mioto/internal/domain/entities"
	"mioto/internal/usecase/interfaces"
)

// ServiceOrderFallbackRepository wraps a remote store with an in-memory
// mirror. Reads fall back to the last mirrored data when the remote store is
// unreachable, so a polling client keeps showing the orders it already knows
// about during an outage. Writes never fall back: accepting a write the remote
// store did not see would fork the revision history.

type ServiceOrderFallbackRepository struct {
	remote interfaces.IServiceOrderRepository
	mirror *ServiceOrderMemoryRepository
}

var _ interfaces.IServiceOrderRepository = (*ServiceOrderFallbackRepository)(nil)

func NewServiceOrderFallbackRepository(remote interfaces.IServiceOrderRepository) *ServiceOrderFallbackRepository {
	return &ServiceOrderFallbackRepository{
		remote: remote,
		mirror: NewServiceOrderMemoryRepository(),
	}
}

func (r *ServiceOrderFallbackRepository) Create(ctx context.Context, o entities.ServiceOrder) (entities.ServiceOrder, error) {
	created, err := r.remote.Create(ctx, o)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	r.mirror.put(created)
	return created, nil
}

func (r *ServiceOrderFallbackRepository) GetByID(ctx context.Context, id string) (entities.ServiceOrder, error) {
	o, err := r.remote.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrStoreUnavailable) {
			log.Printf("[order][fallback] remote read failed, serving mirror order_id=%s err=%v", id, err)
			return r.mirror.GetByID(ctx, id)
		}
		return entities.ServiceOrder{}, err
	}
	if o.ID != "" {
		r.mirror.put(o)
	}
	return o, nil
}

func (r *ServiceOrderFallbackRepository) ListByActor(ctx context.Context, actorID string, role entities.ActorRole) ([]entities.ServiceOrder, error) {
	orders, err := r.remote.ListByActor(ctx, actorID, role)
	if err != nil {
		if errors.Is(err, interfaces.ErrStoreUnavailable) {
			log.Printf("[order][fallback] remote list failed, serving mirror actor_id=%s err=%v", actorID, err)
			return r.mirror.ListByActor(ctx, actorID, role)
		}
		return nil, err
	}
	r.mirror.putAll(orders)
	return orders, nil
}

func (r *ServiceOrderFallbackRepository) UpdateStatus(ctx context.Context, id string, revision int64, status entities.OrderStatus, patch entities.OrderPatch) (entities.ServiceOrder, error) {
	updated, err := r.remote.UpdateStatus(ctx, id, revision, status, patch)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if updated.ID != "" {
		r.mirror.put(updated)
	}
	return updated, nil
}

func (r *ServiceOrderFallbackRepository) AddReview(ctx context.Context, id string, revision int64, rating int, review, photo string) (entities.ServiceOrder, error) {
	updated, err := r.remote.AddReview(ctx, id, revision, rating, review, photo)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if updated.ID != "" {
		r.mirror.put(updated)
	}
	return updated, nil
}
