package interfaces

import (
	"context"
	"errors"

	"mioto/internal/domain/entities"
)

// Sentinel errors shared by every repository implementation. Use cases
// translate them into the actor-facing error taxonomy.
var (
	// ErrRevisionConflict signals a compare-and-swap failure: the order was
	// mutated after the caller read it. The caller must refresh and retry.
	ErrRevisionConflict = errors.New("order revision conflict")

	// ErrReviewExists signals the one-shot review condition failed at the
	// storage layer.
	ErrReviewExists = errors.New("order review already exists")

	// ErrStoreUnavailable wraps transport failures against the backing store.
	// Recoverable: pollers retry on the next cycle instead of blocking.
	ErrStoreUnavailable = errors.New("order store unavailable")
)

// IServiceOrderRepository abstracts persistence for ServiceOrder.
//
// Conventions (shared by the DynamoDB and in-memory implementations):
//   - Lookups for unknown ids return a zero-value order and a nil error;
//     use cases decide whether absence is an error.
//   - Every mutation carries the revision the caller read. A stale revision
//     fails with ErrRevisionConflict and leaves the record untouched.
//   - Orders are never deleted; terminal states are retained as history.

type IServiceOrderRepository interface {
	Create(ctx context.Context, o entities.ServiceOrder) (entities.ServiceOrder, error)
	GetByID(ctx context.Context, id string) (entities.ServiceOrder, error)
	ListByActor(ctx context.Context, actorID string, role entities.ActorRole) ([]entities.ServiceOrder, error)
	UpdateStatus(ctx context.Context, id string, revision int64, status entities.OrderStatus, patch entities.OrderPatch) (entities.ServiceOrder, error)
	AddReview(ctx context.Context, id string, revision int64, rating int, review, photo string) (entities.ServiceOrder, error)
}
