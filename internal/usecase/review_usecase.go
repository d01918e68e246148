package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"mioto/internal/domain/entities"
	"mioto/internal/usecase/interfaces"
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// IReviewUseCase finalizes a completed order with the driver's one-shot
// feedback: a required 1-5 rating, optional text and an optional photo. There
// is no update path after submission.

type IReviewUseCase interface {
	AddReview(ctx context.Context, actorID, orderID string, rating int, review, photo string) (entities.ServiceOrder, error)
}

type ReviewUseCase struct {
	repo interfaces.IServiceOrderRepository
}

var _ IReviewUseCase = (*ReviewUseCase)(nil)

func NewReviewUseCase(repo interfaces.IServiceOrderRepository) *ReviewUseCase {
	return &ReviewUseCase{repo: repo}
}

func (u *ReviewUseCase) AddReview(ctx context.Context, actorID, orderID string, rating int, review, photo string) (entities.ServiceOrder, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.ServiceOrder{}, fmt.Errorf("%w: order id is required", ErrInvalidOrderInput)
	}
	if rating < 1 || rating > 5 {
		return entities.ServiceOrder{}, ErrInvalidRating
	}

	o, err := u.repo.GetByID(ctx, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if o.ID == "" {
		return entities.ServiceOrder{}, ErrOrderNotFound
	}
	if !o.IsDriver(actorID) {
		return entities.ServiceOrder{}, ErrNotOrderParty
	}
	if o.Status != entities.OrderStatusConcluido {
		return entities.ServiceOrder{}, fmt.Errorf("%w: review requires status concluido, order is %s", ErrInvalidTransition, o.Status)
	}
	if o.Reviewed() {
		return entities.ServiceOrder{}, ErrAlreadyReviewed
	}

	updated, err := u.repo.AddReview(ctx, o.ID, o.Revision, rating, strings.TrimSpace(review), strings.TrimSpace(photo))
	if err != nil {
		switch {
		case errors.Is(err, interfaces.ErrReviewExists):
			// The storage condition is the backstop for two racing submissions.
			return entities.ServiceOrder{}, ErrAlreadyReviewed
		case errors.Is(err, interfaces.ErrRevisionConflict):
			return entities.ServiceOrder{}, ErrStaleRevision
		}
		log.Printf("[review][usecase] add review failed order_id=%s err=%v", o.ID, err)
		return entities.ServiceOrder{}, err
	}
	log.Printf("[review][usecase] review added order_id=%s rating=%d", updated.ID, rating)
	return updated, nil
}
