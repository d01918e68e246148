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
	ErrInvalidScheduleInput = errors.New("invalid schedule input")
)

// IScheduleUseCase is the appointment negotiation protocol, layered on top of
// an order. It never advances the main status path; the only crossover is the
// driver rejecting a counter-proposal, which cancels the order outright (no
// partial-accept path exists).
//
// Rounds are unbounded: each workshop counter simply overwrites the previous
// proposal (last-write-wins, no history retained).

type IScheduleUseCase interface {
	// RequestSchedule lets the driver ask for an appointment after creation,
	// or overwrite a still-unanswered request.
	RequestSchedule(ctx context.Context, actorID, orderID, date, timeOfDay string) (entities.ServiceOrder, error)
	// AcceptSchedule lets the workshop confirm the driver's requested slot.
	AcceptSchedule(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error)
	// CounterSchedule lets the workshop answer with a different slot.
	CounterSchedule(ctx context.Context, actorID, orderID, date, timeOfDay string) (entities.ServiceOrder, error)
	// AcceptProposal lets the driver take the workshop's counter-proposal:
	// the proposed slot becomes the agreed slot and the proposal is cleared.
	AcceptProposal(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error)
	// RejectProposal cancels the order from a counter-proposal.
	RejectProposal(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error)
}

type ScheduleUseCase struct {
	repo interfaces.IServiceOrderRepository
}

var _ IScheduleUseCase = (*ScheduleUseCase)(nil)

func NewScheduleUseCase(repo interfaces.IServiceOrderRepository) *ScheduleUseCase {
	return &ScheduleUseCase{repo: repo}
}

func (u *ScheduleUseCase) RequestSchedule(ctx context.Context, actorID, orderID, date, timeOfDay string) (entities.ServiceOrder, error) {
	date, timeOfDay = strings.TrimSpace(date), strings.TrimSpace(timeOfDay)
	if date == "" || timeOfDay == "" {
		return entities.ServiceOrder{}, fmt.Errorf("%w: date and time are required", ErrInvalidScheduleInput)
	}

	o, err := u.load(ctx, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if !o.IsDriver(actorID) {
		return entities.ServiceOrder{}, ErrNotOrderParty
	}
	if err := guardScheduleMutation(o); err != nil {
		return entities.ServiceOrder{}, err
	}
	switch o.ScheduleStatus {
	case entities.ScheduleStatusImediato, entities.ScheduleStatusPendente:
	default:
		return entities.ServiceOrder{}, fmt.Errorf("%w: cannot request a slot while %s", ErrInvalidTransition, o.ScheduleStatus)
	}

	pendente := entities.ScheduleStatusPendente
	patch := entities.OrderPatch{
		ScheduleDate:   &date,
		ScheduleTime:   &timeOfDay,
		ScheduleStatus: &pendente,
	}
	return u.persistSchedule(ctx, o, patch, "request")
}

func (u *ScheduleUseCase) AcceptSchedule(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error) {
	o, err := u.load(ctx, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if !o.IsWorkshop(actorID) {
		return entities.ServiceOrder{}, ErrNotOrderParty
	}
	if err := guardScheduleMutation(o); err != nil {
		return entities.ServiceOrder{}, err
	}
	if o.ScheduleStatus == entities.ScheduleStatusConfirmado {
		return o, nil
	}
	if o.ScheduleStatus != entities.ScheduleStatusPendente {
		return entities.ServiceOrder{}, fmt.Errorf("%w: cannot accept a slot while %s", ErrInvalidTransition, o.ScheduleStatus)
	}

	confirmado := entities.ScheduleStatusConfirmado
	return u.persistSchedule(ctx, o, entities.OrderPatch{ScheduleStatus: &confirmado}, "accept")
}

func (u *ScheduleUseCase) CounterSchedule(ctx context.Context, actorID, orderID, date, timeOfDay string) (entities.ServiceOrder, error) {
	date, timeOfDay = strings.TrimSpace(date), strings.TrimSpace(timeOfDay)
	if date == "" || timeOfDay == "" {
		return entities.ServiceOrder{}, fmt.Errorf("%w: date and time are required", ErrInvalidScheduleInput)
	}

	o, err := u.load(ctx, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if !o.IsWorkshop(actorID) {
		return entities.ServiceOrder{}, ErrNotOrderParty
	}
	if err := guardScheduleMutation(o); err != nil {
		return entities.ServiceOrder{}, err
	}
	switch o.ScheduleStatus {
	case entities.ScheduleStatusPendente, entities.ScheduleStatusNegociacao:
	default:
		return entities.ServiceOrder{}, fmt.Errorf("%w: cannot counter-propose while %s", ErrInvalidTransition, o.ScheduleStatus)
	}

	negociacao := entities.ScheduleStatusNegociacao
	patch := entities.OrderPatch{
		ScheduleStatus:       &negociacao,
		WorkshopProposedDate: &date,
		WorkshopProposedTime: &timeOfDay,
	}
	return u.persistSchedule(ctx, o, patch, "counter")
}

func (u *ScheduleUseCase) AcceptProposal(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error) {
	o, err := u.load(ctx, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if !o.IsDriver(actorID) {
		return entities.ServiceOrder{}, ErrNotOrderParty
	}
	if err := guardScheduleMutation(o); err != nil {
		return entities.ServiceOrder{}, err
	}
	if o.ScheduleStatus != entities.ScheduleStatusNegociacao {
		return entities.ServiceOrder{}, fmt.Errorf("%w: no counter-proposal to accept while %s", ErrInvalidTransition, o.ScheduleStatus)
	}

	date, timeOfDay := o.WorkshopProposedDate, o.WorkshopProposedTime
	confirmado := entities.ScheduleStatusConfirmado
	patch := entities.OrderPatch{
		ScheduleDate:          &date,
		ScheduleTime:          &timeOfDay,
		ScheduleStatus:        &confirmado,
		ClearWorkshopProposal: true,
	}
	return u.persistSchedule(ctx, o, patch, "accept-proposal")
}

func (u *ScheduleUseCase) RejectProposal(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error) {
	o, err := u.load(ctx, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if !o.IsDriver(actorID) {
		return entities.ServiceOrder{}, ErrNotOrderParty
	}
	if o.ScheduleStatus != entities.ScheduleStatusNegociacao {
		return entities.ServiceOrder{}, fmt.Errorf("%w: no counter-proposal to reject while %s", ErrInvalidTransition, o.ScheduleStatus)
	}
	if o.Status.IsTerminal() {
		return entities.ServiceOrder{}, fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, o.Status)
	}

	updated, err := u.repo.UpdateStatus(ctx, o.ID, o.Revision, entities.OrderStatusCancelado, entities.OrderPatch{})
	if err != nil {
		if errors.Is(err, interfaces.ErrRevisionConflict) {
			return entities.ServiceOrder{}, ErrStaleRevision
		}
		return entities.ServiceOrder{}, err
	}
	log.Printf("[schedule][usecase] proposal rejected; order cancelled order_id=%s", o.ID)
	return updated, nil
}

// guardScheduleMutation rejects scheduling commands on terminal orders.
func guardScheduleMutation(o entities.ServiceOrder) error {
	if o.Status.IsTerminal() {
		return fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, o.Status)
	}
	return nil
}

func (u *ScheduleUseCase) persistSchedule(ctx context.Context, o entities.ServiceOrder, patch entities.OrderPatch, op string) (entities.ServiceOrder, error) {
	// Schedule moves keep the current status; only the patch changes.
	updated, err := u.repo.UpdateStatus(ctx, o.ID, o.Revision, o.Status, patch)
	if err != nil {
		if errors.Is(err, interfaces.ErrRevisionConflict) {
			log.Printf("[schedule][usecase] stale write rejected order_id=%s op=%s", o.ID, op)
			return entities.ServiceOrder{}, ErrStaleRevision
		}
		log.Printf("[schedule][usecase] %s failed order_id=%s err=%v", op, o.ID, err)
		return entities.ServiceOrder{}, err
	}
	log.Printf("[schedule][usecase] %s applied order_id=%s schedule_status=%s", op, updated.ID, updated.ScheduleStatus)
	return updated, nil
}

func (u *ScheduleUseCase) load(ctx context.Context, orderID string) (entities.ServiceOrder, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.ServiceOrder{}, fmt.Errorf("%w: order id is required", ErrInvalidScheduleInput)
	}
	o, err := u.repo.GetByID(ctx, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if o.ID == "" {
		return entities.ServiceOrder{}, ErrOrderNotFound
	}
	return o, nil
}
