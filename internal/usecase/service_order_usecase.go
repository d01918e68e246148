package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"mioto/internal/domain/entities"
	"mioto/internal/usecase/interfaces"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidTransition   = errors.New("invalid order status transition")
	ErrMissingPrecondition = errors.New("missing transition precondition")
	ErrAlreadyReviewed     = errors.New("order already reviewed")
	ErrStaleRevision       = errors.New("stale order revision; refresh and retry")
	ErrNotOrderParty       = errors.New("actor is not a party to the order")
	ErrInvalidOrderInput   = errors.New("invalid order input")
)

// displayDateLayout matches the pt-BR creation date shown to users. The value
// is stored once at creation and never re-derived.
const displayDateLayout = "02/01/2006"

// IServiceOrderUseCase is the order lifecycle engine.
//
// It validates every command against the current state, applies the transition
// and persists it through the repository with the revision it read, so that a
// counterparty mutation observed between read and write is rejected instead of
// silently overwritten.

type IServiceOrderUseCase interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (entities.ServiceOrder, error)
	ConfirmPayment(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error)
	Depart(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error)
	Arrive(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error)
	Finish(ctx context.Context, actorID, orderID, completionPhoto string) (entities.ServiceOrder, error)
	Cancel(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error)
	OverrideStatus(ctx context.Context, actorID, orderID string, target entities.OrderStatus) (entities.ServiceOrder, error)
	GetByID(ctx context.Context, id string) (entities.ServiceOrder, error)
	ListByActor(ctx context.Context, actorID string, role entities.ActorRole) ([]entities.ServiceOrder, error)
}

// CreateOrderInput carries the resolved service selection for a new order.
// Workshop self-orders (administrative flow) set the workshop as both parties.
type CreateOrderInput struct {
	DriverID      string
	DriverName    string
	DriverPhone   string
	WorkshopID    string
	WorkshopName  string
	WorkshopPhone string

	ServiceName        string
	ServiceDescription string
	Price              *float64
	PaymentMethod      entities.PaymentMethod
	Vehicle            string
	VehiclePlate       string

	// Optional appointment request; when both are set the order starts the
	// scheduling negotiation in pendente, otherwise it is imediato.
	ScheduleDate string
	ScheduleTime string
}

type ServiceOrderUseCase struct {
	repo    interfaces.IServiceOrderRepository
	gateway interfaces.IPaymentGateway
}

var _ IServiceOrderUseCase = (*ServiceOrderUseCase)(nil)

func NewServiceOrderUseCase(repo interfaces.IServiceOrderRepository, gateway interfaces.IPaymentGateway) *ServiceOrderUseCase {
	return &ServiceOrderUseCase{repo: repo, gateway: gateway}
}

func (u *ServiceOrderUseCase) CreateOrder(ctx context.Context, in CreateOrderInput) (entities.ServiceOrder, error) {
	if strings.TrimSpace(in.DriverID) == "" || strings.TrimSpace(in.WorkshopID) == "" {
		return entities.ServiceOrder{}, fmt.Errorf("%w: driver_id and workshop_id are required", ErrInvalidOrderInput)
	}
	if strings.TrimSpace(in.ServiceName) == "" {
		return entities.ServiceOrder{}, fmt.Errorf("%w: service_name is required", ErrInvalidOrderInput)
	}
	if !in.PaymentMethod.IsValid() {
		return entities.ServiceOrder{}, fmt.Errorf("%w: unknown payment_method %q", ErrInvalidOrderInput, in.PaymentMethod)
	}
	if in.Price != nil && *in.Price < 0 {
		return entities.ServiceOrder{}, fmt.Errorf("%w: negative price", ErrInvalidOrderInput)
	}
	if (in.ScheduleDate == "") != (in.ScheduleTime == "") {
		return entities.ServiceOrder{}, fmt.Errorf("%w: schedule date and time must be provided together", ErrInvalidOrderInput)
	}

	scheduleStatus := entities.ScheduleStatusImediato
	if in.ScheduleDate != "" {
		scheduleStatus = entities.ScheduleStatusPendente
	}

	vehicle := strings.TrimSpace(in.Vehicle)
	if vehicle == "" {
		vehicle = "Veículo não informado"
	}

	now := time.Now().UTC()
	o := entities.ServiceOrder{
		ID:                 uuid.NewString(),
		Revision:           0,
		DriverID:           strings.TrimSpace(in.DriverID),
		DriverName:         strings.TrimSpace(in.DriverName),
		DriverPhone:        strings.TrimSpace(in.DriverPhone),
		WorkshopID:         strings.TrimSpace(in.WorkshopID),
		WorkshopName:       strings.TrimSpace(in.WorkshopName),
		WorkshopPhone:      strings.TrimSpace(in.WorkshopPhone),
		ServiceName:        strings.TrimSpace(in.ServiceName),
		ServiceDescription: strings.TrimSpace(in.ServiceDescription),
		Price:              in.Price,
		PaymentMethod:      in.PaymentMethod,
		Vehicle:            vehicle,
		VehiclePlate:       strings.TrimSpace(in.VehiclePlate),
		Date:               now.Format(displayDateLayout),
		Status:             in.PaymentMethod.InitialStatus(),
		ScheduleDate:       in.ScheduleDate,
		ScheduleTime:       in.ScheduleTime,
		ScheduleStatus:     scheduleStatus,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if in.PaymentMethod == entities.PaymentMethodCreditCard {
		u.submitCardPayment(ctx, o)
	}

	created, err := u.repo.Create(ctx, o)
	if err != nil {
		log.Printf("[order][usecase] create failed order_id=%s err=%v", o.ID, err)
		return entities.ServiceOrder{}, err
	}
	log.Printf("[order][usecase] order created order_id=%s status=%s schedule_status=%s", created.ID, created.Status, created.ScheduleStatus)
	return created, nil
}

// submitCardPayment reports the card charge to the configured provider. The
// order is presumed captured at submission, so provider errors are logged and
// never block creation.
func (u *ServiceOrderUseCase) submitCardPayment(ctx context.Context, o entities.ServiceOrder) {
	if u.gateway == nil {
		log.Printf("[order][usecase] payment gateway not configured; credit_card order presumed captured order_id=%s", o.ID)
		return
	}

	payload := map[string]any{
		"external_reference": o.ID,
		"description":        fmt.Sprintf("Ordem de serviço %s - %s", o.ID, o.ServiceName),
	}
	if o.Price != nil {
		payload["transaction_amount"] = *o.Price
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[order][usecase] payment payload marshal failed order_id=%s err=%v", o.ID, err)
		return
	}

	providerPaymentID, providerStatus, _, err := u.gateway.CreatePayment(ctx, b)
	if err != nil {
		log.Printf("[order][usecase] payment gateway failed; order presumed captured order_id=%s err=%v", o.ID, err)
		return
	}
	log.Printf("[order][usecase] payment submitted order_id=%s provider_payment_id=%s provider_status=%s", o.ID, providerPaymentID, providerStatus)
}

func (u *ServiceOrderUseCase) ConfirmPayment(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error) {
	return u.advance(ctx, actorID, orderID, entities.OrderStatusPago)
}

func (u *ServiceOrderUseCase) Depart(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error) {
	return u.advance(ctx, actorID, orderID, entities.OrderStatusACaminho)
}

func (u *ServiceOrderUseCase) Arrive(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error) {
	return u.advance(ctx, actorID, orderID, entities.OrderStatusChegou)
}

// Finish moves chegou -> concluido. The completion photo is a hard
// precondition enforced here at the command boundary; the manual override
// path is the only way to reach concluido without one.
func (u *ServiceOrderUseCase) Finish(ctx context.Context, actorID, orderID, completionPhoto string) (entities.ServiceOrder, error) {
	completionPhoto = strings.TrimSpace(completionPhoto)
	if completionPhoto == "" {
		return entities.ServiceOrder{}, fmt.Errorf("%w: completion photo required to finish", ErrMissingPrecondition)
	}

	o, err := u.loadForWorkshop(ctx, actorID, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if o.Status == entities.OrderStatusConcluido {
		return o, nil
	}
	if err := u.guardForward(o, entities.OrderStatusConcluido); err != nil {
		return entities.ServiceOrder{}, err
	}

	patch := entities.OrderPatch{CompletionPhotoWorkshop: &completionPhoto}
	return u.persistStatus(ctx, o, entities.OrderStatusConcluido, patch)
}

// Cancel is available to both parties from any non-terminal state.
func (u *ServiceOrderUseCase) Cancel(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error) {
	o, err := u.load(ctx, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if !o.IsParty(actorID) {
		return entities.ServiceOrder{}, ErrNotOrderParty
	}
	if o.Status == entities.OrderStatusCancelado {
		return o, nil
	}
	if o.Status.IsTerminal() {
		return entities.ServiceOrder{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, entities.OrderStatusCancelado)
	}
	return u.persistStatus(ctx, o, entities.OrderStatusCancelado, entities.OrderPatch{})
}

// OverrideStatus is the workshop's escape hatch for field conditions (skipped
// states). It bypasses the sequential rule and the finish photo precondition,
// but never leaves a terminal state and stays blocked while scheduling terms
// are under negotiation.
func (u *ServiceOrderUseCase) OverrideStatus(ctx context.Context, actorID, orderID string, target entities.OrderStatus) (entities.ServiceOrder, error) {
	if !target.IsOverrideTarget() {
		return entities.ServiceOrder{}, fmt.Errorf("%w: %q is not an override target", ErrInvalidOrderInput, target)
	}

	o, err := u.loadForWorkshop(ctx, actorID, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if o.Status == target {
		return o, nil
	}
	if o.Status.IsTerminal() {
		return entities.ServiceOrder{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, target)
	}
	if o.ScheduleStatus == entities.ScheduleStatusNegociacao && target != entities.OrderStatusCancelado {
		return entities.ServiceOrder{}, fmt.Errorf("%w: schedule under negotiation", ErrInvalidTransition)
	}

	log.Printf("[order][usecase] manual override order_id=%s %s -> %s", o.ID, o.Status, target)
	return u.persistStatus(ctx, o, target, entities.OrderPatch{})
}

func (u *ServiceOrderUseCase) GetByID(ctx context.Context, id string) (entities.ServiceOrder, error) {
	return u.load(ctx, id)
}

func (u *ServiceOrderUseCase) ListByActor(ctx context.Context, actorID string, role entities.ActorRole) ([]entities.ServiceOrder, error) {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return nil, fmt.Errorf("%w: actor_id is required", ErrInvalidOrderInput)
	}
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidOrderInput, role)
	}
	return u.repo.ListByActor(ctx, actorID, role)
}

// advance applies a workshop-initiated sequential forward step.
func (u *ServiceOrderUseCase) advance(ctx context.Context, actorID, orderID string, to entities.OrderStatus) (entities.ServiceOrder, error) {
	o, err := u.loadForWorkshop(ctx, actorID, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if o.Status == to {
		return o, nil
	}
	if err := u.guardForward(o, to); err != nil {
		return entities.ServiceOrder{}, err
	}
	return u.persistStatus(ctx, o, to, entities.OrderPatch{})
}

// guardForward validates a sequential forward step: the transition table must
// allow it, and progression is blocked while scheduling terms are unresolved.
func (u *ServiceOrderUseCase) guardForward(o entities.ServiceOrder, to entities.OrderStatus) error {
	if !entities.CanTransition(o.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, to)
	}
	if o.ScheduleStatus == entities.ScheduleStatusNegociacao {
		return fmt.Errorf("%w: schedule under negotiation", ErrInvalidTransition)
	}
	return nil
}

func (u *ServiceOrderUseCase) persistStatus(ctx context.Context, o entities.ServiceOrder, to entities.OrderStatus, patch entities.OrderPatch) (entities.ServiceOrder, error) {
	updated, err := u.repo.UpdateStatus(ctx, o.ID, o.Revision, to, patch)
	if err != nil {
		if errors.Is(err, interfaces.ErrRevisionConflict) {
			log.Printf("[order][usecase] stale write rejected order_id=%s read_revision=%d target=%s", o.ID, o.Revision, to)
			return entities.ServiceOrder{}, ErrStaleRevision
		}
		log.Printf("[order][usecase] status update failed order_id=%s target=%s err=%v", o.ID, to, err)
		return entities.ServiceOrder{}, err
	}
	log.Printf("[order][usecase] status updated order_id=%s %s -> %s revision=%d", o.ID, o.Status, to, updated.Revision)
	return updated, nil
}

func (u *ServiceOrderUseCase) load(ctx context.Context, orderID string) (entities.ServiceOrder, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return entities.ServiceOrder{}, fmt.Errorf("%w: order id is required", ErrInvalidOrderInput)
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

func (u *ServiceOrderUseCase) loadForWorkshop(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error) {
	o, err := u.load(ctx, orderID)
	if err != nil {
		return entities.ServiceOrder{}, err
	}
	if !o.IsWorkshop(actorID) {
		return entities.ServiceOrder{}, ErrNotOrderParty
	}
	return o, nil
}
