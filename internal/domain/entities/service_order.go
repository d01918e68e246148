package entities

import "time"

// OrderStatus represents the lifecycle of a service order (ordem de serviço).
//
// Domain notes:
//   - The order-service is the source of truth for order state.
//   - Forward transitions are driven by the workshop; cancellation is available
//     to both parties from any non-terminal state.
//   - concluido and cancelado are terminal: no further status or scheduling
//     mutation is permitted.

type OrderStatus string

const (
	OrderStatusCriado    OrderStatus = "criado"
	OrderStatusPago      OrderStatus = "pago"
	OrderStatusACaminho  OrderStatus = "a_caminho"
	OrderStatusChegou    OrderStatus = "chegou"
	OrderStatusConcluido OrderStatus = "concluido"
	OrderStatusCancelado OrderStatus = "cancelado"
)

// PaymentMethod selects how the driver pays for the service.
//
// credit_card orders are presumed captured at submission and start at pago;
// pay_on_site orders start at criado and are confirmed by the workshop.

type PaymentMethod string

const (
	PaymentMethodCreditCard PaymentMethod = "credit_card"
	PaymentMethodPayOnSite  PaymentMethod = "pay_on_site"
)

// ScheduleStatus is the appointment negotiation sub-state, independent of the
// main status path.
//
//   - imediato:   no appointment, service requested ASAP
//   - pendente:   driver proposed a date/time, awaiting the workshop
//   - negociacao: workshop counter-proposed, awaiting the driver
//   - confirmado: both parties agree on scheduleDate/scheduleTime

type ScheduleStatus string

const (
	ScheduleStatusImediato   ScheduleStatus = "imediato"
	ScheduleStatusPendente   ScheduleStatus = "pendente"
	ScheduleStatusConfirmado ScheduleStatus = "confirmado"
	ScheduleStatusNegociacao ScheduleStatus = "negociacao"
)

// ActorRole identifies which party to an order is issuing a command.

type ActorRole string

const (
	ActorRoleMotorista ActorRole = "motorista"
	ActorRoleOficina   ActorRole = "oficina"
)

// allowedTransitions encodes the sequential status flow as a directed graph.
// Cancellation edges are listed explicitly so terminal states stay empty.
var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusCriado:    {OrderStatusPago, OrderStatusCancelado},
	OrderStatusPago:      {OrderStatusACaminho, OrderStatusCancelado},
	OrderStatusACaminho:  {OrderStatusChegou, OrderStatusCancelado},
	OrderStatusChegou:    {OrderStatusConcluido, OrderStatusCancelado},
	OrderStatusConcluido: {},
	OrderStatusCancelado: {},
}

// CanTransition reports whether from -> to is an allowed sequential move.
// from == to is allowed so that reapplying a command is a no-op, not an error.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	allowed, ok := allowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition may leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusConcluido || s == OrderStatusCancelado
}

// IsValid reports whether s is a known status value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCriado, OrderStatusPago, OrderStatusACaminho,
		OrderStatusChegou, OrderStatusConcluido, OrderStatusCancelado:
		return true
	}
	return false
}

// IsOverrideTarget reports whether s may be set through the workshop's manual
// override. The override exists because field conditions (a workshop skipping
// states) are common; it bypasses the sequential rule but may not recreate an
// order, so criado is excluded.
func (s OrderStatus) IsOverrideTarget() bool {
	switch s {
	case OrderStatusPago, OrderStatusACaminho, OrderStatusChegou,
		OrderStatusConcluido, OrderStatusCancelado:
		return true
	}
	return false
}

// IsValid reports whether m is a known payment method.
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCreditCard || m == PaymentMethodPayOnSite
}

// InitialStatus resolves the status a freshly created order starts in.
func (m PaymentMethod) InitialStatus() OrderStatus {
	if m == PaymentMethodCreditCard {
		return OrderStatusPago
	}
	return OrderStatusCriado
}

// IsValid reports whether r is a known actor role.
func (r ActorRole) IsValid() bool {
	return r == ActorRoleMotorista || r == ActorRoleOficina
}

// ServiceOrder is the driver-to-workshop service request persisted in DynamoDB.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (driver_id-index):   driver_id, sort key created_at
//   - GSI2 (workshop_id-index): workshop_id, sort key created_at
//
// Concurrency:
//   - Revision increases by one on every successful mutation. Transition
//     commands carry the revision they read; the store rejects stale writes
//     so both parties can poll and mutate the same record safely.
//
// The Date field keeps the display-formatted creation date shown to users
// (dd/mm/yyyy, pt-BR); it is set once at creation and never re-derived.
type ServiceOrder struct {
	ID       string `json:"id"`
	Revision int64  `json:"revision"`

	DriverID      string `json:"driver_id"`
	DriverName    string `json:"driver_name"`
	DriverPhone   string `json:"driver_phone,omitempty"`
	WorkshopID    string `json:"workshop_id"`
	WorkshopName  string `json:"workshop_name"`
	WorkshopPhone string `json:"workshop_phone,omitempty"`

	ServiceName        string        `json:"service_name"`
	ServiceDescription string        `json:"service_description,omitempty"`
	Price              *float64      `json:"price,omitempty"`
	PaymentMethod      PaymentMethod `json:"payment_method"`
	Vehicle            string        `json:"vehicle"`
	VehiclePlate       string        `json:"vehicle_plate,omitempty"`

	Date   string      `json:"date"`
	Status OrderStatus `json:"status"`

	ScheduleDate         string         `json:"schedule_date,omitempty"`
	ScheduleTime         string         `json:"schedule_time,omitempty"`
	ScheduleStatus       ScheduleStatus `json:"schedule_status,omitempty"`
	WorkshopProposedDate string         `json:"workshop_proposed_date,omitempty"`
	WorkshopProposedTime string         `json:"workshop_proposed_time,omitempty"`

	CompletionPhotoWorkshop string `json:"completion_photo_workshop,omitempty"`
	CompletionPhotoDriver   string `json:"completion_photo_driver,omitempty"`
	Rating                  int    `json:"rating,omitempty"`
	Review                  string `json:"review,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Reviewed reports whether the driver already attached a review.
func (o ServiceOrder) Reviewed() bool {
	return o.Rating > 0
}

// IsDriver reports whether actorID is the order's driver party.
func (o ServiceOrder) IsDriver(actorID string) bool {
	return actorID != "" && actorID == o.DriverID
}

// IsWorkshop reports whether actorID is the order's workshop party.
func (o ServiceOrder) IsWorkshop(actorID string) bool {
	return actorID != "" && actorID == o.WorkshopID
}

// IsParty reports whether actorID is either party to the order.
func (o ServiceOrder) IsParty(actorID string) bool {
	return o.IsDriver(actorID) || o.IsWorkshop(actorID)
}

// OrderPatch carries the optional field updates applied together with a status
// write (e.g. setting the completion photo while finishing). Nil pointers leave
// the stored value untouched; ClearWorkshopProposal removes both proposal
// fields, which a plain pointer cannot express.
type OrderPatch struct {
	ScheduleDate            *string
	ScheduleTime            *string
	ScheduleStatus          *ScheduleStatus
	WorkshopProposedDate    *string
	WorkshopProposedTime    *string
	ClearWorkshopProposal   bool
	CompletionPhotoWorkshop *string
}

// IsZero reports whether the patch changes nothing.
func (p OrderPatch) IsZero() bool {
	return p.ScheduleDate == nil && p.ScheduleTime == nil &&
		p.ScheduleStatus == nil && p.WorkshopProposedDate == nil &&
		p.WorkshopProposedTime == nil && !p.ClearWorkshopProposal &&
		p.CompletionPhotoWorkshop == nil
}

// Apply returns a copy of o with the patch applied. The store implementations
// share it so in-memory and DynamoDB writes stay behaviorally identical.
func (p OrderPatch) Apply(o ServiceOrder) ServiceOrder {
	if p.ScheduleDate != nil {
		o.ScheduleDate = *p.ScheduleDate
	}
	if p.ScheduleTime != nil {
		o.ScheduleTime = *p.ScheduleTime
	}
	if p.ScheduleStatus != nil {
		o.ScheduleStatus = *p.ScheduleStatus
	}
	if p.WorkshopProposedDate != nil {
		o.WorkshopProposedDate = *p.WorkshopProposedDate
	}
	if p.WorkshopProposedTime != nil {
		o.WorkshopProposedTime = *p.WorkshopProposedTime
	}
	if p.ClearWorkshopProposal {
		o.WorkshopProposedDate = ""
		o.WorkshopProposedTime = ""
	}
	if p.CompletionPhotoWorkshop != nil {
		o.CompletionPhotoWorkshop = *p.CompletionPhotoWorkshop
	}
	return o
}
