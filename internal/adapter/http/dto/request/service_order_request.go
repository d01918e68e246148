package request

import (
	"errors"
	"strings"

	"mioto/internal/domain/entities"
)

var (
	ErrInvalidActor         = errors.New("invalid actor")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// CreateServiceOrderRequest is the payload submitted by the driver app (or by
// the workshop for an administrative self-order).
type CreateServiceOrderRequest struct {
	DriverID      string `json:"driver_id" binding:"required"`
	DriverName    string `json:"driver_name"`
	DriverPhone   string `json:"driver_phone"`
	WorkshopID    string `json:"workshop_id" binding:"required"`
	WorkshopName  string `json:"workshop_name"`
	WorkshopPhone string `json:"workshop_phone"`

	ServiceName        string   `json:"service_name" binding:"required"`
	ServiceDescription string   `json:"service_description"`
	Price              *float64 `json:"price"`
	PaymentMethod      string   `json:"payment_method" binding:"required"`
	Vehicle            string   `json:"vehicle"`
	VehiclePlate       string   `json:"vehicle_plate"`

	ScheduleDate string `json:"schedule_date"`
	ScheduleTime string `json:"schedule_time"`
}

func (r CreateServiceOrderRequest) ResolvePaymentMethod() (entities.PaymentMethod, error) {
	m := entities.PaymentMethod(strings.TrimSpace(r.PaymentMethod))
	if !m.IsValid() {
		return "", ErrInvalidPaymentMethod
	}
	return m, nil
}

// ActorRequest identifies which party issues a transition command. Every
// mutation endpoint requires it; the store authorizes the actor against the
// order's parties.
type ActorRequest struct {
	ActorID string `json:"actor_id" binding:"required"`
}

func (r ActorRequest) ResolveActorID() string {
	return strings.TrimSpace(r.ActorID)
}

// FinishOrderRequest completes an order. The photo is mandatory on the
// sequential path; the manual override endpoint is the escape hatch.
type FinishOrderRequest struct {
	ActorID         string `json:"actor_id" binding:"required"`
	CompletionPhoto string `json:"completion_photo"`
}

// OverrideStatusRequest sets the order status directly, bypassing the
// sequential rule.
type OverrideStatusRequest struct {
	ActorID string `json:"actor_id" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

func (r OverrideStatusRequest) ResolveStatus() entities.OrderStatus {
	return entities.OrderStatus(strings.TrimSpace(r.Status))
}

// ScheduleSlotRequest carries a proposed appointment slot, used both for the
// driver's request and the workshop's counter-proposal.
type ScheduleSlotRequest struct {
	ActorID string `json:"actor_id" binding:"required"`
	Date    string `json:"date" binding:"required"`
	Time    string `json:"time" binding:"required"`
}

// ReviewRequest is the driver's one-shot post-completion review.
type ReviewRequest struct {
	ActorID string `json:"actor_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
	Review  string `json:"review"`
	Photo   string `json:"photo"`
}
