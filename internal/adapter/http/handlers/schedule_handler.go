package handlers

import (
	"context"
	"log"
	"net/http"

	"mioto/internal/adapter/http/dto/request"
	response "mioto/internal/adapter/http/dto/response"
	"mioto/internal/domain/entities"
	"mioto/internal/usecase"

	"github.com/gin-gonic/gin"
)

// ScheduleHandler handles HTTP requests for the appointment negotiation.

type ScheduleHandler struct {
	usecase usecase.IScheduleUseCase
}

func NewScheduleHandler(uc usecase.IScheduleUseCase) *ScheduleHandler {
	return &ScheduleHandler{usecase: uc}
}

// RequestSchedule lets the driver ask for an appointment slot.
func (h *ScheduleHandler) RequestSchedule(c *gin.Context) {
	h.withSlot(c, "request", h.usecase.RequestSchedule)
}

// CounterSchedule lets the workshop answer with a different slot.
func (h *ScheduleHandler) CounterSchedule(c *gin.Context) {
	h.withSlot(c, "counter", h.usecase.CounterSchedule)
}

// AcceptSchedule lets the workshop confirm the driver's requested slot.
func (h *ScheduleHandler) AcceptSchedule(c *gin.Context) {
	h.resolve(c, "accept", h.usecase.AcceptSchedule)
}

// AcceptProposal lets the driver take the workshop's counter-proposal.
func (h *ScheduleHandler) AcceptProposal(c *gin.Context) {
	h.resolve(c, "accept-proposal", h.usecase.AcceptProposal)
}

// RejectProposal cancels the order from a counter-proposal.
func (h *ScheduleHandler) RejectProposal(c *gin.Context) {
	h.resolve(c, "reject-proposal", h.usecase.RejectProposal)
}

func (h *ScheduleHandler) withSlot(c *gin.Context, op string, fn func(ctx context.Context, actorID, orderID, date, timeOfDay string) (entities.ServiceOrder, error)) {
	orderID := c.Param("order_id")
	var req request.ScheduleSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[schedule][handler] %s invalid payload order_id=%s err=%v", op, orderID, err)
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	updated, err := fn(c.Request.Context(), req.ActorID, orderID, req.Date, req.Time)
	if err != nil {
		log.Printf("[schedule][handler] %s failed order_id=%s err=%v", op, orderID, err)
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[schedule][handler] %s success order_id=%s schedule_status=%s", op, updated.ID, updated.ScheduleStatus)

	c.JSON(http.StatusOK, response.FromServiceOrder(updated))
}

func (h *ScheduleHandler) resolve(c *gin.Context, op string, fn func(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error)) {
	orderID := c.Param("order_id")
	var req request.ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[schedule][handler] %s invalid payload order_id=%s err=%v", op, orderID, err)
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	updated, err := fn(c.Request.Context(), req.ResolveActorID(), orderID)
	if err != nil {
		log.Printf("[schedule][handler] %s failed order_id=%s err=%v", op, orderID, err)
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[schedule][handler] %s success order_id=%s schedule_status=%s status=%s", op, updated.ID, updated.ScheduleStatus, updated.Status)

	c.JSON(http.StatusOK, response.FromServiceOrder(updated))
}
