package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"mioto/internal/adapter/http/dto/request"
	response "mioto/internal/adapter/http/dto/response"
	"mioto/internal/domain/entities"
	"mioto/internal/usecase"
	"mioto/internal/usecase/interfaces"
	"mioto/pkg"

	"github.com/gin-gonic/gin"
)

var errInvalidOrderPayload = pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)

// ServiceOrderHandler handles HTTP requests for the order lifecycle.

type ServiceOrderHandler struct {
	usecase usecase.IServiceOrderUseCase
}

func NewServiceOrderHandler(uc usecase.IServiceOrderUseCase) *ServiceOrderHandler {
	return &ServiceOrderHandler{usecase: uc}
}

// CreateOrder submits a new service order.
func (h *ServiceOrderHandler) CreateOrder(c *gin.Context) {
	var req request.CreateServiceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[order][handler] create invalid payload err=%v", err)
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}
	method, err := req.ResolvePaymentMethod()
	if err != nil {
		log.Printf("[order][handler] create invalid payment method value=%q", req.PaymentMethod)
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	created, err := h.usecase.CreateOrder(c.Request.Context(), usecase.CreateOrderInput{
		DriverID:           req.DriverID,
		DriverName:         req.DriverName,
		DriverPhone:        req.DriverPhone,
		WorkshopID:         req.WorkshopID,
		WorkshopName:       req.WorkshopName,
		WorkshopPhone:      req.WorkshopPhone,
		ServiceName:        req.ServiceName,
		ServiceDescription: req.ServiceDescription,
		Price:              req.Price,
		PaymentMethod:      method,
		Vehicle:            req.Vehicle,
		VehiclePlate:       req.VehiclePlate,
		ScheduleDate:       req.ScheduleDate,
		ScheduleTime:       req.ScheduleTime,
	})
	if err != nil {
		log.Printf("[order][handler] create failed err=%v", err)
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[order][handler] create success order_id=%s status=%s", created.ID, created.Status)

	c.JSON(http.StatusCreated, response.FromServiceOrder(created))
}

// GetOrder returns a single order by id.
func (h *ServiceOrderHandler) GetOrder(c *gin.Context) {
	orderID := c.Param("order_id")

	o, err := h.usecase.GetByID(c.Request.Context(), orderID)
	if err != nil {
		log.Printf("[order][handler] get failed order_id=%s err=%v", orderID, err)
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromServiceOrder(o))
}

// ListOrders returns every order visible to an actor. It is the polling
// endpoint both apps hit on their refresh interval.
func (h *ServiceOrderHandler) ListOrders(c *gin.Context) {
	actorID := c.Query("actor_id")
	role := entities.ActorRole(c.Query("role"))
	if actorID == "" || !role.IsValid() {
		log.Printf("[order][handler] list invalid query actor_id=%q role=%q", actorID, role)
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	orders, err := h.usecase.ListByActor(c.Request.Context(), actorID, role)
	if err != nil {
		log.Printf("[order][handler] list failed actor_id=%s err=%v", actorID, err)
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}

	c.JSON(http.StatusOK, response.FromServiceOrders(orders))
}

// ConfirmPayment moves criado -> pago.
func (h *ServiceOrderHandler) ConfirmPayment(c *gin.Context) {
	h.transition(c, "confirm-payment", h.usecase.ConfirmPayment)
}

// Depart moves pago -> a_caminho.
func (h *ServiceOrderHandler) Depart(c *gin.Context) {
	h.transition(c, "depart", h.usecase.Depart)
}

// Arrive moves a_caminho -> chegou.
func (h *ServiceOrderHandler) Arrive(c *gin.Context) {
	h.transition(c, "arrive", h.usecase.Arrive)
}

// Cancel terminates the order from any non-terminal state.
func (h *ServiceOrderHandler) Cancel(c *gin.Context) {
	h.transition(c, "cancel", h.usecase.Cancel)
}

// Finish moves chegou -> concluido; the completion photo is required here.
func (h *ServiceOrderHandler) Finish(c *gin.Context) {
	orderID := c.Param("order_id")
	var req request.FinishOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[order][handler] finish invalid payload order_id=%s err=%v", orderID, err)
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	updated, err := h.usecase.Finish(c.Request.Context(), req.ActorID, orderID, req.CompletionPhoto)
	if err != nil {
		log.Printf("[order][handler] finish failed order_id=%s err=%v", orderID, err)
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[order][handler] finish success order_id=%s", updated.ID)

	c.JSON(http.StatusOK, response.FromServiceOrder(updated))
}

// OverrideStatus sets the status directly (workshop only), bypassing the
// sequential rule and the completion photo requirement.
func (h *ServiceOrderHandler) OverrideStatus(c *gin.Context) {
	orderID := c.Param("order_id")
	var req request.OverrideStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[order][handler] override invalid payload order_id=%s err=%v", orderID, err)
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	updated, err := h.usecase.OverrideStatus(c.Request.Context(), req.ActorID, orderID, req.ResolveStatus())
	if err != nil {
		log.Printf("[order][handler] override failed order_id=%s target=%s err=%v", orderID, req.Status, err)
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[order][handler] override success order_id=%s status=%s", updated.ID, updated.Status)

	c.JSON(http.StatusOK, response.FromServiceOrder(updated))
}

// transition is the shared body of the actor-only status endpoints.
func (h *ServiceOrderHandler) transition(c *gin.Context, op string, fn func(ctx context.Context, actorID, orderID string) (entities.ServiceOrder, error)) {
	orderID := c.Param("order_id")
	var req request.ActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[order][handler] %s invalid payload order_id=%s err=%v", op, orderID, err)
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	updated, err := fn(c.Request.Context(), req.ResolveActorID(), orderID)
	if err != nil {
		log.Printf("[order][handler] %s failed order_id=%s err=%v", op, orderID, err)
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[order][handler] %s success order_id=%s status=%s", op, updated.ID, updated.Status)

	c.JSON(http.StatusOK, response.FromServiceOrder(updated))
}

func mapOrderError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidOrderInput), errors.Is(err, usecase.ErrInvalidScheduleInput), errors.Is(err, usecase.ErrInvalidRating):
		return pkg.NewDomainErrorSimple("INVALID_REQUEST", "Invalid request", http.StatusBadRequest)
	case errors.Is(err, usecase.ErrNotOrderParty):
		return pkg.NewDomainErrorSimple("NOT_ORDER_PARTY", "Actor is not a party to this order", http.StatusForbidden)
	case errors.Is(err, usecase.ErrOrderNotFound):
		return pkg.NewDomainErrorSimple("ORDER_NOT_FOUND", "Order not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidTransition):
		return pkg.NewDomainErrorSimple("INVALID_TRANSITION", "Transition not allowed from the current status", http.StatusConflict)
	case errors.Is(err, usecase.ErrStaleRevision):
		return pkg.NewDomainErrorSimple("STALE_REVISION", "Order changed since it was read; refresh and retry", http.StatusConflict)
	case errors.Is(err, usecase.ErrAlreadyReviewed):
		return pkg.NewDomainErrorSimple("ALREADY_REVIEWED", "Order already reviewed", http.StatusConflict)
	case errors.Is(err, usecase.ErrMissingPrecondition):
		return pkg.NewDomainErrorSimple("MISSING_PRECONDITION", "Completion photo is required to finish the order", http.StatusUnprocessableEntity)
	case errors.Is(err, interfaces.ErrStoreUnavailable):
		return pkg.NewDomainErrorSimple("STORE_UNAVAILABLE", "Order store temporarily unavailable", http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
