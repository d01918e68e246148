package routes

import (
	"mioto/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathOrders = "/orders"
)

func addOrderRoutes(rg *gin.RouterGroup, orderHandler *handlers.ServiceOrderHandler, scheduleHandler *handlers.ScheduleHandler, reviewHandler *handlers.ReviewHandler) {
	orders := rg.Group(PathOrders)
	{
		orders.POST("", orderHandler.CreateOrder)
		// GET /orders is the polling endpoint (actor_id + role query).
		orders.GET("", orderHandler.ListOrders)
		orders.GET("/:order_id", orderHandler.GetOrder)

		orders.PATCH("/:order_id/pay", orderHandler.ConfirmPayment)
		orders.PATCH("/:order_id/depart", orderHandler.Depart)
		orders.PATCH("/:order_id/arrive", orderHandler.Arrive)
		orders.PATCH("/:order_id/finish", orderHandler.Finish)
		orders.PATCH("/:order_id/cancel", orderHandler.Cancel)
		// Manual override (workshop only): bypasses the sequential rule.
		orders.PATCH("/:order_id/status", orderHandler.OverrideStatus)

		orders.POST("/:order_id/schedule", scheduleHandler.RequestSchedule)
		orders.PATCH("/:order_id/schedule/accept", scheduleHandler.AcceptSchedule)
		orders.PATCH("/:order_id/schedule/counter", scheduleHandler.CounterSchedule)
		orders.PATCH("/:order_id/schedule/proposal/accept", scheduleHandler.AcceptProposal)
		orders.PATCH("/:order_id/schedule/proposal/reject", scheduleHandler.RejectProposal)

		orders.POST("/:order_id/review", reviewHandler.AddReview)
	}
}
