package handlers

import (
	"log"
	"net/http"

	"mioto/internal/adapter/http/dto/request"
	response "mioto/internal/adapter/http/dto/response"
	"mioto/internal/usecase"

	"github.com/gin-gonic/gin"
)

// ReviewHandler handles the driver's post-completion review.

type ReviewHandler struct {
	usecase usecase.IReviewUseCase
}

func NewReviewHandler(uc usecase.IReviewUseCase) *ReviewHandler {
	return &ReviewHandler{usecase: uc}
}

// AddReview attaches the driver's rating, text and photo to a finished order.
func (h *ReviewHandler) AddReview(c *gin.Context) {
	orderID := c.Param("order_id")
	var req request.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[review][handler] invalid payload order_id=%s err=%v", orderID, err)
		c.JSON(errInvalidOrderPayload.HTTPStatus, errInvalidOrderPayload.ToHTTPError())
		return
	}

	updated, err := h.usecase.AddReview(c.Request.Context(), req.ActorID, orderID, req.Rating, req.Review, req.Photo)
	if err != nil {
		log.Printf("[review][handler] add failed order_id=%s err=%v", orderID, err)
		appErr := mapOrderError(err)
		c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
		return
	}
	log.Printf("[review][handler] add success order_id=%s rating=%d", updated.ID, updated.Rating)

	c.JSON(http.StatusOK, response.FromServiceOrder(updated))
}
