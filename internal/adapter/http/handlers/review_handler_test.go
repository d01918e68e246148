package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"mioto/internal/adapter/http/handlers/mocks"
	"mioto/internal/domain/entities"
	"mioto/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newReviewRouter(h *ReviewHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/v1/orders/:order_id/review", h.AddReview)
	return r
}

func TestReviewHandler_AddReview(t *testing.T) {
	t.Run("missing rating", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIReviewUseCase(ctrl)
		r := newReviewRouter(NewReviewHandler(uc))

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o1/review", bytes.NewBufferString(`{"actor_id":"d1"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("added", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIReviewUseCase(ctrl)
		r := newReviewRouter(NewReviewHandler(uc))

		uc.EXPECT().AddReview(gomock.Any(), "d1", "o1", 5, "Excelente", "foto.jpg").
			Return(entities.ServiceOrder{ID: "o1", Rating: 5, Review: "Excelente"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o1/review", bytes.NewBufferString(`{"actor_id":"d1","rating":5,"review":"Excelente","photo":"foto.jpg"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", w.Code, w.Body.String())
		}
	})

	t.Run("second review maps to 409", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIReviewUseCase(ctrl)
		r := newReviewRouter(NewReviewHandler(uc))

		uc.EXPECT().AddReview(gomock.Any(), "d1", "o1", 3, "", "").Return(entities.ServiceOrder{}, usecase.ErrAlreadyReviewed)

		req := httptest.NewRequest(http.MethodPost, "/v1/orders/o1/review", bytes.NewBufferString(`{"actor_id":"d1","rating":3}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d body=%s", w.Code, w.Body.String())
		}
	})
}
