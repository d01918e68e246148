package usecase

import (
	"context"
	"errors"
	"testing"

	"mioto/internal/domain/entities"
	"mioto/internal/usecase/interfaces"
	"mioto/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func orderFixture(status entities.OrderStatus) entities.ServiceOrder {
	return entities.ServiceOrder{
		ID:            "order-1",
		Revision:      3,
		DriverID:      "driver-1",
		DriverName:    "Motorista Teste",
		WorkshopID:    "workshop-1",
		WorkshopName:  "Oficina Central",
		ServiceName:   "Troca de Óleo",
		PaymentMethod: entities.PaymentMethodPayOnSite,
		Vehicle:       "Fiat Uno",
		Status:        status,
	}
}

func echoCreate(repo *mocks.MockIServiceOrderRepository) {
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, o entities.ServiceOrder) (entities.ServiceOrder, error) {
			return o, nil
		})
}

func TestServiceOrderUseCase_CreateOrder_Validations(t *testing.T) {
	uc := NewServiceOrderUseCase(nil, nil)

	t.Run("missing parties", func(t *testing.T) {
		_, err := uc.CreateOrder(context.Background(), CreateOrderInput{ServiceName: "Freios", PaymentMethod: entities.PaymentMethodPayOnSite})
		if !errors.Is(err, ErrInvalidOrderInput) {
			t.Fatalf("expected ErrInvalidOrderInput, got %v", err)
		}
	})

	t.Run("missing service name", func(t *testing.T) {
		_, err := uc.CreateOrder(context.Background(), CreateOrderInput{DriverID: "d", WorkshopID: "w", PaymentMethod: entities.PaymentMethodPayOnSite})
		if !errors.Is(err, ErrInvalidOrderInput) {
			t.Fatalf("expected ErrInvalidOrderInput, got %v", err)
		}
	})

	t.Run("unknown payment method", func(t *testing.T) {
		_, err := uc.CreateOrder(context.Background(), CreateOrderInput{DriverID: "d", WorkshopID: "w", ServiceName: "Freios", PaymentMethod: "boleto"})
		if !errors.Is(err, ErrInvalidOrderInput) {
			t.Fatalf("expected ErrInvalidOrderInput, got %v", err)
		}
	})

	t.Run("schedule date without time", func(t *testing.T) {
		_, err := uc.CreateOrder(context.Background(), CreateOrderInput{
			DriverID: "d", WorkshopID: "w", ServiceName: "Freios",
			PaymentMethod: entities.PaymentMethodPayOnSite, ScheduleDate: "2024-06-01",
		})
		if !errors.Is(err, ErrInvalidOrderInput) {
			t.Fatalf("expected ErrInvalidOrderInput, got %v", err)
		}
	})
}

func TestServiceOrderUseCase_CreateOrder_InitialStatus(t *testing.T) {
	t.Run("pay_on_site starts at criado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		echoCreate(repo)
		uc := NewServiceOrderUseCase(repo, nil)

		o, err := uc.CreateOrder(context.Background(), CreateOrderInput{
			DriverID: "d", DriverName: "Motorista", WorkshopID: "w", WorkshopName: "Oficina",
			ServiceName: "Troca de Óleo", PaymentMethod: entities.PaymentMethodPayOnSite,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if o.Status != entities.OrderStatusCriado {
			t.Fatalf("expected status criado, got %s", o.Status)
		}
		if o.ScheduleStatus != entities.ScheduleStatusImediato {
			t.Fatalf("expected schedule imediato, got %s", o.ScheduleStatus)
		}
		if o.ID == "" || o.Date == "" {
			t.Fatalf("expected generated id and display date, got %q %q", o.ID, o.Date)
		}
	})

	t.Run("credit_card starts at pago and submits through the gateway", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		gateway := mocks.NewMockIPaymentGateway(ctrl)
		echoCreate(repo)
		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("mp-1", "approved", nil, nil)
		uc := NewServiceOrderUseCase(repo, gateway)

		price := 150.0
		o, err := uc.CreateOrder(context.Background(), CreateOrderInput{
			DriverID: "d", WorkshopID: "w", ServiceName: "Troca de Óleo",
			Price: &price, PaymentMethod: entities.PaymentMethodCreditCard,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if o.Status != entities.OrderStatusPago {
			t.Fatalf("expected status pago, got %s", o.Status)
		}
	})

	t.Run("gateway failure never blocks creation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		gateway := mocks.NewMockIPaymentGateway(ctrl)
		echoCreate(repo)
		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("", "", nil, errors.New("provider down"))
		uc := NewServiceOrderUseCase(repo, gateway)

		o, err := uc.CreateOrder(context.Background(), CreateOrderInput{
			DriverID: "d", WorkshopID: "w", ServiceName: "Freios",
			PaymentMethod: entities.PaymentMethodCreditCard,
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if o.Status != entities.OrderStatusPago {
			t.Fatalf("expected status pago, got %s", o.Status)
		}
	})

	t.Run("schedule request at creation starts pendente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		echoCreate(repo)
		uc := NewServiceOrderUseCase(repo, nil)

		o, err := uc.CreateOrder(context.Background(), CreateOrderInput{
			DriverID: "d", WorkshopID: "w", ServiceName: "Revisão",
			PaymentMethod: entities.PaymentMethodPayOnSite,
			ScheduleDate:  "2024-06-01", ScheduleTime: "10:00",
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if o.ScheduleStatus != entities.ScheduleStatusPendente {
			t.Fatalf("expected schedule pendente, got %s", o.ScheduleStatus)
		}
		if o.ScheduleDate != "2024-06-01" || o.ScheduleTime != "10:00" {
			t.Fatalf("schedule not stored: %q %q", o.ScheduleDate, o.ScheduleTime)
		}
	})
}

func TestServiceOrderUseCase_ForwardPath(t *testing.T) {
	t.Run("confirm payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		o := orderFixture(entities.OrderStatusCriado)
		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(o, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "order-1", int64(3), entities.OrderStatusPago, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ int64, status entities.OrderStatus, patch entities.OrderPatch) (entities.ServiceOrder, error) {
				out := patch.Apply(o)
				out.Status = status
				out.Revision++
				return out, nil
			})

		got, err := uc.ConfirmPayment(context.Background(), "workshop-1", "order-1")
		if err != nil {
			t.Fatalf("confirm payment: %v", err)
		}
		if got.Status != entities.OrderStatusPago || got.Revision != 4 {
			t.Fatalf("unexpected result: status=%s revision=%d", got.Status, got.Revision)
		}
	})

	t.Run("reapplying the current status is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		o := orderFixture(entities.OrderStatusPago)
		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(o, nil)
		// no UpdateStatus expected

		got, err := uc.ConfirmPayment(context.Background(), "workshop-1", "order-1")
		if err != nil {
			t.Fatalf("expected no-op success, got %v", err)
		}
		if got.Revision != 3 {
			t.Fatalf("no-op must not bump revision, got %d", got.Revision)
		}
	})

	t.Run("skipping a state is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(orderFixture(entities.OrderStatusCriado), nil)

		if _, err := uc.Arrive(context.Background(), "workshop-1", "order-1"); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("terminal orders reject forward commands", func(t *testing.T) {
		for _, status := range []entities.OrderStatus{entities.OrderStatusConcluido, entities.OrderStatusCancelado} {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockIServiceOrderRepository(ctrl)
			uc := NewServiceOrderUseCase(repo, nil)

			repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(orderFixture(status), nil)

			if _, err := uc.Depart(context.Background(), "workshop-1", "order-1"); !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("status %s: expected ErrInvalidTransition, got %v", status, err)
			}
			ctrl.Finish()
		}
	})

	t.Run("driver cannot drive the forward path", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(orderFixture(entities.OrderStatusPago), nil)

		if _, err := uc.Depart(context.Background(), "driver-1", "order-1"); !errors.Is(err, ErrNotOrderParty) {
			t.Fatalf("expected ErrNotOrderParty, got %v", err)
		}
	})

	t.Run("progression blocked while negotiating", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		o := orderFixture(entities.OrderStatusCriado)
		o.ScheduleStatus = entities.ScheduleStatusNegociacao
		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(o, nil)

		if _, err := uc.ConfirmPayment(context.Background(), "workshop-1", "order-1"); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("unknown order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "ghost").Return(entities.ServiceOrder{}, nil)

		if _, err := uc.ConfirmPayment(context.Background(), "workshop-1", "ghost"); !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})
}

func TestServiceOrderUseCase_Finish(t *testing.T) {
	t.Run("photo is a hard precondition", func(t *testing.T) {
		uc := NewServiceOrderUseCase(nil, nil)
		// no repo call may happen: state must never mutate on a failed precondition
		if _, err := uc.Finish(context.Background(), "workshop-1", "order-1", "  "); !errors.Is(err, ErrMissingPrecondition) {
			t.Fatalf("expected ErrMissingPrecondition, got %v", err)
		}
	})

	t.Run("photo persisted together with the status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		o := orderFixture(entities.OrderStatusChegou)
		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(o, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "order-1", int64(3), entities.OrderStatusConcluido, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, _ int64, status entities.OrderStatus, patch entities.OrderPatch) (entities.ServiceOrder, error) {
				if patch.CompletionPhotoWorkshop == nil || *patch.CompletionPhotoWorkshop != "img1" {
					t.Fatalf("expected completion photo in patch, got %+v", patch)
				}
				out := patch.Apply(o)
				out.Status = status
				out.Revision++
				return out, nil
			})

		got, err := uc.Finish(context.Background(), "workshop-1", "order-1", "img1")
		if err != nil {
			t.Fatalf("finish: %v", err)
		}
		if got.Status != entities.OrderStatusConcluido || got.CompletionPhotoWorkshop != "img1" {
			t.Fatalf("unexpected result: %s %q", got.Status, got.CompletionPhotoWorkshop)
		}
	})

	t.Run("finish from the wrong state", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(orderFixture(entities.OrderStatusPago), nil)

		if _, err := uc.Finish(context.Background(), "workshop-1", "order-1", "img1"); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestServiceOrderUseCase_Cancel(t *testing.T) {
	t.Run("either party may cancel", func(t *testing.T) {
		for _, actor := range []string{"driver-1", "workshop-1"} {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockIServiceOrderRepository(ctrl)
			uc := NewServiceOrderUseCase(repo, nil)

			o := orderFixture(entities.OrderStatusACaminho)
			repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(o, nil)
			repo.EXPECT().UpdateStatus(gomock.Any(), "order-1", int64(3), entities.OrderStatusCancelado, gomock.Any()).Return(orderFixture(entities.OrderStatusCancelado), nil)

			if _, err := uc.Cancel(context.Background(), actor, "order-1"); err != nil {
				t.Fatalf("cancel by %s: %v", actor, err)
			}
			ctrl.Finish()
		}
	})

	t.Run("strangers may not", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(orderFixture(entities.OrderStatusCriado), nil)

		if _, err := uc.Cancel(context.Background(), "someone-else", "order-1"); !errors.Is(err, ErrNotOrderParty) {
			t.Fatalf("expected ErrNotOrderParty, got %v", err)
		}
	})

	t.Run("cancelling a cancelled order is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(orderFixture(entities.OrderStatusCancelado), nil)

		if _, err := uc.Cancel(context.Background(), "driver-1", "order-1"); err != nil {
			t.Fatalf("expected no-op success, got %v", err)
		}
	})

	t.Run("completed orders cannot be cancelled", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(orderFixture(entities.OrderStatusConcluido), nil)

		if _, err := uc.Cancel(context.Background(), "driver-1", "order-1"); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})
}

func TestServiceOrderUseCase_OverrideStatus(t *testing.T) {
	t.Run("skips states without the photo precondition", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		o := orderFixture(entities.OrderStatusCriado)
		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(o, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "order-1", int64(3), entities.OrderStatusConcluido, gomock.Any()).Return(orderFixture(entities.OrderStatusConcluido), nil)

		if _, err := uc.OverrideStatus(context.Background(), "workshop-1", "order-1", entities.OrderStatusConcluido); err != nil {
			t.Fatalf("override: %v", err)
		}
	})

	t.Run("criado is not a target", func(t *testing.T) {
		uc := NewServiceOrderUseCase(nil, nil)
		if _, err := uc.OverrideStatus(context.Background(), "workshop-1", "order-1", entities.OrderStatusCriado); !errors.Is(err, ErrInvalidOrderInput) {
			t.Fatalf("expected ErrInvalidOrderInput, got %v", err)
		}
	})

	t.Run("terminal orders stay terminal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(orderFixture(entities.OrderStatusCancelado), nil)

		if _, err := uc.OverrideStatus(context.Background(), "workshop-1", "order-1", entities.OrderStatusPago); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
	})

	t.Run("blocked while negotiating except cancellation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mocks.NewMockIServiceOrderRepository(ctrl)
		uc := NewServiceOrderUseCase(repo, nil)

		o := orderFixture(entities.OrderStatusCriado)
		o.ScheduleStatus = entities.ScheduleStatusNegociacao
		repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(o, nil).Times(2)
		repo.EXPECT().UpdateStatus(gomock.Any(), "order-1", int64(3), entities.OrderStatusCancelado, gomock.Any()).Return(orderFixture(entities.OrderStatusCancelado), nil)

		if _, err := uc.OverrideStatus(context.Background(), "workshop-1", "order-1", entities.OrderStatusPago); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("expected ErrInvalidTransition, got %v", err)
		}
		if _, err := uc.OverrideStatus(context.Background(), "workshop-1", "order-1", entities.OrderStatusCancelado); err != nil {
			t.Fatalf("cancellation override should pass, got %v", err)
		}
	})
}

func TestServiceOrderUseCase_StaleRevision(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mocks.NewMockIServiceOrderRepository(ctrl)
	uc := NewServiceOrderUseCase(repo, nil)

	o := orderFixture(entities.OrderStatusCriado)
	repo.EXPECT().GetByID(gomock.Any(), "order-1").Return(o, nil)
	repo.EXPECT().UpdateStatus(gomock.Any(), "order-1", int64(3), entities.OrderStatusPago, gomock.Any()).Return(entities.ServiceOrder{}, interfaces.ErrRevisionConflict)

	if _, err := uc.ConfirmPayment(context.Background(), "workshop-1", "order-1"); !errors.Is(err, ErrStaleRevision) {
		t.Fatalf("expected ErrStaleRevision, got %v", err)
	}
}

func TestServiceOrderUseCase_ListByActor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mocks.NewMockIServiceOrderRepository(ctrl)
	uc := NewServiceOrderUseCase(repo, nil)

	repo.EXPECT().ListByActor(gomock.Any(), "driver-1", entities.ActorRoleMotorista).Return([]entities.ServiceOrder{orderFixture(entities.OrderStatusCriado)}, nil)

	orders, err := uc.ListByActor(context.Background(), "driver-1", entities.ActorRoleMotorista)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	if _, err := uc.ListByActor(context.Background(), "driver-1", "passenger"); !errors.Is(err, ErrInvalidOrderInput) {
		t.Fatalf("expected ErrInvalidOrderInput for unknown role, got %v", err)
	}
}
