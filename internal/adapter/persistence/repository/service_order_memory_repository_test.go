package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mioto/internal/domain/entities"
	"mioto/internal/usecase/interfaces"
)

func seedOrder(t *testing.T, repo *ServiceOrderMemoryRepository, id string, createdAt time.Time) entities.ServiceOrder {
	t.Helper()
	o := entities.ServiceOrder{
		ID:             id,
		Revision:       1,
		DriverID:       "driver-1",
		WorkshopID:     "workshop-1",
		ServiceName:    "Revisão completa",
		PaymentMethod:  entities.PaymentMethodPayOnSite,
		Vehicle:        "Fiat Uno",
		Status:         entities.OrderStatusCriado,
		ScheduleStatus: entities.ScheduleStatusImediato,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}
	created, err := repo.Create(context.Background(), o)
	if err != nil {
		t.Fatalf("seed %s: %v", id, err)
	}
	return created
}

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	repo := NewServiceOrderMemoryRepository()
	o := seedOrder(t, repo, "o1", time.Now().UTC())

	got, err := repo.GetByID(context.Background(), "o1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != o.ID || got.Status != entities.OrderStatusCriado {
		t.Fatalf("unexpected order: %+v", got)
	}

	if _, err := repo.Create(context.Background(), o); !errors.Is(err, interfaces.ErrRevisionConflict) {
		t.Fatalf("duplicate create: expected ErrRevisionConflict, got %v", err)
	}

	missing, err := repo.GetByID(context.Background(), "nope")
	if err != nil || missing.ID != "" {
		t.Fatalf("missing order should be zero-value with nil error, got %+v %v", missing, err)
	}
}

func TestMemoryRepository_ListByActor(t *testing.T) {
	repo := NewServiceOrderMemoryRepository()
	base := time.Now().UTC()
	seedOrder(t, repo, "older", base.Add(-time.Hour))
	seedOrder(t, repo, "newer", base)

	other := entities.ServiceOrder{ID: "other", Revision: 1, DriverID: "driver-2", WorkshopID: "workshop-1", CreatedAt: base}
	if _, err := repo.Create(context.Background(), other); err != nil {
		t.Fatalf("seed other: %v", err)
	}

	byDriver, err := repo.ListByActor(context.Background(), "driver-1", entities.ActorRoleMotorista)
	if err != nil {
		t.Fatalf("list driver: %v", err)
	}
	if len(byDriver) != 2 || byDriver[0].ID != "newer" || byDriver[1].ID != "older" {
		t.Fatalf("expected [newer older], got %+v", byDriver)
	}

	byWorkshop, err := repo.ListByActor(context.Background(), "workshop-1", entities.ActorRoleOficina)
	if err != nil {
		t.Fatalf("list workshop: %v", err)
	}
	if len(byWorkshop) != 3 {
		t.Fatalf("expected 3 workshop orders, got %d", len(byWorkshop))
	}
}

func TestMemoryRepository_UpdateStatusRevisionCheck(t *testing.T) {
	repo := NewServiceOrderMemoryRepository()
	o := seedOrder(t, repo, "o1", time.Now().UTC())

	photo := "antes.jpg"
	updated, err := repo.UpdateStatus(context.Background(), o.ID, o.Revision, entities.OrderStatusPago, entities.OrderPatch{CompletionPhotoWorkshop: &photo})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != entities.OrderStatusPago || updated.Revision != o.Revision+1 {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.CompletionPhotoWorkshop != "antes.jpg" {
		t.Fatalf("patch not applied: %+v", updated)
	}

	// Retrying with the old revision must fail.
	if _, err := repo.UpdateStatus(context.Background(), o.ID, o.Revision, entities.OrderStatusACaminho, entities.OrderPatch{}); !errors.Is(err, interfaces.ErrRevisionConflict) {
		t.Fatalf("expected ErrRevisionConflict, got %v", err)
	}

	missing, err := repo.UpdateStatus(context.Background(), "nope", 1, entities.OrderStatusPago, entities.OrderPatch{})
	if err != nil || missing.ID != "" {
		t.Fatalf("missing order should be zero-value with nil error, got %+v %v", missing, err)
	}
}

func TestMemoryRepository_AddReviewOnce(t *testing.T) {
	repo := NewServiceOrderMemoryRepository()
	o := seedOrder(t, repo, "o1", time.Now().UTC())

	updated, err := repo.AddReview(context.Background(), o.ID, o.Revision, 5, "Excelente", "depois.jpg")
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if updated.Rating != 5 || updated.Review != "Excelente" || updated.CompletionPhotoDriver != "depois.jpg" {
		t.Fatalf("review not stored: %+v", updated)
	}

	if _, err := repo.AddReview(context.Background(), o.ID, updated.Revision, 1, "", ""); !errors.Is(err, interfaces.ErrReviewExists) {
		t.Fatalf("expected ErrReviewExists, got %v", err)
	}
}

func TestMemoryRepository_ConcurrentUpdatesOneWinner(t *testing.T) {
	repo := NewServiceOrderMemoryRepository()
	o := seedOrder(t, repo, "o1", time.Now().UTC())

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = repo.UpdateStatus(context.Background(), o.ID, o.Revision, entities.OrderStatusPago, entities.OrderPatch{})
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else if !errors.Is(err, interfaces.ErrRevisionConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winning write, got %d", winners)
	}
}
