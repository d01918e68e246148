package response

import (
	"time"

	"mioto/internal/domain/entities"
)

type ServiceOrderResponse struct {
	ID       string `json:"id"`
	Revision int64  `json:"revision"`

	DriverID      string `json:"driver_id"`
	DriverName    string `json:"driver_name,omitempty"`
	DriverPhone   string `json:"driver_phone,omitempty"`
	WorkshopID    string `json:"workshop_id"`
	WorkshopName  string `json:"workshop_name,omitempty"`
	WorkshopPhone string `json:"workshop_phone,omitempty"`

	ServiceName        string   `json:"service_name"`
	ServiceDescription string   `json:"service_description,omitempty"`
	Price              *float64 `json:"price,omitempty"`
	PaymentMethod      string   `json:"payment_method"`
	Vehicle            string   `json:"vehicle"`
	VehiclePlate       string   `json:"vehicle_plate,omitempty"`

	Date   string `json:"date"`
	Status string `json:"status"`

	ScheduleDate         string `json:"schedule_date,omitempty"`
	ScheduleTime         string `json:"schedule_time,omitempty"`
	ScheduleStatus       string `json:"schedule_status,omitempty"`
	WorkshopProposedDate string `json:"workshop_proposed_date,omitempty"`
	WorkshopProposedTime string `json:"workshop_proposed_time,omitempty"`

	CompletionPhotoWorkshop string `json:"completion_photo_workshop,omitempty"`
	CompletionPhotoDriver   string `json:"completion_photo_driver,omitempty"`
	Rating                  int    `json:"rating,omitempty"`
	Review                  string `json:"review,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromServiceOrder(o entities.ServiceOrder) ServiceOrderResponse {
	return ServiceOrderResponse{
		ID:                      o.ID,
		Revision:                o.Revision,
		DriverID:                o.DriverID,
		DriverName:              o.DriverName,
		DriverPhone:             o.DriverPhone,
		WorkshopID:              o.WorkshopID,
		WorkshopName:            o.WorkshopName,
		WorkshopPhone:           o.WorkshopPhone,
		ServiceName:             o.ServiceName,
		ServiceDescription:      o.ServiceDescription,
		Price:                   o.Price,
		PaymentMethod:           string(o.PaymentMethod),
		Vehicle:                 o.Vehicle,
		VehiclePlate:            o.VehiclePlate,
		Date:                    o.Date,
		Status:                  string(o.Status),
		ScheduleDate:            o.ScheduleDate,
		ScheduleTime:            o.ScheduleTime,
		ScheduleStatus:          string(o.ScheduleStatus),
		WorkshopProposedDate:    o.WorkshopProposedDate,
		WorkshopProposedTime:    o.WorkshopProposedTime,
		CompletionPhotoWorkshop: o.CompletionPhotoWorkshop,
		CompletionPhotoDriver:   o.CompletionPhotoDriver,
		Rating:                  o.Rating,
		Review:                  o.Review,
		CreatedAt:               o.CreatedAt,
		UpdatedAt:               o.UpdatedAt,
	}
}

func FromServiceOrders(orders []entities.ServiceOrder) []ServiceOrderResponse {
	out := make([]ServiceOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromServiceOrder(o))
	}
	return out
}
