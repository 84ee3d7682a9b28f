package dto

import "time"

type ReservationListDTO struct {
	ID              uint      `json:"id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Status          string    `json:"status"`
	CustomerID      uint      `json:"customer_id"`
	ServiceName     string    `json:"service_name"`
	Address         string    `json:"address"`
	TotalPriceCents int64     `json:"total_price_cents"`
	SeriesID        *string   `json:"series_id,omitempty"`
}
