package handler

import (
	"time"

	"github.com/farmconnect/marketplace-api/internal/core/domain"
)

type createContractRequest struct {
	Title      string    `json:"title"        validate:"required"`
	Crop       string    `json:"crop"         validate:"required"`
	QuantityKg float64   `json:"quantity_kg"  validate:"required,gt=0"`
	PricePerKg float64   `json:"price_per_kg" validate:"required,gt=0"`
	Currency   string    `json:"currency"     validate:"required,len=3"`
	DeliveryBy time.Time `json:"delivery_by"  validate:"required"`
}

type advanceContractRequest struct {
	Status string `json:"status" validate:"required,oneof=active fulfilled cancelled"`
	Notes  string `json:"notes"`
}

type contractListResponse struct {
	Contracts []*domain.Contract `json:"contracts"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
}
