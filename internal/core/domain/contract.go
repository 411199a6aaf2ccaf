package domain

import (
	"errors"
	"time"
)

// ContractStatus represents the lifecycle state of a supply contract.
type ContractStatus string

const (
	ContractOffered   ContractStatus = "offered"
	ContractAccepted  ContractStatus = "accepted"
	ContractActive    ContractStatus = "active"
	ContractFulfilled ContractStatus = "fulfilled"
	ContractCancelled ContractStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[ContractStatus][]ContractStatus{
	ContractOffered:  {ContractAccepted, ContractCancelled},
	ContractAccepted: {ContractActive, ContractCancelled},
	ContractActive:   {ContractFulfilled, ContractCancelled},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrContractNotFound = errors.New("contract not found")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusEntry records one status change in a contract's history.
type StatusEntry struct {
	Status    ContractStatus `json:"status" bson:"status"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
	Notes     string         `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Contract is a supply agreement offered by a company and worked by a farmer.
// FarmerID is empty while the offer is open and is set when a farmer accepts.
type Contract struct {
	ID            string         `json:"id"`
	Reference     string         `json:"reference"`
	Title         string         `json:"title"`
	Crop          string         `json:"crop"`
	QuantityKg    float64        `json:"quantity_kg"`
	PricePerKg    float64        `json:"price_per_kg"`
	Currency      string         `json:"currency"`
	CompanyID     string         `json:"company_id"`
	FarmerID      string         `json:"farmer_id,omitempty"`
	Status        ContractStatus `json:"status"`
	StatusHistory []StatusEntry  `json:"status_history,omitempty"`
	DeliveryBy    time.Time      `json:"delivery_by"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}
